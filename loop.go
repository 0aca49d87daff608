package main

import (
	"context"
	"sync"
	"time"

	"github.com/veloforge/ridesim/internal/sim"
	"github.com/veloforge/ridesim/internal/timeutil"
)

// Loop drives a single engine at a fixed tick rate. It owns the engine
// exclusively (engine calls are serialized by the loop goroutine) and
// exchanges the target input and latest snapshot with the HTTP API under
// a mutex.
type Loop struct {
	engine *sim.Engine
	clock  timeutil.Clock
	tick   time.Duration

	mu    sync.Mutex
	input sim.SimulationInput
	state sim.SimulationState
}

// NewLoop creates a loop around engine with the given initial input.
func NewLoop(engine *sim.Engine, clock timeutil.Clock, tick time.Duration, initial sim.SimulationInput) *Loop {
	return &Loop{
		engine: engine,
		clock:  clock,
		tick:   tick,
		input:  initial,
	}
}

// Snapshot returns the most recent simulation state.
func (l *Loop) Snapshot() sim.SimulationState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Input returns the current target input.
func (l *Loop) Input() sim.SimulationInput {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.input
}

// SetInput replaces the target input; the next tick picks it up.
func (l *Loop) SetInput(in sim.SimulationInput) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.input = in
}

// Run ticks the engine until ctx is cancelled. record, when non-nil, is
// called after every tick with the elapsed ride time and the new state.
func (l *Loop) Run(ctx context.Context, record func(elapsedSeconds float64, st sim.SimulationState)) {
	ticker := l.clock.NewTicker(l.tick)
	defer ticker.Stop()

	start := l.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			st := l.engine.Update(l.Input())
			l.mu.Lock()
			l.state = st
			l.mu.Unlock()
			if record != nil {
				record(l.clock.Since(start).Seconds(), st)
			}
		}
	}
}
