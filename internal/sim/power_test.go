package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPowerManager() *PowerManager {
	return NewPowerManager(2.0, 1.2, 40.0)
}

func TestPowerConvergesToTarget(t *testing.T) {
	t.Parallel()

	m := newTestPowerManager()
	var out float64
	prev := -1.0
	for i := 0; i < 30; i++ {
		out = m.Smooth(200, 90, 0, false, 1.0)
		if out < prev {
			t.Fatalf("approach not monotone: %f < %f at tick %d", out, prev, i)
		}
		prev = out
	}
	assert.InDelta(t, 200, out, 1.0)
}

func TestPowerNoInstantJump(t *testing.T) {
	t.Parallel()

	m := newTestPowerManager()
	out := m.Smooth(400, 90, 0, false, 1.0)
	if out >= 400 {
		t.Fatalf("first tick output %f already at target; smoothing missing", out)
	}
	if out <= 0 {
		t.Fatalf("first tick output %f, want progress toward target", out)
	}
}

func TestPowerRestingDecay(t *testing.T) {
	t.Parallel()

	m := newTestPowerManager()
	for i := 0; i < 30; i++ {
		m.Smooth(250, 90, 0, false, 1.0)
	}

	prev := m.Smooth(250, 90, 0, true, 1.0)
	for i := 0; i < 20; i++ {
		out := m.Smooth(250, 90, 0, true, 1.0)
		if out > prev {
			t.Fatalf("resting output rose from %f to %f at tick %d", prev, out, i)
		}
		prev = out
	}
	assert.Less(t, prev, 1.0, "resting output should decay to the zero baseline")
}

func TestPowerLowCadenceDerate(t *testing.T) {
	t.Parallel()

	m := newTestPowerManager()
	var out float64
	for i := 0; i < 60; i++ {
		out = m.Smooth(200, 20, 0, false, 1.0)
	}
	// 20 rpm against a 40 rpm derate threshold halves achievable power.
	assert.InDelta(t, 100, out, 2.0)
}

func TestPowerNeverNegative(t *testing.T) {
	t.Parallel()

	m := newTestPowerManager()
	for i := 0; i < 20; i++ {
		out := m.Smooth(50, 90, -500, false, 1.0)
		if out < 0 {
			t.Fatalf("output went negative: %f", out)
		}
	}
}

func TestPowerResetClearsHistory(t *testing.T) {
	t.Parallel()

	m := newTestPowerManager()
	for i := 0; i < 10; i++ {
		m.Smooth(300, 90, 0, false, 1.0)
	}
	m.Reset()
	assert.Zero(t, m.output)
}
