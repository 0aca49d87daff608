package monitoring

import (
	"sync"
	"time"
)

// Recorder is the standard Reporter implementation: a bounded submission
// queue drained FIFO by a single goroutine into an in-memory ring, with
// warning-and-above events mirrored to the package logger. Producers
// never block; when the queue is full the event is dropped and counted.
type Recorder struct {
	queue     chan Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	mu      sync.Mutex
	events  []Event
	dropped uint64

	retain int
}

const (
	defaultQueueSize = 256
	defaultRetain    = 1024
)

// RecorderOption customises recorder construction.
type RecorderOption func(*Recorder)

// WithQueueSize sets the submission queue capacity.
func WithQueueSize(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.queue = make(chan Event, n)
		}
	}
}

// WithRetention sets how many drained events are kept for queries.
func WithRetention(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.retain = n
		}
	}
}

// NewRecorder creates a recorder and starts its drain goroutine.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		queue:  make(chan Event, defaultQueueSize),
		done:   make(chan struct{}),
		retain: defaultRetain,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.wg.Add(1)
	go r.drain()
	return r
}

// Report submits an event. It never blocks: if the queue is full or the
// recorder is closed, the event is dropped (and counted when full).
func (r *Recorder) Report(message string, severity Severity, category Category, context map[string]string) {
	e := Event{
		Time:     time.Now(),
		Message:  message,
		Severity: severity,
		Category: category,
		Context:  context,
	}

	select {
	case <-r.done:
		return
	default:
	}

	select {
	case r.queue <- e:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// drain is the single consumer: it appends events to the retention ring
// in submission order and mirrors warnings and worse to the package logger.
func (r *Recorder) drain() {
	defer r.wg.Done()
	for {
		select {
		case e := <-r.queue:
			r.store(e)
		case <-r.done:
			// Flush whatever is still queued before exiting.
			for {
				select {
				case e := <-r.queue:
					r.store(e)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) store(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	if len(r.events) > r.retain {
		r.events = r.events[len(r.events)-r.retain:]
	}
	r.mu.Unlock()

	if e.Severity == SeverityWarning || e.Severity == SeverityError || e.Severity == SeverityCritical {
		Logf("[%s/%s] %s %v", e.Severity, e.Category, e.Message, e.Context)
	}
}

// EventFilter narrows an Events query. Zero values match everything.
type EventFilter struct {
	Severity Severity
	Category Category
}

// Events returns a copy of the retained events matching the filter, in
// FIFO order.
func (r *Recorder) Events(filter EventFilter) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, 0, len(r.events))
	for _, e := range r.events {
		if filter.Severity != "" && e.Severity != filter.Severity {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Dropped returns how many events were discarded because the queue was full.
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Clear discards all retained events.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Close stops the drain goroutine after flushing queued events. Report
// calls after Close are no-ops.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() { close(r.done) })
	r.wg.Wait()
}
