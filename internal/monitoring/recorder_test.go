package monitoring

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderFIFOOrder(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	for i := 0; i < 10; i++ {
		r.Report(fmt.Sprintf("event-%d", i), SeverityInfo, CategorySimulation, nil)
	}
	r.Close()

	events := r.Events(EventFilter{})
	require.Len(t, events, 10)
	for i, e := range events {
		assert.Equal(t, fmt.Sprintf("event-%d", i), e.Message)
	}
}

func TestRecorderFilters(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Report("a", SeverityInfo, CategorySimulation, nil)
	r.Report("b", SeverityWarning, CategoryValidation, nil)
	r.Report("c", SeverityWarning, CategorySimulation, nil)
	r.Report("d", SeverityError, CategoryValidation, nil)
	r.Close()

	assert.Len(t, r.Events(EventFilter{}), 4)
	assert.Len(t, r.Events(EventFilter{Severity: SeverityWarning}), 2)
	assert.Len(t, r.Events(EventFilter{Category: CategoryValidation}), 2)

	both := r.Events(EventFilter{Severity: SeverityWarning, Category: CategoryValidation})
	require.Len(t, both, 1)
	assert.Equal(t, "b", both[0].Message)
}

func TestRecorderRetentionTrimsOldest(t *testing.T) {
	t.Parallel()

	r := NewRecorder(WithQueueSize(64), WithRetention(5))
	for i := 0; i < 20; i++ {
		r.Report(fmt.Sprintf("event-%d", i), SeverityInfo, CategorySystem, nil)
	}
	r.Close()

	events := r.Events(EventFilter{})
	require.Len(t, events, 5)
	assert.Equal(t, "event-15", events[0].Message)
	assert.Equal(t, "event-19", events[4].Message)
}

func TestRecorderNeverBlocksAndCountsDrops(t *testing.T) {
	t.Parallel()

	r := NewRecorder(WithQueueSize(8), WithRetention(10000))

	const producers = 10
	const perProducer = 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				r.Report(fmt.Sprintf("p%d-%d", p, i), SeverityInfo, CategorySimulation, nil)
			}
		}(p)
	}
	wg.Wait()
	r.Close()

	stored := len(r.Events(EventFilter{}))
	total := stored + int(r.Dropped())
	assert.Equal(t, producers*perProducer, total,
		"every submission must be either stored or counted as dropped")
}

func TestRecorderClear(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Report("a", SeverityInfo, CategorySimulation, nil)
	r.Close()
	require.Len(t, r.Events(EventFilter{}), 1)

	r.Clear()
	assert.Empty(t, r.Events(EventFilter{}))
}

func TestRecorderReportAfterCloseIsNoop(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Report("before", SeverityInfo, CategorySimulation, nil)
	r.Close()
	r.Report("after", SeverityInfo, CategorySimulation, nil)
	r.Close() // idempotent

	events := r.Events(EventFilter{})
	require.Len(t, events, 1)
	assert.Equal(t, "before", events[0].Message)
}
