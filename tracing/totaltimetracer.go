package tracing

import (
	"sync"
	"time"
)

// TotalTimeTracer can collect the total time spent in a certain type of
// entity. If the execution of two entities overlaps, this tracer will
// simply add the two durations together.
type TotalTimeTracer struct {
	filter    EntityFilter
	lock      sync.Mutex
	totalTime time.Duration
	inflight  map[string]time.Time
}

// NewTotalTimeTracer creates a new TotalTimeTracer
func NewTotalTimeTracer(filter EntityFilter) *TotalTimeTracer {
	t := &TotalTimeTracer{
		filter:   filter,
		inflight: make(map[string]time.Time),
	}
	return t
}

// TotalTime returns the total time that has been spent on a certain type of
// entities.
func (t *TotalTimeTracer) TotalTime() time.Duration {
	t.lock.Lock()
	total := t.totalTime
	t.lock.Unlock()
	return total
}

// EntityStarted records the entity start time
func (t *TotalTimeTracer) EntityStarted(e Entity) {
	if t.filter != nil && !t.filter(e) {
		return
	}

	t.lock.Lock()
	t.inflight[e.EntityID()] = e.StartTime()
	t.lock.Unlock()
}

// EntityEnded records the end of the entity
func (t *TotalTimeTracer) EntityEnded(e Entity) {
	t.lock.Lock()
	start, ok := t.inflight[e.EntityID()]
	if !ok {
		t.lock.Unlock()
		return
	}

	t.totalTime += e.EndTime().Sub(start)
	delete(t.inflight, e.EntityID())
	t.lock.Unlock()
}
