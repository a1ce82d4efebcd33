package tracing

import (
	"sync"
	"time"
)

// AverageTimeTracer can collect the average duration of a certain type of
// entity.
type AverageTimeTracer struct {
	filter      EntityFilter
	lock        sync.Mutex
	averageTime time.Duration
	inflight    map[string]time.Time
	entityCount uint64
}

// NewAverageTimeTracer creates a new AverageTimeTracer
func NewAverageTimeTracer(filter EntityFilter) *AverageTimeTracer {
	t := &AverageTimeTracer{
		filter:   filter,
		inflight: make(map[string]time.Time),
	}
	return t
}

// AverageTime returns the average time spent on a certain type of entities.
func (t *AverageTimeTracer) AverageTime() time.Duration {
	t.lock.Lock()
	avg := t.averageTime
	t.lock.Unlock()
	return avg
}

// TotalCount returns the total number of entities.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.entityCount
}

// EntityStarted records the entity start time
func (t *AverageTimeTracer) EntityStarted(e Entity) {
	if t.filter != nil && !t.filter(e) {
		return
	}

	t.lock.Lock()
	t.inflight[e.EntityID()] = e.StartTime()
	t.lock.Unlock()
}

// EntityEnded records the end of the entity
func (t *AverageTimeTracer) EntityEnded(e Entity) {
	t.lock.Lock()
	start, ok := t.inflight[e.EntityID()]
	if !ok {
		t.lock.Unlock()
		return
	}

	duration := e.EndTime().Sub(start)
	t.averageTime = time.Duration(
		(float64(t.averageTime)*float64(t.entityCount) + float64(duration)) /
			float64(t.entityCount+1))
	delete(t.inflight, e.EntityID())
	t.entityCount++
	t.lock.Unlock()
}
