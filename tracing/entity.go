package tracing

import "time"

// An Entity is a unit of traced work. The concrete entity types are Segment
// (a root-level unit), Subsegment (a nested unit), FacadeSegment (the
// environment-provided root of one invocation), MimicSegment (a Segment
// projected to nest under the facade), and NoopEntity (the sentinel returned
// when no entity is current).
type Entity interface {
	EntityID() string
	EntityName() string

	// Parent returns the entity this entity nests under, or nil for
	// root-level entities.
	Parent() Entity

	Subsegments() []Entity
	AddSubsegment(child Entity)
	RemoveSubsegment(child Entity) bool

	StartTime() time.Time
	EndTime() time.Time
	InProgress() bool

	Metadata() map[string]any
	AddMetadata(key string, value any)

	begin(start time.Time)
	Close(end time.Time)
}

// A NestedEntity is an entity that hangs under a parent entity. Subsegments
// are nested; a MimicSegment is structurally nested under the facade even
// though it is closed like a root-level segment.
type NestedEntity interface {
	Entity
	setParent(parent Entity)
}

// entityBase carries the state shared by Segment and Subsegment.
type entityBase struct {
	id, name   string
	start, end time.Time
	inProgress bool
	parent     Entity
	children   []Entity
	metadata   map[string]any
}

func (e *entityBase) EntityID() string   { return e.id }
func (e *entityBase) EntityName() string { return e.name }
func (e *entityBase) Parent() Entity     { return e.parent }

func (e *entityBase) Subsegments() []Entity { return e.children }

func (e *entityBase) AddSubsegment(child Entity) {
	e.children = append(e.children, child)
}

func (e *entityBase) RemoveSubsegment(child Entity) bool {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return true
		}
	}

	return false
}

func (e *entityBase) StartTime() time.Time { return e.start }
func (e *entityBase) EndTime() time.Time   { return e.end }
func (e *entityBase) InProgress() bool     { return e.inProgress }

func (e *entityBase) Metadata() map[string]any { return e.metadata }

func (e *entityBase) AddMetadata(key string, value any) {
	if e.metadata == nil {
		e.metadata = make(map[string]any)
	}

	e.metadata[key] = value
}

// begin stamps the start time unless the caller already provided one.
func (e *entityBase) begin(start time.Time) {
	if e.start.IsZero() {
		e.start = start
	}

	e.inProgress = true
}

// Close marks the entity finished at the given time.
func (e *entityBase) Close(end time.Time) {
	e.end = end
	e.inProgress = false
}
