package tracing

// A Segment is an independent root-level unit of traced work.
type Segment struct {
	entityBase

	// TraceID groups all the entities recorded for one invocation. It is
	// inherited from the facade segment when the segment is projected.
	TraceID string

	// Origin describes the environment the segment was recorded in.
	Origin string
}

// NewSegment creates a Segment with a generated ID.
func NewSegment(name string) *Segment {
	return NewSegmentWithID(defaultIDGenerator.Generate(), name)
}

// NewSegmentWithID creates a Segment with a caller-provided ID. Tests use
// this constructor together with a sequential ID generator to keep traces
// deterministic.
func NewSegmentWithID(id, name string) *Segment {
	if id == "" {
		panic("segment ID must not be empty")
	}

	if name == "" {
		panic("segment name must not be empty")
	}

	return &Segment{entityBase: entityBase{id: id, name: name}}
}
