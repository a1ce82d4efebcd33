package tracing

// A Subsegment is a nested unit of traced work. It holds a non-owning
// back-reference to its parent for closing and removal.
type Subsegment struct {
	entityBase

	// Namespace tags the kind of work the subsegment covers, e.g. "sql"
	// or "http".
	Namespace string
}

// NewSubsegment creates a Subsegment with a generated ID. The parent is
// assigned when the subsegment is opened on a context.
func NewSubsegment(name string) *Subsegment {
	return NewSubsegmentWithID(defaultIDGenerator.Generate(), name)
}

// NewSubsegmentWithID creates a Subsegment with a caller-provided ID.
func NewSubsegmentWithID(id, name string) *Subsegment {
	if id == "" {
		panic("subsegment ID must not be empty")
	}

	if name == "" {
		panic("subsegment name must not be empty")
	}

	return &Subsegment{entityBase: entityBase{id: id, name: name}}
}

func (s *Subsegment) setParent(parent Entity) { s.parent = parent }
