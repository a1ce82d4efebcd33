package tracing

import "time"

// A FacadeSegment is the single environment-provided root trace entity for
// one invocation. The execution environment creates and refreshes it; this
// package only retrieves the current instance through a FacadeProvider. Its
// child collection accepts mimic segments only.
type FacadeSegment struct {
	id      string
	traceID string

	children []Entity
}

// NewFacadeSegment creates a facade segment with the identity the execution
// environment assigned to the invocation root.
func NewFacadeSegment(id, traceID string) *FacadeSegment {
	if id == "" {
		panic("facade segment ID must not be empty")
	}

	return &FacadeSegment{id: id, traceID: traceID}
}

func (f *FacadeSegment) EntityID() string   { return f.id }
func (f *FacadeSegment) EntityName() string { return "facade" }
func (f *FacadeSegment) TraceID() string    { return f.traceID }

// Parent returns nil. The facade is the root of the invocation.
func (f *FacadeSegment) Parent() Entity { return nil }

func (f *FacadeSegment) Subsegments() []Entity { return f.children }

// AddSubsegment appends a child. Only mimic segments can nest under the
// facade; anything else is a contract violation.
func (f *FacadeSegment) AddSubsegment(child Entity) {
	mustBeMimicSegment(child)
	f.children = append(f.children, child)
}

func (f *FacadeSegment) RemoveSubsegment(child Entity) bool {
	for i, c := range f.children {
		if c == child {
			f.children = append(f.children[:i], f.children[i+1:]...)
			return true
		}
	}

	return false
}

// setSubsegments replaces the whole child collection. Used by
// ServerlessContext.SetCurrentEntity, which resets the facade to hold
// exactly the installed projection.
func (f *FacadeSegment) setSubsegments(children []Entity) {
	for _, c := range children {
		mustBeMimicSegment(c)
	}

	f.children = children
}

func mustBeMimicSegment(e Entity) {
	if _, ok := e.(*MimicSegment); !ok {
		panic("facade segment only accepts mimic segments as children")
	}
}

// The environment owns the facade's lifecycle. Timing and closing are
// no-ops here.
func (f *FacadeSegment) StartTime() time.Time { return time.Time{} }
func (f *FacadeSegment) EndTime() time.Time   { return time.Time{} }
func (f *FacadeSegment) InProgress() bool     { return true }
func (f *FacadeSegment) begin(_ time.Time)    {}
func (f *FacadeSegment) Close(_ time.Time)    {}

func (f *FacadeSegment) Metadata() map[string]any    { return nil }
func (f *FacadeSegment) AddMetadata(_ string, _ any) {}
