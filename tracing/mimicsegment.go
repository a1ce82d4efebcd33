package tracing

import "time"

// A MimicSegment wraps exactly one Segment and exposes the nested-entity
// capability so the segment can be accepted as a child of the facade
// segment. Callers that opened the segment keep interacting with it as if it
// were a real root; the projection is invisible to them.
//
// A mimic segment is never classified as an ordinary subsegment: it is
// closed like a segment would be, not like a plain nested unit.
type MimicSegment struct {
	segment *Segment
	parent  Entity
}

// NewMimicSegment projects seg under parent, which is the facade segment in
// every supported call path. The wrapped segment inherits the facade's trace
// ID if it does not carry one yet.
func NewMimicSegment(parent Entity, seg *Segment) *MimicSegment {
	if seg == nil {
		panic("mimic segment must wrap a segment")
	}

	if facade, ok := parent.(*FacadeSegment); ok && seg.TraceID == "" {
		seg.TraceID = facade.TraceID()
	}

	return &MimicSegment{segment: seg, parent: parent}
}

// Segment returns the wrapped segment.
func (m *MimicSegment) Segment() *Segment { return m.segment }

func (m *MimicSegment) EntityID() string   { return m.segment.EntityID() }
func (m *MimicSegment) EntityName() string { return m.segment.EntityName() }

func (m *MimicSegment) Parent() Entity          { return m.parent }
func (m *MimicSegment) setParent(parent Entity) { m.parent = parent }

// Children opened under the projection land on the wrapped segment, so the
// caller-visible entity graph is the same one the caller would have gotten
// from a real root segment.
func (m *MimicSegment) Subsegments() []Entity { return m.segment.Subsegments() }

func (m *MimicSegment) AddSubsegment(child Entity) { m.segment.AddSubsegment(child) }

func (m *MimicSegment) RemoveSubsegment(child Entity) bool {
	return m.segment.RemoveSubsegment(child)
}

func (m *MimicSegment) StartTime() time.Time { return m.segment.StartTime() }
func (m *MimicSegment) EndTime() time.Time   { return m.segment.EndTime() }
func (m *MimicSegment) InProgress() bool     { return m.segment.InProgress() }

func (m *MimicSegment) Metadata() map[string]any { return m.segment.Metadata() }

func (m *MimicSegment) AddMetadata(key string, value any) {
	m.segment.AddMetadata(key, value)
}

func (m *MimicSegment) begin(start time.Time) { m.segment.begin(start) }
func (m *MimicSegment) Close(end time.Time)   { m.segment.Close(end) }
