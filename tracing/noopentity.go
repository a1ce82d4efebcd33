package tracing

import "time"

// NoopEntity is the sentinel returned when no trace entity is current and
// the missing-context strategy degrades instead of failing. Every operation
// on it is a no-op, so instrumentation call sites can use the result without
// nil checks.
type NoopEntity struct{}

func (NoopEntity) EntityID() string   { return "" }
func (NoopEntity) EntityName() string { return "" }

func (NoopEntity) Parent() Entity { return nil }

func (NoopEntity) Subsegments() []Entity          { return nil }
func (NoopEntity) AddSubsegment(_ Entity)         {}
func (NoopEntity) RemoveSubsegment(_ Entity) bool { return false }

func (NoopEntity) StartTime() time.Time { return time.Time{} }
func (NoopEntity) EndTime() time.Time   { return time.Time{} }
func (NoopEntity) InProgress() bool     { return false }

func (NoopEntity) Metadata() map[string]any    { return nil }
func (NoopEntity) AddMetadata(_ string, _ any) {}

func (NoopEntity) begin(_ time.Time) {}
func (NoopEntity) Close(_ time.Time) {}
