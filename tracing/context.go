package tracing

import (
	"time"

	"go.uber.org/zap"
)

// A Context is the generic entity-stack manager for one invocation. It holds
// the single current-entity slot; nesting depth beyond one is represented
// through each entity's own parent chain, not through the slot.
//
// A Context is scoped to one invocation and is passed explicitly. It is not
// safe for concurrent use; concurrent invocations each get their own
// instance.
type Context struct {
	timeTeller TimeTeller
	logger     *zap.Logger
	strategy   MissingStrategy

	// classify decides whether an entity is treated as nested for
	// stack-closing purposes. ServerlessContext overrides it to exclude
	// mimic segments.
	classify func(Entity) bool

	slot    Entity
	tracers []Tracer
}

// NewContext creates a Context. A nil timeTeller defaults to the wall clock
// and a nil logger discards diagnostics.
func NewContext(
	timeTeller TimeTeller,
	logger *zap.Logger,
	strategy MissingStrategy,
) *Context {
	if timeTeller == nil {
		timeTeller = WallClock{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Context{
		timeTeller: timeTeller,
		logger:     logger,
		strategy:   strategy,
	}
	c.classify = c.IsNested

	return c
}

// ContextMissing returns the current missing-context strategy.
func (c *Context) ContextMissing() MissingStrategy { return c.strategy }

// SetContextMissing replaces the missing-context strategy. Any string is
// accepted; unrecognized values behave like RUNTIME_ERROR when dispatched.
func (c *Context) SetContextMissing(strategy MissingStrategy) {
	c.strategy = strategy
}

// PutSegment installs seg as the current entity, beginning a fresh call
// tree. Whatever occupied the slot before is abandoned.
func (c *Context) PutSegment(seg Entity) {
	seg.begin(c.timeTeller.CurrentTime())
	c.slot = seg
	c.notifyStart(seg)
}

// EndSegment closes the current entity regardless of its kind and pops the
// slot back to the entity's tracked parent. It returns the closed entity,
// or nil if the slot was empty.
func (c *Context) EndSegment(end time.Time) Entity {
	e := c.slot
	if e == nil {
		c.logger.Warn("no trace entity to end")
		return nil
	}

	c.closeEntity(e, end)
	c.slot = trackedParent(e)

	return e
}

// PutSubsegment attaches sub as a child of the current entity and makes it
// the new current entity. With no current entity the outcome follows the
// missing-context strategy: RUNTIME_ERROR surfaces ErrMissingContext, the
// degrading strategies discard the subsegment.
func (c *Context) PutSubsegment(sub NestedEntity) error {
	parent := c.slot
	if parent == nil {
		if _, err := c.HandleMissing(); err != nil {
			return err
		}

		c.logger.Warn("no current trace entity, discarding subsegment",
			zap.String("name", sub.EntityName()))

		return nil
	}

	sub.begin(c.timeTeller.CurrentTime())
	parent.AddSubsegment(sub)
	sub.setParent(parent)
	c.slot = sub
	c.notifyStart(sub)

	return nil
}

// EndSubsegment closes the current entity if it is classified as nested and
// pops the slot back to its parent. It reports whether an entity was
// closed; false means the slot was empty or held a root-equivalent entity.
// Malformed close sequences are tolerated, never escalated.
func (c *Context) EndSubsegment(end time.Time) bool {
	e := c.slot
	if e == nil || !c.classify(e) {
		return false
	}

	c.closeEntity(e, end)
	c.slot = trackedParent(e)

	return true
}

// Peek returns the entity in the current-entity slot, or nil.
func (c *Context) Peek() Entity { return c.slot }

// CurrentEntity returns the current entity, consulting the missing-context
// strategy when the slot is empty.
func (c *Context) CurrentEntity() (Entity, error) {
	if c.slot != nil {
		return c.slot, nil
	}

	return c.HandleMissing()
}

// SetCurrentEntity overwrites the current-entity slot.
func (c *Context) SetCurrentEntity(e Entity) {
	c.slot = e
}

// HandleMissing dispatches the configured missing-context strategy.
func (c *Context) HandleMissing() (Entity, error) {
	return handleMissing(c.strategy, c.logger)
}

// IsNested reports whether e satisfies the generic nested-entity
// capability.
func (c *Context) IsNested(e Entity) bool {
	_, ok := e.(NestedEntity)
	return ok
}

func (c *Context) closeEntity(e Entity, end time.Time) {
	if end.IsZero() {
		end = c.timeTeller.CurrentTime()
	}

	e.Close(end)
	c.notifyEnd(e)
}

// trackedParent returns the parent the slot pops back to. The facade
// segment never occupies the slot, so popping an entity parented at the
// facade empties the slot.
func trackedParent(e Entity) Entity {
	p := e.Parent()
	if p == nil {
		return nil
	}

	if _, ok := p.(*FacadeSegment); ok {
		return nil
	}

	return p
}

func (c *Context) notifyStart(e Entity) {
	for _, t := range c.tracers {
		t.EntityStarted(e)
	}
}

func (c *Context) notifyEnd(e Entity) {
	for _, t := range c.tracers {
		t.EntityEnded(e)
	}
}
