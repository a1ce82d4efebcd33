package tracing

import (
	"time"

	"go.uber.org/zap"

	"github.com/nimbustrace/nimbus/config"
)

// A ServerlessContext mediates every trace-entity lifecycle operation inside
// a host-managed serverless invocation. The host pre-creates the one real
// root entity (the facade segment) and forbids instrumentation from creating
// a second one, so root-level opens are invisibly redirected: the segment is
// wrapped in a mimic projection and re-parented under the facade, while the
// caller keeps believing it opened a real root segment. Nested opens pass
// through unchanged.
type ServerlessContext struct {
	base     *Context
	provider FacadeProvider
}

// NewServerlessContext creates the context for one invocation. The
// missing-context strategy is resolved once from the environment, with
// defaultStrategy as the fallback; it stays mutable through
// SetContextMissing. A nil provider defaults to the env-backed facade
// provider.
func NewServerlessContext(
	timeTeller TimeTeller,
	provider FacadeProvider,
	logger *zap.Logger,
	defaultStrategy MissingStrategy,
) *ServerlessContext {
	if provider == nil {
		provider = NewEnvFacadeProvider()
	}

	strategy := MissingStrategy(
		config.ContextMissing(string(defaultStrategy)))

	c := &ServerlessContext{
		base:     NewContext(timeTeller, logger, strategy),
		provider: provider,
	}
	c.base.classify = c.isOrdinarySubsegment

	return c
}

// OpenSegment projects seg under the freshly retrieved facade segment and
// installs the projection as the current entity. After it returns,
// GetCurrentEntity yields the projection and the facade's child collection
// contains it exactly once.
func (c *ServerlessContext) OpenSegment(seg *Segment) {
	facade := c.provider.RefreshFacade()
	mimic := NewMimicSegment(facade, seg)
	facade.AddSubsegment(mimic)
	c.base.PutSegment(mimic)
}

// CloseSegment closes the current entity and, when it is a mimic
// projection, removes it from the facade's child collection. Closing
// anything else skips the removal step; malformed nesting is tolerated
// here, not rejected.
func (c *ServerlessContext) CloseSegment(end time.Time) {
	closed := c.base.EndSegment(end)

	if mimic, ok := closed.(*MimicSegment); ok {
		facade := c.provider.RefreshFacade()
		facade.RemoveSubsegment(mimic)
	}
}

// OpenSubsegment attaches sub under the current entity (a mimic projection
// or another subsegment) and makes it current. No projection applies;
// subsegments are native to the facade's root type.
func (c *ServerlessContext) OpenSubsegment(sub *Subsegment) error {
	return c.base.PutSubsegment(sub)
}

// CloseSubsegment closes the current subsegment, using end or the current
// time. It reports false when there was no subsegment to close; tracing
// defects must never abort caller logic.
func (c *ServerlessContext) CloseSubsegment(end time.Time) bool {
	return c.base.EndSubsegment(end)
}

// GetCurrentEntity returns the entity in the current-entity slot. The
// facade segment is never returned. With an empty slot the configured
// missing-context strategy decides the outcome.
func (c *ServerlessContext) GetCurrentEntity() (Entity, error) {
	if e := c.base.Peek(); e != nil {
		return e, nil
	}

	return c.base.HandleMissing()
}

// SetCurrentEntity installs e as the current entity. A raw segment is
// converted to a mimic projection parented at the refreshed facade first.
// When the installed entity is a projection, the facade's child collection
// is overwritten to hold exactly that projection, discarding any children
// it held before.
func (c *ServerlessContext) SetCurrentEntity(e Entity) {
	if seg, ok := e.(*Segment); ok {
		facade := c.provider.RefreshFacade()
		e = NewMimicSegment(facade, seg)
	}

	c.base.SetCurrentEntity(e)

	if mimic, ok := e.(*MimicSegment); ok {
		c.provider.RefreshFacade().setSubsegments([]Entity{mimic})
	}
}

// ContextMissing returns the current missing-context strategy.
func (c *ServerlessContext) ContextMissing() MissingStrategy {
	return c.base.ContextMissing()
}

// SetContextMissing replaces the missing-context strategy.
func (c *ServerlessContext) SetContextMissing(strategy MissingStrategy) {
	c.base.SetContextMissing(strategy)
}

// isOrdinarySubsegment classifies entities for stack-closing purposes. A
// mimic projection structurally holds a parent reference like a subsegment
// does, but it is root-equivalent and must be closed through CloseSegment.
func (c *ServerlessContext) isOrdinarySubsegment(e Entity) bool {
	if _, ok := e.(*MimicSegment); ok {
		return false
	}

	_, ok := e.(NestedEntity)

	return ok
}
