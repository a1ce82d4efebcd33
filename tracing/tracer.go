package tracing

import "fmt"

// A Tracer can collect trace-entity lifecycles from a context.
type Tracer interface {
	EntityStarted(e Entity)
	EntityEnded(e Entity)
}

// EntityFilter is a function that can filter interesting entities. If this
// function returns true, the entity is considered useful.
type EntityFilter func(e Entity) bool

// A TraceSource is a context that tracers can be attached to.
type TraceSource interface {
	attachTracer(tracer Tracer)
	attachedTracers() []Tracer
}

// CollectTrace lets the tracer collect entity lifecycles from a context.
func CollectTrace(source TraceSource, tracer Tracer) {
	for _, t := range source.attachedTracers() {
		if t == tracer {
			panic(fmt.Sprintf("context already has tracer %T", tracer))
		}
	}

	source.attachTracer(tracer)
}

func (c *Context) attachTracer(tracer Tracer) {
	c.tracers = append(c.tracers, tracer)
}

func (c *Context) attachedTracers() []Tracer { return c.tracers }

func (c *ServerlessContext) attachTracer(tracer Tracer) {
	c.base.attachTracer(tracer)
}

func (c *ServerlessContext) attachedTracers() []Tracer {
	return c.base.attachedTracers()
}
