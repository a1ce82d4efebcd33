package tracing

import "context"

type ctxKey struct{}

// WithContext returns a context.Context carrying the per-invocation
// ServerlessContext, so instrumentation helpers deeper in the call stack
// can reach it without package globals.
func WithContext(ctx context.Context, sc *ServerlessContext) context.Context {
	if sc == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, sc)
}

// FromContext returns the ServerlessContext carried by ctx, or nil when
// none was installed.
func FromContext(ctx context.Context) *ServerlessContext {
	sc, _ := ctx.Value(ctxKey{}).(*ServerlessContext)
	return sc
}
