// Package httptrace records one trace segment per HTTP request.
package httptrace

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nimbustrace/nimbus/emitter"
	"github.com/nimbustrace/nimbus/tracing"
)

// Options configures the tracing middleware. Zero-valued fields fall back
// to sensible defaults; only Emitter is commonly set.
type Options struct {
	// Provider supplies the facade segment for each request. Defaults to
	// the env-backed provider.
	Provider tracing.FacadeProvider

	// Emitter receives every closed segment. A nil emitter means segments
	// are recorded but never shipped.
	Emitter emitter.Emitter

	TimeTeller  tracing.TimeTeller
	Logger      *zap.Logger
	IDGenerator tracing.IDGenerator

	// ContextMissing is the fallback missing-context strategy; the
	// environment can still override it.
	ContextMissing tracing.MissingStrategy

	// SegmentNamer names the segment recorded for a request. Defaults to
	// RouteName.
	SegmentNamer func(r *http.Request) string
}

// Middleware returns a mux middleware that opens a segment when a request
// arrives, makes the tracing context reachable through the request context,
// and closes and emits the segment when the handler returns. The response
// status code is attached as metadata.
func Middleware(opts Options) mux.MiddlewareFunc {
	if opts.TimeTeller == nil {
		opts.TimeTeller = tracing.WallClock{}
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	if opts.IDGenerator == nil {
		opts.IDGenerator = tracing.NewXIDGenerator()
	}

	if opts.ContextMissing == "" {
		opts.ContextMissing = tracing.StrategyLogError
	}

	if opts.SegmentNamer == nil {
		opts.SegmentNamer = RouteName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := tracing.NewServerlessContext(
				opts.TimeTeller,
				opts.Provider,
				opts.Logger,
				opts.ContextMissing)

			seg := tracing.NewSegmentWithID(
				opts.IDGenerator.Generate(),
				opts.SegmentNamer(r))
			seg.AddMetadata("http_method", r.Method)
			seg.AddMetadata("http_url", r.URL.String())

			sc.OpenSegment(seg)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(
				tracing.WithContext(r.Context(), sc)))

			seg.AddMetadata("http_status", recorder.status)
			sc.CloseSegment(time.Time{})

			if opts.Emitter != nil {
				opts.Emitter.Emit(seg)
			}
		})
	}
}

// RouteName names a segment after the matched mux route template, falling
// back to the raw URL path for unmatched requests.
func RouteName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}

	if r.URL.Path != "" {
		return r.URL.Path
	}

	return "request"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
