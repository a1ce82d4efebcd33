package tracing

import (
	"os"

	"github.com/nimbustrace/nimbus/config"
)

// A FacadeProvider retrieves the facade segment the execution environment
// created for the current invocation. RefreshFacade always returns a valid
// facade; that is an environment guarantee, not re-validated here.
type FacadeProvider interface {
	RefreshFacade() *FacadeSegment
}

// EnvFacadeProvider rebuilds the facade segment from the trace header the
// host publishes in the environment. The header changes between
// invocations, so the facade is re-read before every operation and rebuilt
// whenever the header moved.
type EnvFacadeProvider struct {
	key    string
	header string
	facade *FacadeSegment
}

// NewEnvFacadeProvider creates a provider reading the default trace header
// key.
func NewEnvFacadeProvider() *EnvFacadeProvider {
	return &EnvFacadeProvider{key: config.TraceHeaderKey}
}

// RefreshFacade returns the facade for the current invocation, rebuilding
// it if the host rotated the trace header since the last call.
func (p *EnvFacadeProvider) RefreshFacade() *FacadeSegment {
	header := os.Getenv(p.key)

	if p.facade == nil || header != p.header {
		p.header = header
		p.facade = facadeFromHeader(header)
	}

	return p.facade
}

func facadeFromHeader(header string) *FacadeSegment {
	root, parent, _ := ParseTraceHeader(header)

	// The environment guarantees a facade exists even when the header is
	// absent, e.g. on a cold local run. Synthesize identities so the
	// guarantee holds.
	if root == "" {
		root = defaultIDGenerator.Generate()
	}

	if parent == "" {
		parent = defaultIDGenerator.Generate()
	}

	return NewFacadeSegment(parent, root)
}
