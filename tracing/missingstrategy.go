package tracing

import (
	"errors"

	"go.uber.org/zap"
)

// A MissingStrategy selects the behavior when a trace entity is requested
// and none is current. The value is a free-form string resolved from the
// environment at construction; unrecognized values fall back to the
// strictest behavior.
type MissingStrategy string

const (
	// StrategyRuntimeError reports ErrMissingContext to the caller.
	StrategyRuntimeError MissingStrategy = "RUNTIME_ERROR"

	// StrategyLogError emits a diagnostic and returns a no-op entity.
	StrategyLogError MissingStrategy = "LOG_ERROR"

	// StrategyIgnoreError returns a no-op entity silently.
	StrategyIgnoreError MissingStrategy = "IGNORE_ERROR"
)

// ErrMissingContext reports that no trace entity is currently in progress.
var ErrMissingContext = errors.New("tracing: no trace entity is currently in progress")

// handleMissing dispatches on the strategy. It returns either a usable
// sentinel entity or ErrMissingContext, never both.
func handleMissing(strategy MissingStrategy, logger *zap.Logger) (Entity, error) {
	switch strategy {
	case StrategyIgnoreError:
		return NoopEntity{}, nil
	case StrategyLogError:
		logger.Error("no trace entity is currently in progress")
		return NoopEntity{}, nil
	default:
		return nil, ErrMissingContext
	}
}
