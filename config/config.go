// Package config resolves nimbus settings from the process environment.
// Every getter takes a caller-supplied fallback; no validation happens
// here, consumers reject or default unrecognized values.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	// ContextMissingKey selects the strategy applied when a trace entity
	// is requested and none is current.
	ContextMissingKey = "NIMBUS_CONTEXT_MISSING"

	// DaemonAddrKey is the UDP address of the local collector daemon.
	DaemonAddrKey = "NIMBUS_DAEMON_ADDR"

	// TraceHeaderKey carries the host-generated trace header for the
	// current invocation.
	TraceHeaderKey = "NIMBUS_TRACE_HEADER"
)

// LoadDotEnv loads variables from a .env file in the working directory
// into the process environment. A missing file is not an error.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ContextMissing returns the configured missing-context strategy name, or
// fallback when the environment does not set one.
func ContextMissing(fallback string) string {
	return getenv(ContextMissingKey, fallback)
}

// DaemonAddr returns the configured collector daemon address, or fallback.
func DaemonAddr(fallback string) string {
	return getenv(DaemonAddrKey, fallback)
}

// TraceHeader returns the host trace header for the current invocation.
func TraceHeader() string {
	return os.Getenv(TraceHeaderKey)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
