// Package telemetry wires github.com/getsentry/sentry-go into cmd/vaultd:
// a span wraps each HTTP request, and failures that map to a 500 response
// are reported as captured exceptions (protocol-level rejections are not).
package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry client. An empty dsn yields a client
// that accepts events but never sends them, so Init is always safe to call.
func Init(dsn, environment string) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		EnableTracing:    dsn != "",
		TracesSampleRate: 0.1,
	})
}

// Flush blocks briefly to let any buffered events reach Sentry before the
// process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
