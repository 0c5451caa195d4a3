// Package monitor forwards server-side failures to Sentry.
package monitor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// Options configures the Sentry client. An empty DSN disables reporting.
type Options struct {
	DSN         string
	Environment string
	Release     string
}

// Reporter captures request failures on a Sentry hub. It is safe for
// concurrent use.
type Reporter struct {
	hub *sentry.Hub
}

// New returns a Reporter for opts, or nil when no DSN is configured.
func New(opts Options) (*Reporter, error) {
	if opts.DSN == "" {
		return nil, nil
	}

	traces := 1.0
	if opts.Environment == "production" {
		traces = 0.2
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		AttachStacktrace: true,
		TracesSampleRate: traces,
	})
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}

	return NewReporter(sentry.NewHub(client, sentry.NewScope())), nil
}

// NewReporter wraps an already configured hub.
func NewReporter(hub *sentry.Hub) *Reporter {
	return &Reporter{hub: hub}
}

// Report sends err with the request attached. r may be nil.
func (rep *Reporter) Report(r *http.Request, err error) {
	if rep == nil || err == nil {
		return
	}

	hub := rep.hub.Clone()
	if r != nil {
		hub.Scope().SetRequest(r)
		hub.Scope().SetTag("method", r.Method)
	}
	hub.CaptureException(err)
}

// Flush waits up to timeout for buffered events to be delivered.
func (rep *Reporter) Flush(timeout time.Duration) bool {
	if rep == nil {
		return true
	}
	return rep.hub.Flush(timeout)
}
