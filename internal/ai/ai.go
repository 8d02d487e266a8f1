package ai

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotConfigured is returned when no API credential is set. Callers
// treat it like any other completion failure and take the fallback
// path.
var ErrNotConfigured = errors.New("ai: credential not configured")

// Completer is the single text-in/text-out contract with the external
// model: one blocking request, no retries, no streaming.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPDoer allows tests to fake the HTTP transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
