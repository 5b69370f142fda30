package trademe

import (
	"context"
	"strings"
	"time"
)

// Trace describes one request/response round trip. The Authorization value is
// already redacted before the trace leaves the client.
type Trace struct {
	Operation     string
	Method        string
	URL           string
	Authorization string
	StatusCode    int
	Status        string
	Error         string
	Body          []byte
	ObservedAt    time.Time
}

// Observer receives a trace for every dispatched request. Implementations
// must not assume any particular trace content; this is a diagnostic surface,
// not a contract.
type Observer interface {
	Observe(ctx context.Context, tr Trace)
}

type noopObserver struct{}

func (noopObserver) Observe(context.Context, Trace) {}

// redactAuthorization keeps the scheme and the first header field, hiding the
// rest (nonce, signature, token) behind a fixed marker.
func redactAuthorization(header string) string {
	const scheme = "OAuth "
	if !strings.HasPrefix(header, scheme) {
		return header
	}
	rest := header[len(scheme):]
	if idx := strings.Index(rest, ","); idx >= 0 {
		rest = rest[:idx]
	}
	return scheme + rest + ", [redacted]"
}
