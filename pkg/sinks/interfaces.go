package sinks

import "context"

// Sink delivers trace events to a downstream destination (HTTP, SQS, etc).
type Sink interface {
	ID() string
	Type() string
	Record(ctx context.Context, evt Event) error
}
