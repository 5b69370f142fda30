package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/korimako-labs/trademe-probe/pkg/sinks"
)

// Package journal persists request/response trace events locally so a probe
// run can be inspected after the fact.

// Journal is an append-only local record of trace events.
type Journal interface {
	Close() error
	Append(evt sinks.Event) error
	Recent(n int) ([]sinks.Event, error)
}

// Options controls retention characteristics for concrete journal implementations.
type Options struct {
	TraceTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTraceTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// New creates the configured journal backend.
func New(typ, path string, opts Options) (Journal, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopJournal{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.TraceTTL <= 0 {
		opts.TraceTTL = defaultTraceTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopJournal struct{}

func (noopJournal) Close() error                      { return nil }
func (noopJournal) Append(sinks.Event) error          { return nil }
func (noopJournal) Recent(int) ([]sinks.Event, error) { return nil, nil }

// sinkAdapter exposes a Journal as a sinks.Sink so it can join the fanout.
type sinkAdapter struct {
	id string
	j  Journal
}

// AsSink wraps the journal in the Sink interface under the given id.
func AsSink(id string, j Journal) sinks.Sink {
	return &sinkAdapter{id: id, j: j}
}

func (s *sinkAdapter) ID() string   { return s.id }
func (s *sinkAdapter) Type() string { return "journal" }

func (s *sinkAdapter) Record(_ context.Context, evt sinks.Event) error {
	return s.j.Append(evt)
}
