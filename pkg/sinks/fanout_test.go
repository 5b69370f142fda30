package sinks

import (
	"context"
	"errors"
	"testing"
)

type stubSink struct {
	id    string
	typ   string
	err   error
	calls int
}

func (s *stubSink) ID() string   { return s.id }
func (s *stubSink) Type() string { return s.typ }
func (s *stubSink) Record(context.Context, Event) error {
	s.calls++
	return s.err
}

func TestFanoutRecordAggregatesErrors(t *testing.T) {
	fanout := NewFanout([]Sink{
		&stubSink{id: "ok", typ: "http"},
		&stubSink{id: "bad", typ: "http", err: errors.New("failed")},
	})

	count, err := fanout.Record(context.Background(), Event{Operation: "get_listing"})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
}

func TestFanoutSkipsNilSinks(t *testing.T) {
	ok := &stubSink{id: "ok", typ: "http"}
	fanout := NewFanout([]Sink{nil, ok})
	if fanout.Size() != 1 {
		t.Fatalf("Size = %d, want 1", fanout.Size())
	}

	count, err := fanout.Record(context.Background(), Event{})
	if err != nil || count != 1 {
		t.Fatalf("Record: count=%d err=%v", count, err)
	}
	if ok.calls != 1 {
		t.Fatalf("sink called %d times", ok.calls)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	out, err := BuildAll(context.Background(), reg, []SinkConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPSinkConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 sink, got %d", len(out))
	}
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	if _, err := reg.SinkFor(context.Background(), SinkConfig{ID: "x", Type: "carrier-pigeon"}, nil); err == nil {
		t.Fatalf("expected error for unknown sink type")
	}
}

func TestRegistryRegisterCustomBuilder(t *testing.T) {
	reg := DefaultRegistry()
	reg.Register("journal", func(_ context.Context, cfg SinkConfig, _ Logger) (Sink, error) {
		return &stubSink{id: cfg.ID, typ: "journal"}, nil
	})

	sink, err := reg.SinkFor(context.Background(), SinkConfig{ID: "j1", Type: "journal"}, nil)
	if err != nil {
		t.Fatalf("SinkFor: %v", err)
	}
	if sink.Type() != "journal" || sink.ID() != "j1" {
		t.Fatalf("unexpected sink: %s %s", sink.Type(), sink.ID())
	}
}
