package app

import (
	"context"
	"fmt"
	"os"

	"github.com/korimako-labs/trademe-probe/internal/config"
	"github.com/korimako-labs/trademe-probe/internal/journal"
	"github.com/korimako-labs/trademe-probe/internal/logger"
	"github.com/korimako-labs/trademe-probe/internal/scenario"
	"github.com/korimako-labs/trademe-probe/pkg/httpclient"
	"github.com/korimako-labs/trademe-probe/pkg/sinks"
	"github.com/korimako-labs/trademe-probe/pkg/trademe"
)

// Probe is the harness runtime. It wires the API client, the trace fanout,
// the local journal, and the scenario checks.
type Probe struct {
	cfg       *config.Config
	client    *trademe.Client
	fanout    *sinks.Fanout
	journal   journal.Journal
	scenarios *scenario.Service
}

// NewProbe builds the probe runtime from config.
func NewProbe(ctx context.Context, cfg *config.Config) (*Probe, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	jnl, err := journal.New(cfg.JournalType, cfg.JournalPath, journal.Options{
		TraceTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanup,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	logger.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"trace_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanup.Seconds()),
	})

	sinkList, err := buildSinks(ctx, cfg, jnl)
	if err != nil {
		jnl.Close()
		return nil, err
	}
	fanout := sinks.NewFanout(sinkList)

	client, err := trademe.New(trademe.Config{
		BaseURL:     cfg.BaseURL,
		Credentials: cfg.Credentials(),
		Format:      cfg.Format,
		HTTPClient:  httpclient.NewRestyClient(cfg.HTTPTimeout),
		Observer:    &traceObserver{fanout: fanout},
	})
	if err != nil {
		jnl.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &Probe{
		cfg:       cfg,
		client:    client,
		fanout:    fanout,
		journal:   jnl,
		scenarios: scenario.NewService(client),
	}, nil
}

// buildSinks assembles the trace sinks. Without a sinks file the journal is
// the only destination; with one, its entries decide, and the journal joins
// the registry as the "journal" type.
func buildSinks(ctx context.Context, cfg *config.Config, jnl journal.Journal) ([]sinks.Sink, error) {
	if _, err := os.Stat(cfg.SinksFile); err != nil {
		logger.InfoObj("no sinks file, journaling traces only", "sinks_file", cfg.SinksFile)
		return []sinks.Sink{journal.AsSink("journal", jnl)}, nil
	}

	reg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	builderReg := sinks.DefaultRegistry()
	builderReg.Register("journal", func(_ context.Context, sc sinks.SinkConfig, _ sinks.Logger) (sinks.Sink, error) {
		return journal.AsSink(sc.ID, jnl), nil
	})

	enabled := reg.Enabled()
	built, err := sinks.BuildAll(ctx, builderReg, enabled, logger.Std{})
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, sc := range enabled {
		summaries = append(summaries, map[string]string{"id": sc.ID, "type": sc.Type})
	}
	logger.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return built, nil
}

// Run executes the probe pass: verify the listing endpoint, then the
// watchlist round trip.
func (p *Probe) Run(ctx context.Context) error {
	listingID := p.cfg.ProbeListingID

	listingReport, err := p.scenarios.VerifyListing(ctx, listingID)
	if err != nil {
		return fmt.Errorf("verify listing: %w", err)
	}
	logger.InfoObj("listing verification finished", "listing_report", listingReport)

	tripReport, err := p.scenarios.RoundTrip(ctx, listingID)
	if err != nil {
		return fmt.Errorf("watchlist round trip: %w", err)
	}
	logger.InfoObj("watchlist round trip finished", "round_trip_report", tripReport)

	if !listingReport.Passed() || !tripReport.Passed() {
		return fmt.Errorf("probe checks failed for listing %d", listingID)
	}
	return nil
}

// Close releases the journal.
func (p *Probe) Close() error {
	if p == nil || p.journal == nil {
		return nil
	}
	return p.journal.Close()
}

// traceObserver forwards client traces to the log and the sink fanout. Sink
// delivery failures are logged, never surfaced to the API caller.
type traceObserver struct {
	fanout *sinks.Fanout
}

func (o *traceObserver) Observe(ctx context.Context, tr trademe.Trace) {
	evt := sinks.Event{
		Operation:     tr.Operation,
		Method:        tr.Method,
		URL:           tr.URL,
		Authorization: tr.Authorization,
		StatusCode:    tr.StatusCode,
		Status:        tr.Status,
		Error:         tr.Error,
		Body:          sinks.BodySnippet(tr.Body),
		ObservedAt:    tr.ObservedAt,
	}

	if evt.Error != "" {
		logger.ErrorObj("api request failed", "api_trace", evt)
	} else {
		logger.DebugObj("api request completed", "api_trace", evt)
	}

	if _, err := o.fanout.Record(ctx, evt); err != nil {
		logger.WarnObj("trace sink delivery failed", "sink_errors", err.Error())
	}
}
