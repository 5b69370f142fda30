package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/korimako-labs/trademe-probe/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:        baseURL,
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		AccessToken:    "at",
		TokenSecret:    "ts",
		Format:         "json",
		ProbeListingID: 42,
		HTTPTimeout:    5 * time.Second,
		SinksFile:      filepath.Join(t.TempDir(), "missing-sinks.yaml"),
		JournalType:    "bbolt",
		JournalPath:    filepath.Join(t.TempDir(), "traces.db"),
		JournalTTL:     time.Hour,
		JournalCleanup: time.Hour,
	}
}

func TestProbeRunAgainstFakeSandbox(t *testing.T) {
	watched := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/v1/")
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(path, "listings/"):
			fmt.Fprint(w, `{"ListingId": 42}`)
		case r.Method == http.MethodGet && path == "mytrademe/watchList/All.json":
			if watched["42"] {
				fmt.Fprint(w, `{"List": [{"ListingId": 42}]}`)
			} else {
				fmt.Fprint(w, `{"List": []}`)
			}
		case r.Method == http.MethodPost:
			watched["42"] = true
			fmt.Fprint(w, `{"Success": true}`)
		case r.Method == http.MethodDelete:
			delete(watched, "42")
			fmt.Fprint(w, `{"Success": true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	probe, err := NewProbe(ctx, testConfig(t, srv.URL+"/v1/"))
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}
	defer probe.Close()

	if err := probe.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Every round trip leaves traces in the journal: 1 listing call + 4
	// watchlist calls.
	events, err := probe.journal.Recent(10)
	if err != nil {
		t.Fatalf("journal.Recent: %v", err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 journaled traces, got %d", len(events))
	}
	for _, evt := range events {
		if strings.Contains(evt.Authorization, "oauth_signature") {
			t.Fatalf("journaled trace leaked signature: %s", evt.Authorization)
		}
	}
}

func TestProbeRunFailsOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"ErrorDescription":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := context.Background()
	cfg := testConfig(t, srv.URL+"/v1/")
	cfg.JournalType = "none"

	probe, err := NewProbe(ctx, cfg)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}
	defer probe.Close()

	if err := probe.Run(ctx); err == nil {
		t.Fatalf("expected probe failure on 401s")
	}
}

func TestNewProbeRejectsNilConfig(t *testing.T) {
	if _, err := NewProbe(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
