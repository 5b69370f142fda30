package trademe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/korimako-labs/trademe-probe/pkg/httpclient"
	"github.com/korimako-labs/trademe-probe/pkg/oauth"
)

// Package trademe is a thin client for the Trade Me sandbox REST API covering
// listing retrieval and the watchlist operations. Every call signs a fresh
// OAuth 1.0 PLAINTEXT Authorization header, dispatches once, and hands the
// raw status and body back to the caller. No retries, no body parsing, no
// status classification.

const (
	// FormatJSON is the only representation the harness exercises.
	FormatJSON = "json"

	defaultTimeout = 15 * time.Second
)

// Operation names used in traces.
const (
	OpGetListing          = "get_listing"
	OpGetWatchlist        = "get_watchlist"
	OpAddToWatchlist      = "add_to_watchlist"
	OpRemoveFromWatchlist = "remove_from_watchlist"
)

// Config assembles a Client. BaseURL and Credentials are required; the rest
// default sensibly.
type Config struct {
	BaseURL     string
	Credentials oauth.Credentials
	// Format suffixes every resource path; defaults to FormatJSON.
	Format string
	// HTTPClient defaults to a resty transport with a 15s timeout. Callers
	// needing bounded latency inject their own.
	HTTPClient httpclient.Client
	// Observer receives a trace per request; nil means silent.
	Observer Observer
}

// Client issues authenticated calls against one base URL. Stateless between
// calls; safe for concurrent use.
type Client struct {
	baseURL  string
	format   string
	http     httpclient.Client
	signer   *oauth.HeaderSigner
	observer Observer
}

// Result is the verbatim outcome of one call. Body is untouched; callers
// decode and assert on it themselves.
type Result struct {
	StatusCode int
	Status     string
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Result) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// New builds a Client from config.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	if err := cfg.Credentials.Validate(); err != nil {
		return nil, err
	}

	format := strings.TrimSpace(cfg.Format)
	if format == "" {
		format = FormatJSON
	}

	client := cfg.HTTPClient
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}

	obs := cfg.Observer
	if obs == nil {
		obs = noopObserver{}
	}

	return &Client{
		baseURL:  strings.TrimSuffix(base, "/"),
		format:   format,
		http:     client,
		signer:   oauth.NewHeaderSigner(cfg.Credentials),
		observer: obs,
	}, nil
}

// GetListing retrieves a single listing by id.
func (c *Client) GetListing(ctx context.Context, listingID int64) (*Result, error) {
	return c.call(ctx, OpGetListing, http.MethodGet, listingPath(listingID, c.format))
}

// GetWatchlist retrieves the authenticated member's watchlist. A blank filter
// fetches the unfiltered list; any other value is passed through verbatim and
// validated only by the remote service.
func (c *Client) GetWatchlist(ctx context.Context, filter string) (*Result, error) {
	return c.call(ctx, OpGetWatchlist, http.MethodGet, watchlistPath(filter, c.format))
}

// AddToWatchlist adds a listing to the watchlist.
func (c *Client) AddToWatchlist(ctx context.Context, listingID int64) (*Result, error) {
	return c.call(ctx, OpAddToWatchlist, http.MethodPost, watchlistEntryPath(listingID, c.format))
}

// RemoveFromWatchlist removes a listing from the watchlist.
func (c *Client) RemoveFromWatchlist(ctx context.Context, listingID int64) (*Result, error) {
	return c.call(ctx, OpRemoveFromWatchlist, http.MethodDelete, watchlistEntryPath(listingID, c.format))
}

// call signs, dispatches, traces, and returns the raw result. Transport
// failures come back unclassified; the trace still fires with the error
// detail attached.
func (c *Client) call(ctx context.Context, operation, method, path string) (*Result, error) {
	auth, err := c.signer.AuthorizationHeader()
	if err != nil {
		return nil, fmt.Errorf("%s: build authorization header: %w", operation, err)
	}

	url := c.baseURL + "/" + path
	tr := Trace{
		Operation:     operation,
		Method:        method,
		URL:           url,
		Authorization: redactAuthorization(auth),
	}

	resp, err := c.http.Do(ctx, method, url, map[string]string{"Authorization": auth})
	tr.ObservedAt = time.Now().UTC()
	if err != nil {
		tr.Error = err.Error()
		c.observer.Observe(ctx, tr)
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	tr.StatusCode = resp.StatusCode()
	tr.Status = resp.Status()
	tr.Body = resp.Body()
	c.observer.Observe(ctx, tr)

	return &Result{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	}, nil
}

func listingPath(listingID int64, format string) string {
	return fmt.Sprintf("listings/%d.%s", listingID, format)
}

func watchlistPath(filter, format string) string {
	if strings.TrimSpace(filter) == "" {
		return "mytrademe/watchList." + format
	}
	return "mytrademe/watchList/" + filter + "." + format
}

func watchlistEntryPath(listingID int64, format string) string {
	return fmt.Sprintf("mytrademe/watchList/%d.%s", listingID, format)
}
