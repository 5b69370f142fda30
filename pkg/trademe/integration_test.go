package trademe

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/korimako-labs/trademe-probe/internal/domain"
	"github.com/korimako-labs/trademe-probe/pkg/oauth"
)

// Live sandbox tests. They run only when TRADEME_CONSUMER_KEY (and friends)
// are set; CI without credentials skips them.

func liveClient(t *testing.T, prefix string) *Client {
	t.Helper()
	creds := oauth.Credentials{
		ConsumerKey:    os.Getenv(prefix + "CONSUMER_KEY"),
		ConsumerSecret: os.Getenv(prefix + "CONSUMER_SECRET"),
		AccessToken:    os.Getenv(prefix + "ACCESS_TOKEN"),
		TokenSecret:    os.Getenv(prefix + "TOKEN_SECRET"),
	}
	if creds.Validate() != nil {
		t.Skipf("%s* credentials not set", prefix)
	}

	base := os.Getenv("TRADEME_BASE_URL")
	if base == "" {
		base = "https://api.tmsandbox.co.nz/v1/"
	}

	client, err := New(Config{BaseURL: base, Credentials: creds})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func probeListingID(t *testing.T) int64 {
	t.Helper()
	raw := os.Getenv("TRADEME_PROBE_LISTING_ID")
	if raw == "" {
		return 2149713054
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		t.Fatalf("TRADEME_PROBE_LISTING_ID: %v", err)
	}
	return id
}

func TestLiveWatchlistRoundTrip(t *testing.T) {
	client := liveClient(t, "TRADEME_")
	listingID := probeListingID(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := client.AddToWatchlist(ctx, listingID)
	if err != nil {
		t.Fatalf("AddToWatchlist: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("AddToWatchlist status = %d: %s", res.StatusCode, res.Body)
	}

	res, err = client.GetWatchlist(ctx, domain.FilterAll)
	if err != nil {
		t.Fatalf("GetWatchlist: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("GetWatchlist status = %d: %s", res.StatusCode, res.Body)
	}
	wl, err := domain.ParseWatchlist(res.Body)
	if err != nil {
		t.Fatalf("ParseWatchlist: %v", err)
	}
	if !wl.Contains(listingID) {
		t.Fatalf("watchlist missing %d after add", listingID)
	}

	res, err = client.RemoveFromWatchlist(ctx, listingID)
	if err != nil {
		t.Fatalf("RemoveFromWatchlist: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("RemoveFromWatchlist status = %d: %s", res.StatusCode, res.Body)
	}

	res, err = client.GetWatchlist(ctx, domain.FilterAll)
	if err != nil {
		t.Fatalf("GetWatchlist after remove: %v", err)
	}
	wl, err = domain.ParseWatchlist(res.Body)
	if err != nil {
		t.Fatalf("ParseWatchlist after remove: %v", err)
	}
	if wl.Contains(listingID) {
		t.Fatalf("watchlist still contains %d after remove", listingID)
	}
}

func TestLiveGetListingEchoesID(t *testing.T) {
	client := liveClient(t, "TRADEME_")
	listingID := probeListingID(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := client.GetListing(ctx, listingID)
	if err != nil {
		t.Fatalf("GetListing: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("GetListing status = %d: %s", res.StatusCode, res.Body)
	}
	listing, err := domain.ParseListing(res.Body)
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if listing.ListingID != listingID {
		t.Fatalf("ListingId = %d, want %d", listing.ListingID, listingID)
	}
}

// TestLiveForeignPrincipalSeesNothing verifies watchlist isolation: a second
// credential set must see either an unauthorized status or a list without the
// first principal's entry. Needs TRADEME_ALT_* credentials.
func TestLiveForeignPrincipalSeesNothing(t *testing.T) {
	primary := liveClient(t, "TRADEME_")
	alt := liveClient(t, "TRADEME_ALT_")
	listingID := probeListingID(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res, err := primary.AddToWatchlist(ctx, listingID)
	if err != nil {
		t.Fatalf("primary AddToWatchlist: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("primary AddToWatchlist status = %d: %s", res.StatusCode, res.Body)
	}
	defer primary.RemoveFromWatchlist(ctx, listingID)

	res, err = alt.GetWatchlist(ctx, domain.FilterAll)
	if err != nil {
		t.Fatalf("alt GetWatchlist: %v", err)
	}
	if !res.IsSuccess() {
		// Unauthorized is an acceptable isolation outcome.
		return
	}
	wl, err := domain.ParseWatchlist(res.Body)
	if err != nil {
		t.Fatalf("alt ParseWatchlist: %v", err)
	}
	if wl.Contains(listingID) {
		t.Fatalf("foreign principal can see listing %d on another watchlist", listingID)
	}
}
