package scenario

import (
	"context"
	"fmt"

	"github.com/korimako-labs/trademe-probe/internal/domain"
	"github.com/korimako-labs/trademe-probe/internal/logger"
	"github.com/korimako-labs/trademe-probe/pkg/trademe"
)

// API is the client surface the scenarios exercise.
type API interface {
	GetListing(ctx context.Context, listingID int64) (*trademe.Result, error)
	GetWatchlist(ctx context.Context, filter string) (*trademe.Result, error)
	AddToWatchlist(ctx context.Context, listingID int64) (*trademe.Result, error)
	RemoveFromWatchlist(ctx context.Context, listingID int64) (*trademe.Result, error)
}

// Step records the outcome of one scenario check.
type Step struct {
	Name       string `json:"name"`
	StatusCode int    `json:"status_code"`
	OK         bool   `json:"ok"`
	Detail     string `json:"detail,omitempty"`
}

// Report is the outcome of a scenario pass against one listing.
type Report struct {
	ListingID int64  `json:"listing_id"`
	Steps     []Step `json:"steps"`
}

// Passed reports whether every step succeeded.
func (r *Report) Passed() bool {
	if r == nil || len(r.Steps) == 0 {
		return false
	}
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

func (r *Report) add(step Step) {
	r.Steps = append(r.Steps, step)
	if step.OK {
		logger.DebugObj("scenario step passed", "scenario_step", step)
	} else {
		logger.WarnObj("scenario step failed", "scenario_step", step)
	}
}

// Service drives watchlist scenarios against the remote API. Unexpected
// statuses and membership mismatches become failed steps; transport failures
// abort the pass with an error.
type Service struct {
	api API
}

// NewService wires a scenario service over the API client.
func NewService(api API) *Service {
	return &Service{api: api}
}

// VerifyListing checks that the listing endpoint echoes the requested id.
func (s *Service) VerifyListing(ctx context.Context, listingID int64) (*Report, error) {
	if s == nil || s.api == nil {
		return nil, fmt.Errorf("scenario service is not initialized")
	}

	report := &Report{ListingID: listingID}

	res, err := s.api.GetListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing %d: %w", listingID, err)
	}
	if !res.IsSuccess() {
		report.add(Step{Name: "get_listing", StatusCode: res.StatusCode, Detail: string(res.Body)})
		return report, nil
	}

	listing, err := domain.ParseListing(res.Body)
	if err != nil {
		report.add(Step{Name: "get_listing", StatusCode: res.StatusCode, Detail: err.Error()})
		return report, nil
	}
	report.add(Step{
		Name:       "get_listing",
		StatusCode: res.StatusCode,
		OK:         listing.ListingID == listingID,
		Detail:     fmt.Sprintf("ListingId=%d", listing.ListingID),
	})
	return report, nil
}

// RoundTrip runs the full watchlist cycle: add, confirm present, remove,
// confirm absent.
func (s *Service) RoundTrip(ctx context.Context, listingID int64) (*Report, error) {
	if s == nil || s.api == nil {
		return nil, fmt.Errorf("scenario service is not initialized")
	}

	report := &Report{ListingID: listingID}

	res, err := s.api.AddToWatchlist(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("add to watchlist %d: %w", listingID, err)
	}
	report.add(Step{Name: "add_to_watchlist", StatusCode: res.StatusCode, OK: res.IsSuccess()})

	present, status, retrieved, err := s.watchlistContains(ctx, listingID)
	if err != nil {
		return nil, err
	}
	report.add(Step{Name: "watchlist_contains", StatusCode: status, OK: retrieved && present})

	res, err = s.api.RemoveFromWatchlist(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("remove from watchlist %d: %w", listingID, err)
	}
	report.add(Step{Name: "remove_from_watchlist", StatusCode: res.StatusCode, OK: res.IsSuccess()})

	present, status, retrieved, err = s.watchlistContains(ctx, listingID)
	if err != nil {
		return nil, err
	}
	report.add(Step{Name: "watchlist_absent", StatusCode: status, OK: retrieved && !present})

	return report, nil
}

// watchlistContains fetches the unfiltered-by-state "All" view and reports
// membership. retrieved is false when the service answered non-2xx, so a
// failed fetch never masquerades as an empty watchlist.
func (s *Service) watchlistContains(ctx context.Context, listingID int64) (present bool, status int, retrieved bool, err error) {
	res, err := s.api.GetWatchlist(ctx, domain.FilterAll)
	if err != nil {
		return false, 0, false, fmt.Errorf("get watchlist: %w", err)
	}
	if !res.IsSuccess() {
		return false, res.StatusCode, false, nil
	}

	wl, err := domain.ParseWatchlist(res.Body)
	if err != nil {
		return false, res.StatusCode, false, fmt.Errorf("get watchlist: %w", err)
	}
	return wl.Contains(listingID), res.StatusCode, true, nil
}
