package domain

import (
	"encoding/json"
	"fmt"
)

// Domain contains the payload models callers decode from API responses. The
// API client itself never parses bodies; these helpers belong to its callers.

// Watchlist filter values accepted by the remote service. The client passes
// filters through verbatim; these constants exist for caller convenience and
// the service rejects anything it does not recognize.
const (
	FilterAll           = "All"
	FilterCurrent       = "Current"
	FilterWon           = "Won"
	FilterLost          = "Lost"
	FilterDeleted       = "Deleted"
	FilterClosingToday  = "ClosingToday"
	FilterLeadingBids   = "LeadingBids"
	FilterReserveMet    = "ReserveMet"
	FilterReserveNotMet = "ReserveNotMet"
	FilterOpenHomes     = "OpenHomes"
)

// Listing is the subset of a listing payload the harness inspects.
type Listing struct {
	ListingID int64  `json:"ListingId"`
	Title     string `json:"Title"`
}

// WatchlistEntry is a single watched listing.
type WatchlistEntry struct {
	ListingID int64  `json:"ListingId"`
	Title     string `json:"Title"`
}

// Watchlist is the watchlist payload shape.
type Watchlist struct {
	TotalCount int              `json:"TotalCount"`
	List       []WatchlistEntry `json:"List"`
}

// Contains reports whether the watchlist holds an entry for the listing id.
func (w Watchlist) Contains(listingID int64) bool {
	for _, e := range w.List {
		if e.ListingID == listingID {
			return true
		}
	}
	return false
}

// ParseListing decodes a listing response body.
func ParseListing(body []byte) (Listing, error) {
	var l Listing
	if err := json.Unmarshal(body, &l); err != nil {
		return Listing{}, fmt.Errorf("decode listing payload: %w", err)
	}
	return l, nil
}

// ParseWatchlist decodes a watchlist response body.
func ParseWatchlist(body []byte) (Watchlist, error) {
	var w Watchlist
	if err := json.Unmarshal(body, &w); err != nil {
		return Watchlist{}, fmt.Errorf("decode watchlist payload: %w", err)
	}
	return w, nil
}
