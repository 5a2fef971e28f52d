// Package events normalizes the external events catalog into typed entities.
package events

import (
	"strings"
	"time"

	"github.com/ritwiksharan/event-recommendor/pkg/util"
)

// MaxCatalogRecords caps how many parsed events a single collection may
// produce, protecting memory and downstream token budgets.
const MaxCatalogRecords = 1000

// Event is a normalized catalog record. Created once by the collector and
// never mutated afterward.
type Event struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	VenueName    string  `json:"venueName"`
	VenueAddress string  `json:"venueAddress,omitempty"`
	VenueCity    string  `json:"venueCity,omitempty"`
	VenueState   string  `json:"venueState,omitempty"`
	VenueLat     float64 `json:"venueLat,omitempty"`
	VenueLon     float64 `json:"venueLon,omitempty"`
	PriceMin     float64 `json:"priceMin"`
	PriceMax     float64 `json:"priceMax"`
	Category     string  `json:"category,omitempty"`
	Genre        string  `json:"genre,omitempty"`
	URL          string  `json:"url,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	IsWeekend    bool    `json:"isWeekend"`
	IsOutdoor    bool    `json:"isOutdoor"`
}

// CollectionResult is the collector's only output shape. Upstream failures
// are folded into Err; they never surface as a hard error.
type CollectionResult struct {
	Events     []Event `json:"events"`
	TotalFound int     `json:"totalFound"`
	Err        string  `json:"error,omitempty"`
}

// outdoorKeywords flags venues that are open to the weather. Matching is a
// case-insensitive substring check on the venue name.
var outdoorKeywords = []string{"stadium", "park", "amphitheater", "field", "grounds", "pavilion"}

// IsWeekendDate reports whether a civil date falls on Friday, Saturday, or
// Sunday. Unparseable dates are treated as weekdays.
func IsWeekendDate(dateKey string) bool {
	t, err := util.ParseDateKey(dateKey)
	if err != nil {
		return false
	}
	switch t.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return true
	}
	return false
}

// IsOutdoorVenue reports whether a venue name matches the outdoor keyword set.
func IsOutdoorVenue(venueName string) bool {
	name := strings.ToLower(venueName)
	for _, kw := range outdoorKeywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
