// Package search defines the immutable request both collectors and the
// scoring pipeline consume.
package search

import (
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/ritwiksharan/event-recommendor/pkg/errors"
	"github.com/ritwiksharan/event-recommendor/pkg/util"
)

// Date is a civil date serialized as "2006-01-02". Event dates and forecast
// map keys use the same representation, so there is no timezone drift
// between collectors.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to its civil day.
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Key renders the date as the shared forecast-map key.
func (d Date) Key() string {
	return util.DateKey(d.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Key())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := util.ParseDateKey(raw)
	if err != nil {
		return err
	}
	*d = Date{Time: parsed}
	return nil
}

// Request captures what the user is looking for. It is owned by the caller
// and passed by value into both collectors; nothing mutates it downstream.
type Request struct {
	City            string   `json:"city"`
	StateCode       string   `json:"stateCode,omitempty"`
	CountryCode     string   `json:"countryCode,omitempty"`
	StartDate       Date     `json:"startDate"`
	EndDate         Date     `json:"endDate"`
	Intent          string   `json:"intent"`
	VenuePreference string   `json:"venuePreference,omitempty"`
	BudgetMax       *float64 `json:"budgetMax,omitempty"`
	Categories      []string `json:"categories,omitempty"`
}

// Normalize fills defaults without touching caller-visible semantics.
func (r Request) Normalize() Request {
	r.City = strings.TrimSpace(r.City)
	r.StateCode = strings.ToUpper(strings.TrimSpace(r.StateCode))
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	if r.CountryCode == "" {
		r.CountryCode = "US"
	}
	r.Intent = strings.TrimSpace(r.Intent)
	r.VenuePreference = strings.TrimSpace(r.VenuePreference)
	return r
}

// Validate rejects malformed requests before any upstream call is made.
func (r Request) Validate() error {
	if strings.TrimSpace(r.City) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "city cannot be empty", nil)
	}
	if strings.TrimSpace(r.Intent) == "" {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "intent description cannot be empty", nil)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "start and end dates are required", nil)
	}
	if r.StartDate.After(r.EndDate.Time) {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "start date must not be after end date", nil)
	}
	if r.BudgetMax != nil && *r.BudgetMax < 0 {
		return apperrors.Wrap(apperrors.CodeInvalidRequest, "budget cannot be negative", nil)
	}
	return nil
}
