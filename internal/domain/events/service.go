package events

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
)

// Service collects and normalizes catalog events for a search request.
type Service interface {
	Collect(ctx context.Context, req search.Request) CollectionResult
}

// Query is the catalog-native filter set derived from a search request.
type Query struct {
	City        string
	StateCode   string
	CountryCode string
	StartDate   time.Time
	EndDate     time.Time
	BudgetMax   *float64
	Segments    []string
}

// CatalogClient pages through the upstream catalog and returns parsed events.
type CatalogClient interface {
	Search(ctx context.Context, q Query) ([]Event, error)
}

type service struct {
	client CatalogClient
	logger *slog.Logger
}

// NewService wires up the events collector domain.
func NewService(client CatalogClient, logger *slog.Logger) Service {
	return &service{client: client, logger: logger.With("component", "events.service")}
}

func (s *service) Collect(ctx context.Context, req search.Request) CollectionResult {
	q := buildQuery(req)

	evs, err := s.client.Search(ctx, q)
	if err != nil {
		s.logger.Warn("catalog search failed", "city", req.City, "error", err)
		return CollectionResult{Events: []Event{}, Err: err.Error()}
	}

	// The catalog is asked for date-ascending order, but a stable re-sort
	// guarantees the invariant regardless of upstream behavior. Ties keep
	// catalog order.
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Date < evs[j].Date })

	s.logger.Info("catalog search complete", "city", req.City, "events", len(evs))
	return CollectionResult{Events: evs, TotalFound: len(evs)}
}

func buildQuery(req search.Request) Query {
	return Query{
		City:        req.City,
		StateCode:   req.StateCode,
		CountryCode: req.CountryCode,
		StartDate:   req.StartDate.Time,
		EndDate:     req.EndDate.Time,
		BudgetMax:   req.BudgetMax,
		Segments:    MapCategories(req.Categories),
	}
}

// segmentByCategory translates user-facing categories into catalog segment
// filters. Categories without a mapping are ignored.
var segmentByCategory = map[string]string{
	"concerts & live music": "Music",
	"hip-hop & r&b":         "Music",
	"rock & alternative":    "Music",
	"jazz & blues":          "Music",
	"dance & edm":           "Music",
	"sports":                "Sports",
	"theater & broadway":    "Arts & Theatre",
	"comedy":                "Arts & Theatre",
	"arts & exhibitions":    "Arts & Theatre",
	"family & kids":         "Miscellaneous",
	"festivals & fairs":     "Miscellaneous",
	"food & drink":          "Miscellaneous",
	"cultural & community":  "Miscellaneous",
	"outdoor & adventure":   "Miscellaneous",
}

// MapCategories resolves category filters to distinct catalog segments,
// preserving first-seen order.
func MapCategories(categories []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range categories {
		segment, ok := segmentByCategory[strings.ToLower(strings.TrimSpace(c))]
		if !ok {
			continue
		}
		if _, dup := seen[segment]; dup {
			continue
		}
		seen[segment] = struct{}{}
		out = append(out, segment)
	}
	return out
}
