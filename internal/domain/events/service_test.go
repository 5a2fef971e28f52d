package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
)

type stubCatalogClient struct {
	events    []Event
	err       error
	lastQuery Query
}

func (s *stubCatalogClient) Search(_ context.Context, q Query) ([]Event, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

func testRequest() search.Request {
	return search.Request{
		City:        "Austin",
		CountryCode: "US",
		StartDate:   search.NewDate(time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)),
		EndDate:     search.NewDate(time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)),
		Intent:      "live music",
		Categories:  []string{"Jazz & Blues", "sports", "rock & alternative"},
	}
}

func TestCollectSortsByDate(t *testing.T) {
	stub := &stubCatalogClient{
		events: []Event{
			{ID: "c", Name: "Later", Date: "2026-09-06"},
			{ID: "a", Name: "Sooner", Date: "2026-09-04"},
			{ID: "b", Name: "Middle", Date: "2026-09-05"},
		},
	}
	svc := NewService(stub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result := svc.Collect(context.Background(), testRequest())
	require.Empty(t, result.Err)
	require.Equal(t, 3, result.TotalFound)
	require.Equal(t, []string{"a", "b", "c"}, []string{result.Events[0].ID, result.Events[1].ID, result.Events[2].ID})
}

func TestCollectKeepsCatalogOrderOnDateTies(t *testing.T) {
	stub := &stubCatalogClient{
		events: []Event{
			{ID: "first", Date: "2026-09-05"},
			{ID: "second", Date: "2026-09-05"},
			{ID: "earlier", Date: "2026-09-04"},
		},
	}
	svc := NewService(stub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result := svc.Collect(context.Background(), testRequest())
	require.Equal(t, "earlier", result.Events[0].ID)
	require.Equal(t, "first", result.Events[1].ID)
	require.Equal(t, "second", result.Events[2].ID)
}

func TestCollectUpstreamFailureIsDegraded(t *testing.T) {
	stub := &stubCatalogClient{err: errors.New("catalog unavailable")}
	svc := NewService(stub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	result := svc.Collect(context.Background(), testRequest())
	require.Empty(t, result.Events)
	require.Zero(t, result.TotalFound)
	require.Contains(t, result.Err, "catalog unavailable")
}

func TestCollectBuildsQueryFromRequest(t *testing.T) {
	stub := &stubCatalogClient{}
	svc := NewService(stub, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := testRequest()
	budget := 80.0
	req.BudgetMax = &budget
	svc.Collect(context.Background(), req)

	require.Equal(t, "Austin", stub.lastQuery.City)
	require.Equal(t, "US", stub.lastQuery.CountryCode)
	require.Equal(t, req.StartDate.Time, stub.lastQuery.StartDate)
	require.Equal(t, req.EndDate.Time, stub.lastQuery.EndDate)
	require.Equal(t, &budget, stub.lastQuery.BudgetMax)
	require.Equal(t, []string{"Music", "Sports"}, stub.lastQuery.Segments)
}

func TestMapCategories(t *testing.T) {
	require.Equal(t, []string{"Music", "Sports"}, MapCategories([]string{"Jazz & Blues", "sports", " dance & edm "}))
	require.Nil(t, MapCategories([]string{"underwater basket weaving"}))
	require.Nil(t, MapCategories(nil))
}
