package weather

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

type stubForecastClient struct {
	forecasts ForecastMap
	err       error
	calls     int
}

func (s *stubForecastClient) Forecast(_ context.Context, _, _ string, _, _ time.Time) (ForecastMap, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.forecasts, nil
}

type stubCache struct {
	entries map[string]ForecastMap
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]ForecastMap)}
}

func (s *stubCache) Get(_ context.Context, key string) (ForecastMap, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	m, ok := s.entries[key]
	return m, ok, nil
}

func (s *stubCache) Set(_ context.Context, key string, forecasts ForecastMap, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.entries[key] = forecasts
	s.lastTTL = ttl
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func weatherRequest() search.Request {
	return search.Request{
		City:        "Seattle",
		CountryCode: "US",
		StartDate:   search.NewDate(time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)),
		EndDate:     search.NewDate(time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)),
		Intent:      "anything",
	}
}

func TestCollectFetchesAndCaches(t *testing.T) {
	forecasts := ForecastMap{
		"2026-09-04": {Date: "2026-09-04", TempMaxF: 72, Description: "Clear sky", IsSuitableOutdoor: true},
	}
	client := &stubForecastClient{forecasts: forecasts}
	cache := newStubCache()
	svc := NewService(Config{CacheTTL: time.Hour}, client, cache, discardLogger())

	result := svc.Collect(context.Background(), weatherRequest())
	require.Empty(t, result.Err)
	require.Equal(t, "Seattle", result.City)
	require.Equal(t, forecasts, result.Forecasts)
	require.Equal(t, 1, client.calls)
	require.Equal(t, time.Hour, cache.lastTTL)

	// Second identical search is served from cache.
	result = svc.Collect(context.Background(), weatherRequest())
	require.Equal(t, forecasts, result.Forecasts)
	require.Equal(t, 1, client.calls)
}

func TestCollectCacheReadFailureFallsThrough(t *testing.T) {
	client := &stubForecastClient{forecasts: ForecastMap{"2026-09-04": {Date: "2026-09-04"}}}
	cache := newStubCache()
	cache.getErr = errors.New("cache down")
	svc := NewService(Config{}, client, cache, discardLogger())

	result := svc.Collect(context.Background(), weatherRequest())
	require.Empty(t, result.Err)
	require.Len(t, result.Forecasts, 1)
	require.Equal(t, 1, client.calls)
}

func TestCollectUpstreamFailureIsDegraded(t *testing.T) {
	client := &stubForecastClient{err: errors.New("geocode timeout")}
	svc := NewService(Config{}, client, newStubCache(), discardLogger())

	result := svc.Collect(context.Background(), weatherRequest())
	require.Contains(t, result.Err, "geocode timeout")
	require.NotNil(t, result.Forecasts)
	require.Empty(t, result.Forecasts)
}

func TestCollectNilCache(t *testing.T) {
	client := &stubForecastClient{forecasts: ForecastMap{}}
	svc := NewService(Config{}, client, nil, discardLogger())

	result := svc.Collect(context.Background(), weatherRequest())
	require.Empty(t, result.Err)
}

func TestCacheKeyIsCaseInsensitive(t *testing.T) {
	req := weatherRequest()
	lower := cacheKey(req)
	req.City = "SEATTLE"
	require.Equal(t, lower, cacheKey(req))
	require.Equal(t, "seattle|us|2026-09-04|2026-09-06", lower)
}
