package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ritwiksharan/event-recommendor/internal/domain/search"
)

// Service collects a date-keyed forecast map for a search request.
type Service interface {
	Collect(ctx context.Context, req search.Request) Result
}

// ForecastClient geocodes a place and fetches its daily forecasts.
type ForecastClient interface {
	Forecast(ctx context.Context, city, countryCode string, start, end time.Time) (ForecastMap, error)
}

// Cache stores forecast maps between identical searches. A cache failure is
// never a collection failure.
type Cache interface {
	Get(ctx context.Context, key string) (ForecastMap, bool, error)
	Set(ctx context.Context, key string, forecasts ForecastMap, ttl time.Duration) error
}

// Config wires runtime settings for the forecast collector.
type Config struct {
	CacheTTL time.Duration
}

type service struct {
	cfg    Config
	client ForecastClient
	cache  Cache
	logger *slog.Logger
}

// NewService wires up the forecast collector domain.
func NewService(cfg Config, client ForecastClient, cache Cache, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		cache:  cache,
		logger: logger.With("component", "weather.service"),
	}
}

func (s *service) Collect(ctx context.Context, req search.Request) Result {
	key := cacheKey(req)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("forecast cache read failed", "key", key, "error", err)
		} else if ok {
			s.logger.Debug("forecast cache hit", "key", key)
			return Result{City: req.City, Forecasts: cached}
		}
	}

	forecasts, err := s.client.Forecast(ctx, req.City, req.CountryCode, req.StartDate.Time, req.EndDate.Time)
	if err != nil {
		s.logger.Warn("forecast fetch failed", "city", req.City, "error", err)
		return Result{City: req.City, Forecasts: ForecastMap{}, Err: err.Error()}
	}

	if s.cache != nil && len(forecasts) > 0 {
		if err := s.cache.Set(ctx, key, forecasts, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("forecast cache write failed", "key", key, "error", err)
		}
	}

	s.logger.Info("forecast fetch complete", "city", req.City, "days", len(forecasts))
	return Result{City: req.City, Forecasts: forecasts}
}

func cacheKey(req search.Request) string {
	return strings.Join([]string{
		strings.ToLower(req.City),
		strings.ToLower(req.CountryCode),
		req.StartDate.Key(),
		req.EndDate.Key(),
	}, "|")
}
