package forecastcache

import (
	"context"
	"sync"
	"time"

	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
)

type cachedForecast struct {
	payload   weather.ForecastMap
	expiresAt time.Time
}

// MemoryStore is an in-memory forecast cache for tests/dev.
type MemoryStore struct {
	mu        sync.RWMutex
	forecasts map[string]cachedForecast
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forecasts: make(map[string]cachedForecast),
	}
}

// Get implements weather.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (weather.ForecastMap, bool, error) {
	if key == "" {
		return nil, false, nil
	}
	s.mu.RLock()
	entry, ok := s.forecasts[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.forecasts, key)
		s.mu.Unlock()
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set caches the forecast with optional TTL.
func (s *MemoryStore) Set(_ context.Context, key string, forecasts weather.ForecastMap, ttl time.Duration) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.forecasts[key] = cachedForecast{
		payload:   forecasts,
		expiresAt: exp,
	}
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ weather.Cache = (*MemoryStore)(nil)
