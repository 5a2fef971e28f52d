package forecastcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	forecasts := weather.ForecastMap{
		"2026-09-04": {Date: "2026-09-04", TempMaxF: 72, IsSuitableOutdoor: true},
	}

	_, ok, err := store.Get(ctx, "seattle|us|2026-09-04|2026-09-06")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "seattle|us|2026-09-04|2026-09-06", forecasts, 0))

	got, ok, err := store.Get(ctx, "seattle|us|2026-09-04|2026-09-06")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, forecasts, got)
}

func TestMemoryStoreTTLExpires(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", weather.ForecastMap{}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreEmptyKeyIsNoop(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "", weather.ForecastMap{"x": {}}, 0))
	_, ok, err := store.Get(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)
}
