package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
	"github.com/ritwiksharan/event-recommendor/internal/domain/recommend"
	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
	"github.com/ritwiksharan/event-recommendor/internal/infra/config"
	"github.com/ritwiksharan/event-recommendor/internal/infra/events/ticketmaster"
	"github.com/ritwiksharan/event-recommendor/internal/infra/forecastcache"
	"github.com/ritwiksharan/event-recommendor/internal/infra/llm/claude"
	"github.com/ritwiksharan/event-recommendor/internal/infra/sessionrepo"
	"github.com/ritwiksharan/event-recommendor/internal/infra/weather/openmeteo"
)

func provideClaudeClient(cfg *config.Config) (*claude.Client, error) {
	return claude.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RetryBackoff)
}

func provideCatalogClient(cfg *config.Config) (*ticketmaster.Client, error) {
	return ticketmaster.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL)
}

func provideForecastClient(cfg *config.Config) *openmeteo.Client {
	return openmeteo.NewClient(cfg.Weather.GeocodeBaseURL, cfg.Weather.ForecastBaseURL)
}

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		CacheTTL: cfg.Weather.CacheTTL,
	}
}

func provideRecommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		Model:         cfg.Recommend.Model,
		Temperature:   cfg.Recommend.Temperature,
		MaxTokens:     cfg.Recommend.MaxTokens,
		MaxCandidates: cfg.Recommend.MaxCandidates,
		DefaultTopN:   cfg.Recommend.DefaultTopN,
	}
}

func provideChatConfig(cfg *config.Config) chat.Config {
	return chat.Config{
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
	}
}

func provideForecastCache(cfg *config.Config, logger *slog.Logger) weather.Cache {
	if cfg.Weather.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return forecastcache.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return forecastcache.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		} else {
			logger.Info("forecast valkey cache enabled", "addr", cfg.Weather.Valkey.Addr)
			return forecastcache.NewValkeyStore(client, "forecast")
		}
	}
	return forecastcache.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Weather.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Weather.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Weather.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) chat.SessionStore {
	fallback := sessionrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Sessions.Postgres.DSN)
	if dsn == "" {
		logger.Info("sessions postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Sessions.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Sessions.Postgres.MaxConns
	}
	if cfg.Sessions.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Sessions.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("sessions postgres repository enabled")
	return sessionrepo.NewPostgresRepository(pool)
}
