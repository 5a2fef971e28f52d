//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/ritwiksharan/event-recommendor/internal/bootstrap"
	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
	"github.com/ritwiksharan/event-recommendor/internal/domain/events"
	"github.com/ritwiksharan/event-recommendor/internal/domain/recommend"
	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
	"github.com/ritwiksharan/event-recommendor/internal/infra/config"
	"github.com/ritwiksharan/event-recommendor/internal/infra/events/ticketmaster"
	"github.com/ritwiksharan/event-recommendor/internal/infra/llm/claude"
	"github.com/ritwiksharan/event-recommendor/internal/infra/weather/openmeteo"
	httpiface "github.com/ritwiksharan/event-recommendor/internal/interface/http"
	"github.com/ritwiksharan/event-recommendor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClaudeClient,
		provideCatalogClient,
		provideForecastClient,
		provideForecastCache,
		provideSessionStore,
		provideWeatherConfig,
		provideRecommendConfig,
		provideChatConfig,
		events.NewService,
		weather.NewService,
		recommend.NewService,
		chat.NewService,
		wire.Bind(new(events.CatalogClient), new(*ticketmaster.Client)),
		wire.Bind(new(weather.ForecastClient), new(*openmeteo.Client)),
		wire.Bind(new(recommend.EventCollector), new(events.Service)),
		wire.Bind(new(recommend.ForecastCollector), new(weather.Service)),
		wire.Bind(new(recommend.ChatClient), new(*claude.Client)),
		wire.Bind(new(chat.ChatClient), new(*claude.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
