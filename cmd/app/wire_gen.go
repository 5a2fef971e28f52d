// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package main

import (
	"github.com/ritwiksharan/event-recommendor/internal/bootstrap"
	"github.com/ritwiksharan/event-recommendor/internal/domain/chat"
	"github.com/ritwiksharan/event-recommendor/internal/domain/events"
	"github.com/ritwiksharan/event-recommendor/internal/domain/recommend"
	"github.com/ritwiksharan/event-recommendor/internal/domain/weather"
	"github.com/ritwiksharan/event-recommendor/internal/infra/config"
	"github.com/ritwiksharan/event-recommendor/internal/interface/http"
	"github.com/ritwiksharan/event-recommendor/pkg/logger"
)

// Injectors from wire.go:

func initializeApp() (*bootstrap.App, error) {
	configConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	slogLogger := logger.New()
	recommendConfig := provideRecommendConfig(configConfig)
	client, err := provideCatalogClient(configConfig)
	if err != nil {
		return nil, err
	}
	service := events.NewService(client, slogLogger)
	weatherConfig := provideWeatherConfig(configConfig)
	openmeteoClient := provideForecastClient(configConfig)
	cache := provideForecastCache(configConfig, slogLogger)
	weatherService := weather.NewService(weatherConfig, openmeteoClient, cache, slogLogger)
	claudeClient, err := provideClaudeClient(configConfig)
	if err != nil {
		return nil, err
	}
	recommendService := recommend.NewService(recommendConfig, service, weatherService, claudeClient, slogLogger)
	chatConfig := provideChatConfig(configConfig)
	chatService := chat.NewService(chatConfig, claudeClient, slogLogger)
	sessionStore := provideSessionStore(configConfig, slogLogger)
	handler := http.NewHandler(recommendService, chatService, sessionStore, slogLogger)
	server := http.NewRouter(configConfig, handler, slogLogger)
	app := bootstrap.NewApp(configConfig, slogLogger, server)
	return app, nil
}
