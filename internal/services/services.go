// Package services provides the fail-soft boundary between the search
// controller and its collaborators. Errors from the weather API and the
// preference backends stop here: they are logged and counted, and the
// caller only ever sees empty results.
package services

import (
	"github.com/rs/zerolog"

	"github.com/valpere/nebo/internal/interfaces"
	"github.com/valpere/nebo/internal/storage"
	"github.com/valpere/nebo/pkg/metrics"
)

// Services is the container handed to the controller and the HTTP surface.
//
// Usage:
//
//	svcs := services.New(client, store, logger, metrics)
//	report := svcs.Weather.Forecast(ctx, "Paris, France")
//	svcs.Preferences.Store(ctx, "city", "Paris, France")
type Services struct {
	Weather     *WeatherService    // Forecast and location search
	Preferences *PreferenceService // Last selected city
}

// New wires the services over a weather client and a preference backend.
func New(client interfaces.WeatherClientInterface, store storage.Store, logger *zerolog.Logger, metricsCollector *metrics.Metrics) *Services {
	return &Services{
		Weather:     NewWeatherService(client, logger, metricsCollector),
		Preferences: NewPreferenceService(store, logger, metricsCollector),
	}
}
