package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/valpere/nebo/internal/interfaces"
	"github.com/valpere/nebo/pkg/metrics"
	"github.com/valpere/nebo/pkg/weather"
)

const (
	apiForecast = "forecast"
	apiSearch   = "search"
)

// WeatherService implements interfaces.WeatherSource over the WeatherAPI.com client.
type WeatherService struct {
	client  interfaces.WeatherClientInterface
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewWeatherService(client interfaces.WeatherClientInterface, logger *zerolog.Logger, metricsCollector *metrics.Metrics) *WeatherService {
	return &WeatherService{
		client:  client,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Forecast returns nil on any transport, status or decode failure. No retries.
func (s *WeatherService) Forecast(ctx context.Context, city string) *weather.Report {
	requestID := uuid.NewString()
	done := s.track(apiForecast)

	report, err := s.client.GetForecast(ctx, city)
	done(err)

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Str("city", city).
			Msg("Failed to fetch forecast")
		return nil
	}

	s.logger.Debug().
		Str("request_id", requestID).
		Str("city", city).
		Str("location", report.Location.Name).
		Int("days", len(report.Forecast.ForecastDay)).
		Msg("Fetched forecast")

	return report
}

// SearchLocations reports false on failure so callers can leave their candidates untouched.
func (s *WeatherService) SearchLocations(ctx context.Context, query string) ([]weather.Location, bool) {
	requestID := uuid.NewString()
	done := s.track(apiSearch)

	locations, err := s.client.SearchLocations(ctx, query)
	done(err)

	if err != nil {
		s.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Str("query", query).
			Msg("Failed to search locations")
		return nil, false
	}

	s.logger.Debug().
		Str("request_id", requestID).
		Str("query", query).
		Int("results", len(locations)).
		Msg("Searched locations")

	return locations, true
}

func (s *WeatherService) track(api string) func(err error) {
	if s.metrics == nil {
		return func(error) {}
	}

	start := time.Now()
	s.metrics.AddGauge("weather_requests_in_flight", 1, api)

	return func(err error) {
		s.metrics.AddGauge("weather_requests_in_flight", -1, api)
		s.metrics.ObserveHistogram("weather_api_duration_seconds", time.Since(start).Seconds(), api)

		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.IncrementCounter("weather_requests_total", api, status)
	}
}
