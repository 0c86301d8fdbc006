package interfaces

import (
	"context"

	"github.com/valpere/nebo/pkg/weather"
)

//go:generate mockgen -source=weather_client.go -destination=../mocks/weather_client_mock.go -package=mocks

// WeatherClientInterface defines the interface for weather API client
type WeatherClientInterface interface {
	GetForecast(ctx context.Context, city string) (*weather.Report, error)
	SearchLocations(ctx context.Context, query string) ([]weather.Location, error)
}
