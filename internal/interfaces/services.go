package interfaces

import (
	"context"

	"github.com/valpere/nebo/pkg/weather"
)

//go:generate mockgen -source=services.go -destination=../mocks/services_mock.go -package=mocks

// WeatherSource is the fail-soft weather boundary consumed by the search controller.
// Forecast returns nil when no data is available; SearchLocations reports false on failure.
type WeatherSource interface {
	Forecast(ctx context.Context, city string) *weather.Report
	SearchLocations(ctx context.Context, query string) ([]weather.Location, bool)
}

// PreferenceSource persists single string preferences. Failures are logged, never returned.
type PreferenceSource interface {
	Store(ctx context.Context, key, value string)
	Retrieve(ctx context.Context, key string) string
}
