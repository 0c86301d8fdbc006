package testutil

import (
	"github.com/valpere/nebo/pkg/weather"
)

// ForecastJSON is a trimmed WeatherAPI.com forecast.json body for Paris
const ForecastJSON = `{
  "location": {"name": "Paris", "region": "Ile-de-France", "country": "France", "lat": 48.87, "lon": 2.33, "tz_id": "Europe/Paris", "localtime": "2026-10-14 9:30"},
  "current": {"last_updated": "2026-10-14 09:15", "temp_c": 12.0, "temp_f": 53.6, "is_day": 1, "condition": {"text": "Partly cloudy", "icon": "//cdn.weatherapi.com/weather/64x64/day/116.png", "code": 1003}, "wind_mph": 8.1, "wind_kph": 13.0, "humidity": 82, "feelslike_c": 10.4, "feelslike_f": 50.7},
  "forecast": {"forecastday": [
    {"date": "2026-10-14", "date_epoch": 1791936000, "day": {"maxtemp_c": 16.1, "mintemp_c": 9.2, "avgtemp_c": 12.5, "avgtemp_f": 54.5, "avghumidity": 79, "condition": {"text": "Patchy rain nearby", "icon": "", "code": 1063}}, "astro": {"sunrise": "08:13 AM", "sunset": "07:05 PM", "moonrise": "04:40 AM", "moonset": "05:31 PM"}},
    {"date": "2026-10-15", "date_epoch": 1792022400, "day": {"maxtemp_c": 17.0, "mintemp_c": 10.1, "avgtemp_c": 13.4, "avgtemp_f": 56.1, "avghumidity": 75, "condition": {"text": "Sunny", "icon": "", "code": 1000}}, "astro": {"sunrise": "08:15 AM", "sunset": "07:03 PM", "moonrise": "05:50 AM", "moonset": "05:55 PM"}},
    {"date": "2026-10-16", "date_epoch": 1792108800, "day": {"maxtemp_c": 15.2, "mintemp_c": 8.4, "avgtemp_c": 11.6, "avgtemp_f": 52.9, "avghumidity": 81, "condition": {"text": "Moderate rain", "icon": "", "code": 1189}}, "astro": {"sunrise": "08:16 AM", "sunset": "07:01 PM", "moonrise": "07:01 AM", "moonset": "06:20 PM"}},
    {"date": "2026-10-17", "date_epoch": 1792195200, "day": {"maxtemp_c": 14.0, "mintemp_c": 7.0, "avgtemp_c": 10.0, "avgtemp_f": 50.0, "avghumidity": 70, "condition": {"text": "Overcast", "icon": "", "code": 1009}}, "astro": {"sunrise": "08:18 AM", "sunset": "06:59 PM", "moonrise": "08:12 AM", "moonset": "06:47 PM"}}
  ]}
}`

// SearchJSON is a WeatherAPI.com search.json body for the query "Lon"
const SearchJSON = `[
  {"id": 2801268, "name": "London", "region": "City of London, Greater London", "country": "United Kingdom", "lat": 51.52, "lon": -0.11, "url": "london-city-of-london-greater-london-united-kingdom"},
  {"id": 315398, "name": "Londrina", "region": "Parana", "country": "Brazil", "lat": -23.3, "lon": -51.15, "url": "londrina-parana-brazil"},
  {"id": 2790322, "name": "London", "region": "Ontario", "country": "Canada", "lat": 42.98, "lon": -81.25, "url": "london-ontario-canada"}
]`

// Report builds a small report for the given location
func Report(name, country string) *weather.Report {
	return &weather.Report{
		Location: weather.Location{Name: name, Country: country},
		Current: weather.Current{
			TempF:     68,
			Condition: weather.Condition{Text: "Sunny"},
			WindKph:   10,
			Humidity:  40,
		},
		Forecast: weather.Forecast{
			ForecastDay: []weather.ForecastDay{
				{Date: "2026-10-14", Astro: weather.Astro{Sunrise: "07:00 AM"}, Day: weather.Day{AvgTempF: 68, Condition: weather.Condition{Text: "Sunny"}}},
			},
		},
	}
}

// Candidates returns search candidates in provider order
func Candidates() []weather.Location {
	return []weather.Location{
		{ID: 2801268, Name: "London", Country: "United Kingdom"},
		{ID: 315398, Name: "Londrina", Country: "Brazil"},
		{ID: 2790322, Name: "London", Country: "Canada"},
	}
}
