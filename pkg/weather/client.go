package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the WeatherAPI.com v1 endpoint
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// DefaultForecastDays is the number of forecast days requested by default
const DefaultForecastDays = 7

// Client represents a WeatherAPI.com client
type Client struct {
	apiKey       string
	baseURL      string
	forecastDays int
	httpClient   *http.Client
	limiter      *rate.Limiter
	userAgent    string
}

// Report is a forecast response: current conditions, location and daily forecast.
type Report struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
	Forecast Forecast `json:"forecast"`
}

// Location is both the location block of a forecast and a search candidate.
type Location struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	URL       string  `json:"url,omitempty"`
	TzID      string  `json:"tz_id,omitempty"`
	Localtime string  `json:"localtime,omitempty"`
}

// Current represents current weather conditions
type Current struct {
	LastUpdated string    `json:"last_updated"`
	TempC       float64   `json:"temp_c"`
	TempF       float64   `json:"temp_f"`
	IsDay       int       `json:"is_day"`
	Condition   Condition `json:"condition"`
	WindKph     float64   `json:"wind_kph"`
	WindMph     float64   `json:"wind_mph"`
	Humidity    int       `json:"humidity"`
	FeelsLikeC  float64   `json:"feelslike_c"`
	FeelsLikeF  float64   `json:"feelslike_f"`
}

// Condition holds the condition text and icon
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// Forecast holds the ordered daily forecast
type Forecast struct {
	ForecastDay []ForecastDay `json:"forecastday"`
}

// ForecastDay represents a single day forecast
type ForecastDay struct {
	Date      string `json:"date"`
	DateEpoch int64  `json:"date_epoch"`
	Day       Day    `json:"day"`
	Astro     Astro  `json:"astro"`
}

// Day holds the daily aggregates
type Day struct {
	MaxTempC    float64   `json:"maxtemp_c"`
	MinTempC    float64   `json:"mintemp_c"`
	AvgTempC    float64   `json:"avgtemp_c"`
	AvgTempF    float64   `json:"avgtemp_f"`
	AvgHumidity float64   `json:"avghumidity"`
	Condition   Condition `json:"condition"`
}

// Astro holds sun and moon times in local 12-hour format
type Astro struct {
	Sunrise  string `json:"sunrise"`
	Sunset   string `json:"sunset"`
	Moonrise string `json:"moonrise"`
	Moonset  string `json:"moonset"`
}

// Label returns the canonical "<name>, <country>" string used to request a forecast.
func (l Location) Label() string {
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

// FahrenheitToCelsius converts and rounds to the nearest whole degree, halves toward +Inf.
func FahrenheitToCelsius(f float64) int {
	return int(math.Floor((f-32)*5/9 + 0.5))
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLimiter makes every request wait on the limiter first
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// WithUserAgent sets the User-Agent header on every request
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithForecastDays overrides the number of forecast days
func WithForecastDays(days int) Option {
	return func(c *Client) {
		if days > 0 {
			c.forecastDays = days
		}
	}
}

// NewClient creates a new weather API client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		forecastDays: DefaultForecastDays,
		httpClient:   &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetForecast retrieves current conditions and the daily forecast for a city
func (c *Client) GetForecast(ctx context.Context, city string) (*Report, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", city)
	params.Set("days", strconv.Itoa(c.forecastDays))
	params.Set("aqi", "no")
	params.Set("alerts", "no")

	var report Report
	if err := c.get(ctx, "/forecast.json", params, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

// SearchLocations returns location candidates matching the query, in provider order
func (c *Client) SearchLocations(ctx context.Context, query string) ([]Location, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", query)

	locations := make([]Location, 0)
	if err := c.get(ctx, "/search.json", params, &locations); err != nil {
		return nil, err
	}

	return locations, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	requestURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req) // nosec G704
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
