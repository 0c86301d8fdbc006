package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/valpere/nebo/internal/api"
	"github.com/valpere/nebo/internal/config"
	"github.com/valpere/nebo/internal/console"
	"github.com/valpere/nebo/internal/controller"
	"github.com/valpere/nebo/internal/services"
	"github.com/valpere/nebo/internal/storage"
	"github.com/valpere/nebo/internal/version"
	"github.com/valpere/nebo/pkg/metrics"
	"github.com/valpere/nebo/pkg/weather"
)

// IO carries the terminal streams. Logs go to Log so they never interleave
// with the rendered view on Out.
type IO struct {
	In  io.Reader
	Out io.Writer
	Log io.Writer
}

type App struct {
	config     *config.Config
	logger     zerolog.Logger
	metrics    *metrics.Metrics
	store      storage.Store
	services   *services.Services
	controller *controller.Controller
	session    *console.Session
	server     *api.Server
}

// NewLogger builds the application logger from the logging config
func NewLogger(cfg *config.LoggingConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	if cfg.Format == "json" {
		writer = out
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("component", "nebo").
		Logger()
}

func New(ctx context.Context, cfg *config.Config, streams IO) (*App, error) {
	// Initialize logger
	logger := NewLogger(&cfg.Logging, streams.Log)

	// Initialize metrics
	metricsCollector := metrics.New()

	// Initialize preference store
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	client := weather.NewClient(cfg.Weather.APIKey, weatherOptions(&cfg.Weather)...)

	// Initialize services with metrics
	svc := services.New(client, store, &logger, metricsCollector)

	ctrl := controller.New(svc.Weather, svc.Preferences, &logger, controller.Options{
		DefaultCity:        cfg.App.DefaultCity,
		PreferenceKey:      cfg.App.PreferenceKey,
		Debounce:           cfg.App.Debounce,
		MinQueryLength:     cfg.App.MinQueryLength,
		DropStaleResponses: cfg.App.DropStaleResponses,
		Metrics:            metricsCollector,
	})

	a := &App{
		config:     cfg,
		logger:     logger,
		metrics:    metricsCollector,
		store:      store,
		services:   svc,
		controller: ctrl,
		session:    console.NewSession(ctrl, streams.In, streams.Out, &logger),
	}

	if cfg.Server.Enabled {
		a.server = api.NewServer(&cfg.Server, ctrl, metricsCollector, logger)
	}

	return a, nil
}

func weatherOptions(cfg *config.WeatherConfig) []weather.Option {
	opts := []weather.Option{
		weather.WithForecastDays(cfg.ForecastDays),
		weather.WithUserAgent(version.GetInfo().UserAgent()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, weather.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		opts = append(opts, weather.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)))
	}
	return opts
}

// Start runs until the console session ends, the HTTP server fails or ctx is done.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info().Str("version", version.GetInfo().Short()).Msg("Starting Nebo...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	controllerDone := make(chan error, 1)
	go func() { controllerDone <- a.controller.Run(ctx) }()

	serverErr := make(chan error, 1)
	if a.server != nil {
		go func() {
			if err := a.server.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("HTTP server failed: %w", err)
			}
		}()
	}

	sessionDone := make(chan error, 1)
	go func() { sessionDone <- a.session.Run(ctx) }()

	var err error
	select {
	case err = <-sessionDone:
	case err = <-serverErr:
	case <-ctx.Done():
	}

	cancel()
	if ctrlErr := <-controllerDone; ctrlErr != nil && err == nil {
		err = ctrlErr
	}

	return err
}

func (a *App) Stop() error {
	a.logger.Info().Msg("Stopping Nebo...")

	// Shutdown HTTP server
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Error().Err(err).Msg("HTTP server shutdown error")
		}
	}

	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close preference store: %w", err)
	}

	a.logger.Info().Msg("Nebo stopped")
	return nil
}
