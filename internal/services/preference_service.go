package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/valpere/nebo/internal/storage"
	"github.com/valpere/nebo/pkg/metrics"
)

// PreferenceService implements interfaces.PreferenceSource over a storage backend.
type PreferenceService struct {
	store   storage.Store
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewPreferenceService(store storage.Store, logger *zerolog.Logger, metricsCollector *metrics.Metrics) *PreferenceService {
	return &PreferenceService{
		store:   store,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Store persists value under key. Errors are logged and dropped.
func (s *PreferenceService) Store(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.count("store", "error")
		s.logger.Error().
			Err(err).
			Str("key", key).
			Msg("Error storing the value")
		return
	}

	s.count("store", "success")
	s.logger.Debug().Str("key", key).Str("value", value).Msg("Stored preference")
}

// Retrieve returns "" when the key is absent or the backend fails.
func (s *PreferenceService) Retrieve(ctx context.Context, key string) string {
	value, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		s.count("retrieve", "miss")
		s.logger.Debug().Str("key", key).Msg("Preference not set")
		return ""
	}
	if err != nil {
		s.count("retrieve", "error")
		s.logger.Error().
			Err(err).
			Str("key", key).
			Msg("Error retrieving the value")
		return ""
	}

	s.count("retrieve", "success")
	return value
}

func (s *PreferenceService) count(op, status string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter("preference_operations_total", op, status)
	}
}
