// Package storage provides the key-value backends used to persist user
// preferences such as the last selected city.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/valpere/nebo/internal/config"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value store. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open builds the Store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return NewFileStore(cfg.Storage.Path)
	case config.DriverRedis:
		rdb, err := ConnectRedis(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb), nil
	case config.DriverPostgres:
		db, err := ConnectPostgres(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
