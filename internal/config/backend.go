package config

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jwulff/campuscast/internal/storage"
	"github.com/jwulff/campuscast/internal/storage/memory"
	"github.com/jwulff/campuscast/internal/storage/natskv"
	"github.com/jwulff/campuscast/internal/storage/rediskv"
	"github.com/jwulff/campuscast/internal/storage/sqlite"
)

// OpenBackend connects the storage driver named in cfg.
//
// The memory driver is private to the calling process and only useful for demos.
func OpenBackend(ctx context.Context, cfg StoreConfig, log zerolog.Logger) (storage.Backend, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		s, err := sqlite.NewFileStore(cfg.Path, sqlite.WithPollInterval(cfg.PollInterval))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, nil
	case DriverNATS:
		s, err := natskv.NewStore(ctx, cfg.NATSURL, cfg.Bucket, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open nats store: %w", err)
		}
		return s, nil
	case DriverRedis:
		s, err := rediskv.NewStore(ctx, rediskv.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return s, nil
	case DriverMemory:
		return memory.NewHub().Open(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
