// Package store provides the schedule document persistence backends.
// Every backend holds exactly one whole document, replaced on each
// save, and seeds the default document when none exists yet. Writes
// are serialized per backend so one load→save cycle is in flight at a
// time.
package store

import (
	"context"

	"github.com/shuttleroute-data/internal/common/config"
	"github.com/shuttleroute-data/internal/common/logger"
	"github.com/shuttleroute-data/internal/engine"
)

// Store extends the engine's persistence contract with lifecycle
// management for backends holding connections.
type Store interface {
	engine.Store
	Close() error
}

// Open builds the store selected by the configuration.
func Open(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "postgres":
		return NewPostgresStore(ctx, cfg.ConnectionString(), log)
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	default:
		return NewFileStore(cfg.StateFile, log), nil
	}
}
