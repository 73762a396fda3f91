package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"feed-go/internal/config"
	"feed-go/internal/feed"
)

// Store is a resource store backend that owns resources released by Close.
type Store interface {
	feed.ResourceStore
	Close() error
}

// NewStoreFromConfig creates a Store implementation based on the store config type.
func NewStoreFromConfig(ctx context.Context, cfg config.StoreConfig, idgen feed.IDGenerator) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.DataDir, "feed.db"), idgen)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("dsn required for postgres store")
		}
		s, err := NewPostgresStore(ctx, cfg.DSN, idgen)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory", "":
		return NewMemoryStore(idgen), nil
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
