package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/swamp-dev/eunoia/internal/config"
)

// OpenBackend opens the KV named by the storage config.
func OpenBackend(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil

	case "file":
		f, err := OpenFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		return f, nil

	case "sqlite":
		path := cfg.Path
		if path != ":memory:" {
			if filepath.Ext(path) == "" {
				path = filepath.Join(path, "eunoia.db")
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil

	case "redis":
		r, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return r, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
