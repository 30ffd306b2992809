package storage

import (
	"context"
	"fmt"

	"tougpt/pkg/config"
)

// Open builds the store selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case config.StorageFile, "":
		return NewFileStore(cfg.StoragePath())
	case config.StorageSQLite:
		return NewSQLiteStore(cfg.StoragePath())
	case config.StorageRedis:
		return NewRedisStore(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB, cfg.Storage.RedisPrefix)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
