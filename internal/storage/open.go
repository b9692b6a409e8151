package storage

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/config"
)

// Open builds the backend selected by STORAGE_BACKEND.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.BackendGorm:
		return OpenGorm(ctx, cfg.StorageDSN)
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
