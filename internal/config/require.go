package config

import "fmt"

// Validate reports settings that make the process unable to start.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("missing required env %s", "API_BASE_URL")
	}
	switch c.StorageBackend {
	case BackendGorm:
		if c.StorageDSN == "" {
			return fmt.Errorf("missing required env %s", "STORAGE_DSN")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("missing required env %s", "REDIS_ADDR")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_DAYS must be positive")
	}
	return nil
}
