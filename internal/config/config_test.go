package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("TOKEN_TTL_DAYS", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := FromEnv()
	assert.Equal(t, "http://localhost:8000/api", cfg.APIBaseURL)
	assert.Equal(t, BackendGorm, cfg.StorageBackend)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Nil(t, cfg.KafkaBrokers)
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("KAFKA_BROKERS", " kafka:9092, ,kafka2:9092")
	t.Setenv("API_TIMEOUT_SECONDS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := FromEnv()
	cfg.StorageBackend = "localstorage"
	require.Error(t, cfg.Validate())
}
