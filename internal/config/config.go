package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendGorm   = "gorm"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	APIBaseURL string
	APITimeout time.Duration

	StorageBackend string
	StorageDSN     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	TokenTTL time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration without touching .env files.
func FromEnv() *Config {
	return &Config{
		ListenAddr: EnvDefault("LISTEN_ADDR", "127.0.0.1:5173"),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		APIBaseURL: EnvDefault("API_BASE_URL", "http://localhost:8000/api"),
		APITimeout: time.Duration(EnvIntDefault("API_TIMEOUT_SECONDS", 10)) * time.Second,

		StorageBackend: strings.ToLower(EnvDefault("STORAGE_BACKEND", BackendGorm)),
		StorageDSN:     EnvDefault("STORAGE_DSN", "storefront.db"),
		RedisAddr:      EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        EnvIntDefault("REDIS_DB", 0),

		TokenTTL: time.Duration(EnvIntDefault("TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "product"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
