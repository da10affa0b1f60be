package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// In-memory preference cache inside the service layer.
	PrefCacheTTL              time.Duration `env:"PREF_CACHE_TTL" default:"10s"`
	PrefCacheEvictionInterval time.Duration `env:"PREF_CACHE_EVICTION_INTERVAL" default:"1m"`

	// Redis read-through preference cache.
	RedisCacheTTL time.Duration `env:"REDIS_CACHE_TTL" default:"5m"`

	// Rate limit applied to the analysis endpoints, per client IP.
	AnalyzeRateLimit float64 `env:"ANALYZE_RATE_LIMIT" default:"20"`
	AnalyzeRateBurst int     `env:"ANALYZE_RATE_BURST" default:"40"`

	MaxFeedConnections int `env:"MAX_FEED_CONNECTIONS" default:"10000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.AppEnv == "production" {
		if err := validateProductionSSL(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	if cfg.AnalyzeRateLimit <= 0 {
		return fmt.Errorf("ANALYZE_RATE_LIMIT must be positive, got %v", cfg.AnalyzeRateLimit)
	}
	if cfg.AnalyzeRateBurst <= 0 {
		return fmt.Errorf("ANALYZE_RATE_BURST must be positive, got %d", cfg.AnalyzeRateBurst)
	}
	if cfg.MaxFeedConnections <= 0 {
		return fmt.Errorf("MAX_FEED_CONNECTIONS must be positive, got %d", cfg.MaxFeedConnections)
	}

	return nil
}

// validateProductionSSL rejects database URLs that switch TLS off. Only
// applied when APP_ENV=production so local development keeps working against
// plain containers.
func validateProductionSSL(databaseURL string) error {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	sslmode := strings.ToLower(parsed.Query().Get("sslmode"))
	switch sslmode {
	case "disable", "allow":
		return fmt.Errorf("DATABASE_URL uses sslmode=%s which is not allowed in production", sslmode)
	}
	return nil
}
