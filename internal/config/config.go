package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port          string        `toml:"port"`
	DBPath        string        `toml:"db_path"`
	DataDir       string        `toml:"data_dir"`
	JWTSecret     string        `toml:"jwt_secret"`
	TokenTTL      time.Duration `toml:"-"`
	TokenTTLHours int           `toml:"token_ttl_hours"`
	CORSOrigins   []string      `toml:"cors_origins"`
	MigrationsDir string        `toml:"migrations_dir"`

	// NtfyEndpoint is the full ntfy topic URL for timer notifications;
	// empty disables the notifier.
	NtfyEndpoint       string `toml:"ntfy_endpoint"`
	NtfyTimeoutSeconds int    `toml:"ntfy_timeout_seconds"`

	// Outbound search feed fetching.
	SearchTimeoutSeconds int `toml:"search_timeout_seconds"`
	SearchFetchesPerMin  int `toml:"search_fetches_per_min"`

	// Per-user API rate limiting.
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
	RateLimitBurst     int `toml:"rate_limit_burst"`
}

// Load builds the configuration from environment variables with
// fallbacks.
func Load() Config {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		DBPath:               getEnv("DB_PATH", "./data/studyhub.db"),
		DataDir:              getEnv("DATA_DIR", "./data"),
		JWTSecret:            getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTLHours:        getEnvInt("TOKEN_TTL_HOURS", 72),
		CORSOrigins:          getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "./migrations"),
		NtfyEndpoint:         getEnv("NTFY_ENDPOINT", ""),
		NtfyTimeoutSeconds:   getEnvInt("NTFY_TIMEOUT_SECONDS", 10),
		SearchTimeoutSeconds: getEnvInt("SEARCH_TIMEOUT_SECONDS", 15),
		SearchFetchesPerMin:  getEnvInt("SEARCH_FETCHES_PER_MIN", 30),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 240),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 60),
	}
	return normalize(cfg)
}

// LoadFile overlays a TOML config file on top of the environment
// defaults. Values present in the file win.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	return normalize(cfg), nil
}

func normalize(cfg Config) Config {
	if cfg.TokenTTLHours <= 0 {
		cfg.TokenTTLHours = 72
	}
	cfg.TokenTTL = time.Duration(cfg.TokenTTLHours) * time.Hour
	if cfg.NtfyTimeoutSeconds <= 0 {
		cfg.NtfyTimeoutSeconds = 10
	}
	if cfg.SearchTimeoutSeconds <= 0 {
		cfg.SearchTimeoutSeconds = 15
	}
	if cfg.SearchFetchesPerMin <= 0 {
		cfg.SearchFetchesPerMin = 30
	}
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 240
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 60
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
