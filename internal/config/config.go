package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
)

// Config carries every runtime knob of the service. DB_URL is the only
// required variable; Redis-backed features stay disabled without REDIS_URL.
type Config struct {
	DatabaseURL string `env:"DB_URL,required=true"`
	Host        string `env:"HOST"`
	Port        int    `env:"PORT,default=3000"`

	RedisURL string `env:"REDIS_URL"`

	RetentionMaxAge   time.Duration `env:"RETENTION_MAX_AGE"`
	RetentionInterval time.Duration `env:"RETENTION_INTERVAL,default=1h"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load unmarshals the process environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port the HTTP server should bind.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RetentionEnabled tells whether the prune task should run. It needs both a
// queue backend and a max age to prune against.
func (c Config) RetentionEnabled() bool {
	return c.RedisURL != "" && c.RetentionMaxAge > 0
}

// SlogLevel maps the LOG_LEVEL string onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
