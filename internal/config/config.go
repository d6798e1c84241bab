package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	// APIURL is the base URL of the manifest-generation service; requests go to {APIURL}/manifests.
	APIURL string `mapstructure:"API_URL"`

	SessionStore      string `mapstructure:"SESSION_STORE"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// PostgresURL enables the request log when set.
	PostgresURL string `mapstructure:"POSTGRES_URL"`
}

// Load reads configuration from a .env file in the working directory and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads configuration from the given env file, if present, and the environment.
// Environment variables win over file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing file is fine; production is configured through the environment.
	_ = v.ReadInConfig()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_URL", "")
	v.SetDefault("SESSION_STORE", SessionStoreMemory)
	v.SetDefault("SESSION_TTL_MINUTES", 60)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("POSTGRES_URL", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	return &cfg, nil
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("API_URL is required"))
	}
	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore))
	}
	if c.SessionTTLMinutes <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL_MINUTES must be positive, got %d", c.SessionTTLMinutes))
	}
	return errors.Join(errs...)
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
