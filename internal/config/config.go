// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Cache backends selectable with REVIEW3_CACHE
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Webstore     string        `env:"REVIEW3_WEBSTORE"`
	Insecure     bool          `env:"REVIEW3_INSECURE"`
	ResponseType string        `env:"REVIEW3_RESPONSE_TYPE" envDefault:"json"`
	UserAgent    string        `env:"REVIEW3_USER_AGENT" envDefault:"Review3 Go Client"`
	LogPath      string        `env:"REVIEW3_LOG_PATH"`
	LogLevel     string        `env:"REVIEW3_LOG_LEVEL" envDefault:"info"`
	RateLimit    float64       `env:"REVIEW3_RATE_LIMIT"`
	HTTPTimeout  time.Duration `env:"REVIEW3_HTTP_TIMEOUT" envDefault:"20s"`

	Cache CacheConfig
}

// CacheConfig selects and configures the id cache
type CacheConfig struct {
	Backend   string        `env:"REVIEW3_CACHE" envDefault:"none"`
	Prefix    string        `env:"REVIEW3_CACHE_PREFIX" envDefault:"review3."`
	TTL       time.Duration `env:"REVIEW3_CACHE_TTL" envDefault:"1h"`
	Dir       string        `env:"REVIEW3_CACHE_DIR"`
	RedisAddr string        `env:"REVIEW3_REDIS_ADDR" envDefault:"localhost:6379"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// HasCache returns true if a cache backend is selected
func (c *Config) HasCache() bool {
	return c.Cache.Backend != "" && c.Cache.Backend != CacheNone
}

// Validate checks values the lookup client cannot check itself
func (c *Config) Validate() error {
	switch c.ResponseType {
	case "json", "xml":
	default:
		return fmt.Errorf("REVIEW3_RESPONSE_TYPE must be json or xml, got %q", c.ResponseType)
	}

	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("REVIEW3_REDIS_ADDR is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown REVIEW3_CACHE backend %q (want none, memory, file or redis)", c.Cache.Backend)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("REVIEW3_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	}
	return nil
}
