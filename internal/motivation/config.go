package motivation

import (
	"os"
	"strconv"
	"time"
)

// Config bounds the motivation cache.
type Config struct {
	CacheSize int           // max entries; 0 means unbounded
	TTL       time.Duration // entry lifetime; 0 disables expiry
}

func DefaultConfig() Config {
	return Config{
		CacheSize: 256,
		TTL:       24 * time.Hour,
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TASKTAMER_MOTIVATION_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheSize = n
		}
	}
	if v := os.Getenv("TASKTAMER_MOTIVATION_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.TTL = d
		}
	}

	return cfg
}
