package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
)

const defaultRedisAddr = "localhost:6379"

// RedisConfig is only consulted when the Redis store backend is selected.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

func LoadRedisConfig() (*RedisConfig, error) {
	cfg := &RedisConfig{
		Addr:     defaultRedisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		TLS:      os.Getenv("REDIS_TLS") == "true",
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRedisDB, raw)
		}
		cfg.DB = db
	}

	return cfg, nil
}

// TLSConfig returns nil when TLS is disabled.
func (c *RedisConfig) TLSConfig() *tls.Config {
	if !c.TLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

func (c *RedisConfig) Validate() error {
	if c == nil || c.Addr == "" {
		return ErrRedisAddrMissing
	}
	return nil
}
