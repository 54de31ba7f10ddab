// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration knobs for the HTTP server, the record store,
// the counter store and the rate limiter.
type Config struct {
	ServiceName     string
	Env             string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// DatabaseDSN selects the MySQL record store. When empty the service
	// runs against the in-memory store.
	DatabaseDSN string
	// LockWaitTimeout bounds how long the in-memory store waits for a
	// product lock before reporting a transient lock timeout.
	LockWaitTimeout time.Duration

	// RedisAddr selects the Redis counter store. When empty the rate
	// limiter uses the in-memory counter store.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitCalls    int
	RateLimitPeriod   time.Duration
	RateLimitExcluded []string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func csvenv(key string, def []string) []string {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		ServiceName:     getenv("SERVICE_NAME", "storefront"),
		Env:             getenv("ENV", "dev"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),

		DatabaseDSN:     getenv("DB_DSN", ""),
		LockWaitTimeout: durenvms("LOCK_WAIT_TIMEOUT_MS", 2000),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       atoienv("REDIS_DB", 0),

		RateLimitCalls:    atoienv("RATE_LIMIT_CALLS", 100),
		RateLimitPeriod:   durenvs("RATE_LIMIT_PERIOD_SECONDS", 60),
		RateLimitExcluded: csvenv("RATE_LIMIT_EXCLUDED_PATHS", []string{"/health", "/metrics"}),
	}
}
