package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.HTTPAddr)
	}
	if cfg.RateLimitCalls != 100 {
		t.Fatalf("expected default limit 100, got %d", cfg.RateLimitCalls)
	}
	if cfg.RateLimitPeriod != 60*time.Second {
		t.Fatalf("expected default period 60s, got %v", cfg.RateLimitPeriod)
	}
	if len(cfg.RateLimitExcluded) != 2 {
		t.Fatalf("expected 2 default exclusions, got %v", cfg.RateLimitExcluded)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("RATE_LIMIT_CALLS", "3")
	t.Setenv("RATE_LIMIT_PERIOD_SECONDS", "5")
	t.Setenv("RATE_LIMIT_EXCLUDED_PATHS", "/health, /internal/ping")
	t.Setenv("LOCK_WAIT_TIMEOUT_MS", "250")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("expected :9999, got %q", cfg.HTTPAddr)
	}
	if cfg.RateLimitCalls != 3 || cfg.RateLimitPeriod != 5*time.Second {
		t.Fatalf("unexpected rate limit config: %d %v", cfg.RateLimitCalls, cfg.RateLimitPeriod)
	}
	if len(cfg.RateLimitExcluded) != 2 || cfg.RateLimitExcluded[1] != "/internal/ping" {
		t.Fatalf("unexpected exclusions: %v", cfg.RateLimitExcluded)
	}
	if cfg.LockWaitTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected lock wait: %v", cfg.LockWaitTimeout)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_CALLS", "not-a-number")
	cfg := Load()
	if cfg.RateLimitCalls != 100 {
		t.Fatalf("expected fallback to default, got %d", cfg.RateLimitCalls)
	}
}
