// Package ratelimit holds the rate-limit domain contracts, free of net/http.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of a rate-limit check for a single request.
// When Known is false the counter store could not be consulted and the
// request is allowed without metadata (fail-open).
type Decision struct {
	Allowed   bool
	Known     bool
	Limit     int
	Remaining int
	// Reset is the time until the current window's counter expires.
	Reset time.Duration
	// Window is the configured window length.
	Window time.Duration
}

// CounterStore is the shared counter-store port.
//
// Increment must atomically increment key, set its TTL to ttl if the key had
// no expiry yet, and return the post-increment count together with the
// remaining TTL. The three steps execute as one atomic batch: the returned
// count decides this exact request, with no re-read.
type CounterStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (count int64, remaining time.Duration, err error)
}

// WindowKey derives the fixed-window counter key for an identity. Windows are
// clock-aligned intervals of length period; counts reset at each boundary
// with no carryover.
func WindowKey(identity string, now time.Time, period time.Duration) string {
	window := now.Unix() / int64(period/time.Second)
	return fmt.Sprintf("ratelimit:%s:%d", identity, window)
}
