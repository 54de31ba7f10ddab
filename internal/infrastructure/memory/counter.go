package memory

import (
	"context"
	"sync"
	"time"
)

type counterEntry struct {
	count     int64
	expiresAt time.Time
}

// CounterStore is the in-process ratelimit.CounterStore. It is only shared
// within one process, so limits enforced through it are per instance.
type CounterStore struct {
	mu      sync.Mutex
	entries map[string]counterEntry
	now     func() time.Time
}

type CounterOption func(*CounterStore)

func WithCounterClock(now func() time.Time) CounterOption {
	return func(c *CounterStore) { c.now = now }
}

func NewCounterStore(opts ...CounterOption) *CounterStore {
	c := &CounterStore{
		entries: make(map[string]counterEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CounterStore) Increment(_ context.Context, key string, ttl time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	entry, ok := c.entries[key]
	if !ok || !now.Before(entry.expiresAt) {
		entry = counterEntry{expiresAt: now.Add(ttl)}
	}
	entry.count++
	c.entries[key] = entry
	return entry.count, entry.expiresAt.Sub(now), nil
}
