package memory

import (
	"context"
	"testing"
	"time"
)

func TestCounterIncrementsWithinWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCounterStore(WithCounterClock(func() time.Time { return base }))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, ttl, err := c.Increment(ctx, "ratelimit:ip:1", time.Minute)
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
		if ttl != time.Minute {
			t.Fatalf("ttl = %v, want 1m", ttl)
		}
	}
}

func TestCounterResetsAfterExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := NewCounterStore(WithCounterClock(func() time.Time { return now }))
	ctx := context.Background()

	if _, _, err := c.Increment(ctx, "k", time.Minute); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if _, _, err := c.Increment(ctx, "k", time.Minute); err != nil {
		t.Fatalf("increment: %v", err)
	}

	now = now.Add(61 * time.Second)
	count, _, err := c.Increment(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if count != 1 {
		t.Fatalf("count after expiry = %d, want 1", count)
	}
}

func TestCounterKeysIndependent(t *testing.T) {
	c := NewCounterStore()
	ctx := context.Background()

	if _, _, err := c.Increment(ctx, "a", time.Minute); err != nil {
		t.Fatalf("increment: %v", err)
	}
	count, _, err := c.Increment(ctx, "b", time.Minute)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
