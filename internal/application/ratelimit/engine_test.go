package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Zhima-Mochi/storefront/app/internal/infrastructure/memory"
)

type erroringStore struct{}

func (erroringStore) Increment(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("store down")
}

func TestDecideCountsDownToDenial(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC)
	store := memory.NewCounterStore(memory.WithCounterClock(func() time.Time { return now }))
	engine := NewEngine(store, 3, time.Minute, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := engine.Decide(ctx, "1.2.3.4")
		if !d.Allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
		if !d.Known {
			t.Fatalf("request %d unknown, want known", i+1)
		}
		if want := 3 - (i + 1); d.Remaining != want {
			t.Fatalf("request %d remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d := engine.Decide(ctx, "1.2.3.4")
	if d.Allowed {
		t.Fatal("4th request allowed, want denied")
	}
	if d.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", d.Remaining)
	}
	if d.Limit != 3 {
		t.Fatalf("limit = %d, want 3", d.Limit)
	}
	if d.Reset <= 0 || d.Reset > time.Minute {
		t.Fatalf("reset = %v, want within (0, 1m]", d.Reset)
	}
}

func TestDecideZeroLimitDeniesImmediately(t *testing.T) {
	store := memory.NewCounterStore()
	engine := NewEngine(store, 0, time.Minute)

	if d := engine.Decide(context.Background(), "1.2.3.4"); d.Allowed {
		t.Fatal("first request allowed, want denied with limit 0")
	}
}

func TestDecideWindowRollover(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC)
	clock := func() time.Time { return now }
	store := memory.NewCounterStore(memory.WithCounterClock(clock))
	engine := NewEngine(store, 2, time.Minute, WithClock(clock))
	ctx := context.Background()

	engine.Decide(ctx, "1.2.3.4")
	engine.Decide(ctx, "1.2.3.4")
	if d := engine.Decide(ctx, "1.2.3.4"); d.Allowed {
		t.Fatal("3rd request allowed, want denied")
	}

	// Next window: the old count does not carry over.
	now = now.Add(time.Minute)
	d := engine.Decide(ctx, "1.2.3.4")
	if !d.Allowed {
		t.Fatal("first request of new window denied, want allowed")
	}
	if d.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", d.Remaining)
	}
}

func TestDecideIdentitiesIsolated(t *testing.T) {
	store := memory.NewCounterStore()
	engine := NewEngine(store, 1, time.Minute)
	ctx := context.Background()

	if d := engine.Decide(ctx, "1.1.1.1"); !d.Allowed {
		t.Fatal("first identity denied")
	}
	if d := engine.Decide(ctx, "1.1.1.1"); d.Allowed {
		t.Fatal("first identity second request allowed, want denied")
	}
	if d := engine.Decide(ctx, "2.2.2.2"); !d.Allowed {
		t.Fatal("second identity denied, want its own budget")
	}
}

func TestDecideFailsOpenOnStoreError(t *testing.T) {
	engine := NewEngine(erroringStore{}, 3, time.Minute)

	d := engine.Decide(context.Background(), "1.2.3.4")
	if !d.Allowed {
		t.Fatal("request denied on store failure, want fail-open allow")
	}
	if d.Known {
		t.Fatal("decision marked known despite store failure")
	}
}
