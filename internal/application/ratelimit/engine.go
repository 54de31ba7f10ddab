// Package ratelimit implements the fixed-window rate-limit decision engine.
package ratelimit

import (
	"context"
	"time"

	domrl "github.com/Zhima-Mochi/storefront/app/internal/domain/ratelimit"
	"github.com/Zhima-Mochi/storefront/app/internal/pkg/logging"
	"go.uber.org/zap"
)

// Engine decides allow/deny per request against the shared counter store.
//
// Any store failure makes the engine fail open: the request is allowed, the
// metadata is marked unknown and the failure is logged, never surfaced.
type Engine struct {
	store  domrl.CounterStore
	calls  int
	period time.Duration
	now    func() time.Time
}

type Option func(*Engine)

// WithClock overrides the engine's clock. Used by tests to cross window
// boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store domrl.CounterStore, calls int, period time.Duration, opts ...Option) *Engine {
	if period < time.Second {
		period = time.Second
	}
	e := &Engine{
		store:  store,
		calls:  calls,
		period: period,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Limit() int            { return e.calls }
func (e *Engine) Period() time.Duration { return e.period }

// Decide increments the identity's counter for the current window and
// compares the post-increment count against the limit. That single count
// decides this exact request; there is no re-read.
func (e *Engine) Decide(ctx context.Context, identity string) domrl.Decision {
	key := domrl.WindowKey(identity, e.now(), e.period)
	count, ttl, err := e.store.Increment(ctx, key, e.period)
	if err != nil {
		logging.FromContext(ctx).Warn("ratelimit_store_unavailable",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return domrl.Decision{Allowed: true, Window: e.period}
	}
	if ttl <= 0 {
		ttl = e.period
	}
	remaining := e.calls - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return domrl.Decision{
		Allowed:   count <= int64(e.calls),
		Known:     true,
		Limit:     e.calls,
		Remaining: remaining,
		Reset:     ttl,
		Window:    e.period,
	}
}
