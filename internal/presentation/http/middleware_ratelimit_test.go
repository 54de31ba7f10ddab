package httppresentation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appratelimit "github.com/Zhima-Mochi/storefront/app/internal/application/ratelimit"
	"github.com/Zhima-Mochi/storefront/app/internal/infrastructure/memory"
)

type downStore struct{}

func (downStore) Increment(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("store down")
}

// newFixedEngine pins the engine clock so a test never straddles a window
// boundary.
func newFixedEngine(calls int) *appratelimit.Engine {
	now := time.Date(2025, 6, 1, 12, 0, 1, 0, time.UTC)
	return appratelimit.NewEngine(memory.NewCounterStore(), calls, time.Minute,
		appratelimit.WithClock(func() time.Time { return now }))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func gatedHandler(engine *appratelimit.Engine, excluded ...string) http.Handler {
	return RateLimit(RateLimitOptions{
		Engine:           engine,
		ExcludedPrefixes: excluded,
	})(okHandler())
}

func doRequest(h http.Handler, path string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("GET", path, nil)
	r.RemoteAddr = "198.51.100.4:52011"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRateLimitDeniesBeyondLimit(t *testing.T) {
	h := gatedHandler(newFixedEngine(3))

	for i := 0; i < 3; i++ {
		w := doRequest(h, "/products")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "3" {
			t.Fatalf("X-RateLimit-Limit = %q, want 3", got)
		}
	}

	w := doRequest(h, "/products")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("X-RateLimit-Remaining = %q, want 0", got)
	}
	if w.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("X-RateLimit-Reset header missing")
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("Retry-After header missing")
	}
	if got := w.Body.String(); got != "{\"detail\":\"rate limit exceeded\"}\n" {
		t.Fatalf("body = %q", got)
	}
}

func TestRateLimitRemainingDecreases(t *testing.T) {
	h := gatedHandler(newFixedEngine(3))

	want := []string{"2", "1", "0"}
	for i, expected := range want {
		w := doRequest(h, "/products")
		if got := w.Header().Get("X-RateLimit-Remaining"); got != expected {
			t.Fatalf("request %d remaining = %q, want %q", i+1, got, expected)
		}
	}
}

func TestRateLimitExcludedPathBypassesCounter(t *testing.T) {
	h := gatedHandler(newFixedEngine(1), "/health", "/metrics")

	for i := 0; i < 5; i++ {
		w := doRequest(h, "/health")
		if w.Code != http.StatusOK {
			t.Fatalf("excluded request %d status = %d, want 200", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatal("excluded path must not carry rate-limit headers")
		}
	}

	// The excluded traffic consumed no budget.
	if w := doRequest(h, "/products"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRateLimitFailsOpenWhenStoreDown(t *testing.T) {
	engine := appratelimit.NewEngine(downStore{}, 1, time.Minute)
	h := gatedHandler(engine)

	for i := 0; i < 5; i++ {
		w := doRequest(h, "/products")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want fail-open 200", i+1, w.Code)
		}
		if w.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatal("fail-open response must not carry rate-limit headers")
		}
	}
}

func TestRateLimitSeparatesIdentities(t *testing.T) {
	h := gatedHandler(newFixedEngine(1))

	first := httptest.NewRequest("GET", "/products", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	again := httptest.NewRequest("GET", "/products", nil)
	again.Header.Set("X-Forwarded-For", "203.0.113.7")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, again)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	other := httptest.NewRequest("GET", "/products", nil)
	other.Header.Set("X-Forwarded-For", "203.0.113.8")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, other)
	if w.Code != http.StatusOK {
		t.Fatalf("other identity status = %d, want 200", w.Code)
	}
}
