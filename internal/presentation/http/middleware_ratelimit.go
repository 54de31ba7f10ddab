package httppresentation

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	appratelimit "github.com/Zhima-Mochi/storefront/app/internal/application/ratelimit"
)

// RateLimitOptions configures the request gate.
type RateLimitOptions struct {
	Engine   *appratelimit.Engine
	Identity IdentitySource
	// ExcludedPrefixes bypass the gate entirely: no counter is consumed and
	// no rate-limit headers are written.
	ExcludedPrefixes []string
	// Decisions counts ratelimit_decisions_total{outcome}; optional.
	Decisions *prometheus.CounterVec
}

// RateLimit enforces the fixed-window limit before the request reaches the
// router. Denied requests get 429 with the standard X-RateLimit-* headers and
// Retry-After; when the decision is unknown (store failure) the request
// passes with no headers at all.
func RateLimit(opts RateLimitOptions) Middleware {
	identity := opts.Identity
	if identity == nil {
		identity = IdentityChain(FromForwardedFor, FromRealIP, FromRemoteAddr)
	}
	return func(next http.Handler) http.Handler {
		if opts.Engine == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range opts.ExcludedPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			decision := opts.Engine.Decide(r.Context(), identity(r))
			if !decision.Known {
				count(opts.Decisions, "failopen")
				next.ServeHTTP(w, r)
				return
			}

			reset := ceilSeconds(decision.Reset)
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.Itoa(reset))

			if !decision.Allowed {
				count(opts.Decisions, "denied")
				w.Header().Set("Retry-After", strconv.Itoa(reset))
				writeJSON(w, http.StatusTooManyRequests, map[string]string{
					"detail": "rate limit exceeded",
				})
				return
			}
			count(opts.Decisions, "allowed")
			next.ServeHTTP(w, r)
		})
	}
}

func count(vec *prometheus.CounterVec, outcome string) {
	if vec != nil {
		vec.WithLabelValues(outcome).Inc()
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
