package httppresentation

import (
	"net"
	"net/http"
	"strings"
)

// IdentitySource extracts the client identity a rate-limit bucket is keyed
// on. An empty return means the source could not identify the caller.
type IdentitySource func(*http.Request) string

// FromForwardedFor takes the first entry of X-Forwarded-For, the original
// client when the service sits behind a proxy chain.
func FromForwardedFor(r *http.Request) string {
	raw := r.Header.Get("X-Forwarded-For")
	if raw == "" {
		return ""
	}
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

func FromRealIP(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}

func FromRemoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// IdentityChain tries each source in order and returns the first non-empty
// identity, or "unknown" when none match.
func IdentityChain(sources ...IdentitySource) IdentitySource {
	return func(r *http.Request) string {
		for _, source := range sources {
			if id := source(r); id != "" {
				return id
			}
		}
		return "unknown"
	}
}
