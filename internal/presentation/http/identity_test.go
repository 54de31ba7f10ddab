package httppresentation

import (
	"net/http/httptest"
	"testing"
)

func TestFromForwardedForTakesFirstEntry(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1, 10.0.0.2")

	if got := FromForwardedFor(r); got != "203.0.113.7" {
		t.Fatalf("identity = %q, want 203.0.113.7", got)
	}
}

func TestFromForwardedForEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	if got := FromForwardedFor(r); got != "" {
		t.Fatalf("identity = %q, want empty", got)
	}
}

func TestFromRemoteAddrStripsPort(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	r.RemoteAddr = "198.51.100.4:52011"

	if got := FromRemoteAddr(r); got != "198.51.100.4" {
		t.Fatalf("identity = %q, want 198.51.100.4", got)
	}
}

func TestIdentityChainFallsThrough(t *testing.T) {
	chain := IdentityChain(FromForwardedFor, FromRealIP, FromRemoteAddr)

	r := httptest.NewRequest("GET", "/products", nil)
	r.RemoteAddr = "198.51.100.4:52011"
	if got := chain(r); got != "198.51.100.4" {
		t.Fatalf("identity = %q, want remote addr fallback", got)
	}

	r.Header.Set("X-Real-IP", "192.0.2.9")
	if got := chain(r); got != "192.0.2.9" {
		t.Fatalf("identity = %q, want X-Real-IP", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7")
	if got := chain(r); got != "203.0.113.7" {
		t.Fatalf("identity = %q, want X-Forwarded-For first", got)
	}
}

func TestIdentityChainUnknown(t *testing.T) {
	chain := IdentityChain(FromForwardedFor, FromRealIP)
	r := httptest.NewRequest("GET", "/products", nil)

	if got := chain(r); got != "unknown" {
		t.Fatalf("identity = %q, want unknown", got)
	}
}
