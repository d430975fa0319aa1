package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("POST", "/api/panel/submit", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "1" {
		t.Fatalf("want Retry-After=1, got %q", rr.Header().Get("Retry-After"))
	}

	// another client has its own bucket
	other := httptest.NewRequest("POST", "/api/panel/submit", nil)
	other.RemoteAddr = "5.6.7.8:4321"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != 200 {
		t.Fatalf("want 200 for other client got %d", rr.Code)
	}
}

func TestLimiter_RefillAndSweep(t *testing.T) {
	l := newLimiter(1, 1, time.Minute)
	now := time.Now()

	if !l.allow("a", now) || l.allow("a", now) {
		t.Fatalf("want one token then empty")
	}
	if !l.allow("a", now.Add(1100*time.Millisecond)) {
		t.Fatalf("want refill after 1.1s")
	}

	l.allow("b", now.Add(2*time.Second))
	if l.size() != 2 {
		t.Fatalf("want 2 buckets, got %d", l.size())
	}
	// both buckets idle for longer than ttl
	l.allow("c", now.Add(5*time.Minute))
	if l.size() != 1 {
		t.Fatalf("want stale buckets swept, got %d", l.size())
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))
		if rr.Code != 200 {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
}

func TestRateLimit_IgnoresForwardedHeaderFromSamePeer(t *testing.T) {
	h := RateLimit(60, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/api/panel/submit", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code == 200 {
			allowed++
		}
	}
	if allowed != 1 {
		t.Fatalf("want 1 request allowed for one peer, got %d", allowed)
	}
}

func TestRateLimit_RetryAfterRoundsUp(t *testing.T) {
	h := RateLimit(40, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	h.ServeHTTP(httptest.NewRecorder(), req)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 429 {
		t.Fatalf("want 429 got %d", rr.Code)
	}
	// a token takes 1.5s at 40 req/min
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("want Retry-After=2, got %q", got)
	}
}
