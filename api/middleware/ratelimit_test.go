package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"restoran_server/structs"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (c *fakeCounter) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, time.Duration, error) {
	if c.err != nil {
		return 0, 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[endpoint+":"+ip]++
	return c.counts[endpoint+":"+ip], 30 * time.Second, nil
}

func quietLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

func newLimitedHandler(counter RateCounter, limit int) http.Handler {
	cfg := &structs.Config{RateLimit: &structs.RateLimitConfig{Enabled: true, Requests: limit, Window: time.Minute}}
	mw := NewMiddleware(cfg, quietLogger(), nil, counter)

	return mw.RateLimitMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func request(h http.Handler, method, ip string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, "/api/bookings", nil)
	r.RemoteAddr = ip + ":4242"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	h := newLimitedHandler(&fakeCounter{counts: map[string]int{}}, 2)

	for i, wantRemaining := range []string{"1", "0"} {
		w := request(h, http.MethodGet, "10.0.0.1")
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: remaining = %q, want %q", i+1, got, wantRemaining)
		}
	}

	w := request(h, http.MethodGet, "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("Retry-After = %q, want 30", got)
	}
	if w.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("X-RateLimit-Limit = %q", w.Header().Get("X-RateLimit-Limit"))
	}

	// other clients have their own window
	if w := request(h, http.MethodGet, "10.0.0.2"); w.Code != http.StatusNoContent {
		t.Fatalf("second client: status %d", w.Code)
	}
	// preflight requests are not counted
	if w := request(h, http.MethodOptions, "10.0.0.1"); w.Code != http.StatusNoContent {
		t.Fatalf("OPTIONS: status %d", w.Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := newLimitedHandler(&fakeCounter{err: errors.New("redis down")}, 1)

	for range 3 {
		if w := request(h, http.MethodGet, "10.0.0.1"); w.Code != http.StatusNoContent {
			t.Fatalf("status %d, want request to pass", w.Code)
		}
	}
}

func TestRateLimitIgnoresForwardedHeadersFromUntrustedPeers(t *testing.T) {
	h := newLimitedHandler(&fakeCounter{counts: map[string]int{}}, 2)

	blocked := 0
	for i := range 20 {
		r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		r.RemoteAddr = "10.0.0.7:4242"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("1.2.3.%d", i))
		r.Header.Set("X-Real-IP", fmt.Sprintf("4.5.6.%d", i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code == http.StatusTooManyRequests {
			blocked++
		}
	}

	if blocked != 18 {
		t.Fatalf("blocked %d of 20 requests, want 18", blocked)
	}
}

func TestGetClientIP(t *testing.T) {
	cfg := &structs.Config{RateLimit: &structs.RateLimitConfig{
		TrustedProxies: []string{"10.1.0.0/16", "192.168.5.5", "not-an-ip"},
	}}
	mw := NewMiddleware(cfg, quietLogger(), nil, nil)

	cases := []struct {
		name   string
		xff    string
		remote string
		want   string
	}{
		{"untrusted peer with header", "1.1.1.1", "9.9.9.9:1", "9.9.9.9"},
		{"untrusted peer without header", "", "9.9.9.9:1", "9.9.9.9"},
		{"trusted range", "1.1.1.1", "10.1.4.2:1", "1.1.1.1"},
		{"trusted single address", "1.1.1.1", "192.168.5.5:1", "1.1.1.1"},
		{"spoofed left-most hop", "6.6.6.6, 1.1.1.1", "10.1.4.2:1", "1.1.1.1"},
		{"chain of trusted proxies", "1.1.1.1, 10.1.9.9", "10.1.4.2:1", "1.1.1.1"},
		{"trusted peer without header", "", "10.1.4.2:1", "10.1.4.2"},
		{"remote without port", "", "9.9.9.9", "9.9.9.9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := mw.getClientIP(r); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
