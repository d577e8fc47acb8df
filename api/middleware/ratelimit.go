package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// rateLimitScope names the single counter shared by every /api route.
const rateLimitScope = "api"

// getClientIP returns the address of the connected peer. X-Forwarded-For is
// only read when that peer is a trusted proxy, and then the right-most hop
// that is not itself a trusted proxy wins.
func (mw *Middleware) getClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if !mw.isTrustedProxy(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !mw.isTrustedProxy(hop) {
			return hop
		}
	}
	return peer
}

func (mw *Middleware) isTrustedProxy(ip string) bool {
	if len(mw.proxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range mw.proxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RateLimitMiddleware applies a fixed window per client IP. Counter failures
// let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			limit := mw.cfg.RateLimit.Requests
			window := mw.cfg.RateLimit.Window

			count, ttl, err := mw.limiter.IncrementRateLimit(r.Context(), clientIP, rateLimitScope, window)
			if err != nil {
				// Cache error - log and allow request (fail open)
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
				)
				next.ServeHTTP(w, r)
				return
			}

			if ttl <= 0 || ttl > window {
				ttl = window
			}
			reset := time.Now().Add(ttl).Unix()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("path", r.URL.Path),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				retryAfter := int((ttl + time.Second - 1) / time.Second)
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				gecho.TooManyRequests(w,
					gecho.WithMessage("Too many requests, please try again later."),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": retryAfter,
					}),
					gecho.Send(),
				)
				return
			}

			remaining := max(0, limit-count)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			// Log if getting close to limit (80% threshold)
			if count > limit*8/10 {
				mw.logger.Debug("Rate limit warning",
					gecho.Field("ip", clientIP),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}
