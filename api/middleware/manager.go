package middleware

import (
	"context"
	"net/netip"
	"restoran_server/structs"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// TokenAuthenticator validates an access token and returns its claims.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*structs.AuthClaims, error)
}

// RateCounter increments the fixed-window counter of one client and endpoint.
type RateCounter interface {
	IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, time.Duration, error)
}

type Middleware struct {
	logger  *gecho.Logger
	cfg     *structs.Config
	auth    TokenAuthenticator
	limiter RateCounter
	proxies []netip.Prefix
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, auth TokenAuthenticator, limiter RateCounter) *Middleware {
	mw := &Middleware{
		logger:  logger,
		cfg:     cfg,
		auth:    auth,
		limiter: limiter,
	}
	if cfg.RateLimit != nil {
		mw.proxies = parseTrustedProxies(cfg.RateLimit.TrustedProxies, logger)
	}
	return mw
}

// parseTrustedProxies accepts plain addresses and CIDR ranges; bad entries are skipped.
func parseTrustedProxies(entries []string, logger *gecho.Logger) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			addr, err := netip.ParseAddr(entry)
			if err != nil {
				logger.Warn("Ignoring invalid trusted proxy", gecho.Field("entry", entry))
				continue
			}
			prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			logger.Warn("Ignoring invalid trusted proxy", gecho.Field("entry", entry))
			continue
		}
		prefixes = append(prefixes, prefix.Masked())
	}
	return prefixes
}
