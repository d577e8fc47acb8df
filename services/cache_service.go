package services

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"restoran_server/structs"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheDisabled is returned by Ping when no redis backend is configured.
var ErrCacheDisabled = errors.New("cache disabled")

// CacheService holds rate limit counters and the token blacklist. With redis
// disabled it keeps both in process, which is only correct for a single instance.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client

	mu        sync.Mutex
	counters  map[string]localCounter
	blacklist map[uuid.UUID]time.Time
	now       func() time.Time
}

type localCounter struct {
	count   int
	expires time.Time
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	cs := &CacheService{
		logger:    logger,
		config:    cfg,
		counters:  make(map[string]localCounter),
		blacklist: make(map[uuid.UUID]time.Time),
		now:       time.Now,
	}
	if cfg.Cache.Enabled {
		cs.client = newRedisClient(cfg.Cache)
	}
	return cs
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

// Enabled reports whether a redis backend is configured.
func (cs *CacheService) Enabled() bool {
	return cs.client != nil
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if cs.client != nil {
		return cs.client.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		// Only retry on network/connection errors, not on logical errors like key not found
		if attempt == maxRetries || !isRetryableCacheError(err) {
			break
		}

		backoff := min(100*time.Millisecond<<attempt, 2*time.Second)
		wait := backoff/2 + jitter(backoff/2)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0
	}
	return time.Duration(binary.BigEndian.Uint64(b[:]) % uint64(max))
}

// isRetryableCacheError determines if an error is worth retrying
func isRetryableCacheError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

// IncrementRateLimit counts one request for ip on endpoint in a fixed window and
// returns the new count and the time left in the window.
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, window time.Duration) (int, time.Duration, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", endpoint, ip)

	if cs.client == nil {
		return cs.incrementLocal(key, window)
	}

	// Sent once: a failed Exec may still have counted the request, and the
	// middleware lets the request through on error.
	pipe := cs.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX keeps the window fixed from the first request
	pipe.ExpireNX(ctx, key, window)
	pttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limit increment failed: %w", err)
	}

	count, ttl := incr.Val(), pttl.Val()
	if ttl < 0 {
		ttl = window
	}

	return int(count), ttl, nil
}

func (cs *CacheService) incrementLocal(key string, window time.Duration) (int, time.Duration, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.now()
	c, ok := cs.counters[key]
	if !ok || !now.Before(c.expires) {
		c = localCounter{expires: now.Add(window)}
	}
	c.count++
	cs.counters[key] = c

	// Opportunistic sweep so idle clients do not accumulate
	if len(cs.counters) > 10000 {
		for k, v := range cs.counters {
			if !now.Before(v.expires) {
				delete(cs.counters, k)
			}
		}
	}

	return c.count, c.expires.Sub(now), nil
}

// BlacklistToken revokes a token id until its expiry
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}

	if cs.client == nil {
		cs.mu.Lock()
		cs.blacklist[jti] = exp
		cs.mu.Unlock()
		return nil
	}

	key := fmt.Sprintf("blacklist:%s", jti)
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, "true", ttl).Err()
	}, 3)
}

// IsTokenBlacklisted checks if a JTI has been revoked
func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	if cs.client == nil {
		cs.mu.Lock()
		defer cs.mu.Unlock()

		exp, ok := cs.blacklist[jti]
		if ok && !cs.now().Before(exp) {
			delete(cs.blacklist, jti)
			return false, nil
		}
		return ok, nil
	}

	key := fmt.Sprintf("blacklist:%s", jti)
	var exists int64
	err := cs.withRetry(ctx, func() error {
		n, err := cs.client.Exists(ctx, key).Result()
		exists = n
		return err
	}, 3)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	if cs.client == nil {
		return ErrCacheDisabled
	}
	return cs.client.Ping(ctx).Err()
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	if cs.client == nil {
		return map[string]any{"enabled": false}
	}

	stats := cs.client.PoolStats()
	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}
