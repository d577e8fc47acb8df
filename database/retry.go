package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// retryPolicy bounds how often an operation is repeated and which errors qualify.
type retryPolicy struct {
	attempts  int
	delay     time.Duration
	maxDelay  time.Duration
	retryable func(error) bool
}

// readPolicy repeats selects that failed before reaching the server or lost
// their connection. Reads have no side effects, so running them twice is safe.
var readPolicy = retryPolicy{
	attempts:  3,
	delay:     100 * time.Millisecond,
	maxDelay:  time.Second,
	retryable: isTransientReadError,
}

// txConflictPolicy restarts a whole transaction that PostgreSQL aborted.
// Nothing from the aborted attempt was committed.
var txConflictPolicy = retryPolicy{
	attempts:  3,
	delay:     50 * time.Millisecond,
	maxDelay:  500 * time.Millisecond,
	retryable: isTxConflict,
}

func isTransientReadError(err error) bool {
	if err == nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// connection_exception class, too_many_connections, cannot_connect_now
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "53300" || pgErr.Code == "57P03"
	}

	msg := strings.ToLower(err.Error())
	for _, transient := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"bad connection",
		"unexpected eof",
		"i/o timeout",
		"too many clients",
	} {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

// isTxConflict reports serialization failures and deadlocks
func isTxConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// retry runs op until it succeeds, fails with a non-retryable error, runs out of
// attempts or ctx is done. The delay doubles after every failed attempt.
func retry(ctx context.Context, p retryPolicy, op func() error) error {
	delay := p.delay

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || attempt >= p.attempts || !p.retryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, p.maxDelay)
	}
}
