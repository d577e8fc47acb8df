package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type row struct{}

func TestWritesRunOnceOnConnectionLoss(t *testing.T) {
	q := &QueryBuilder[row]{}
	calls := 0

	err := q.write(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("write tcp 10.0.0.2:5432: connection reset by peer")
	})

	if err == nil {
		t.Fatal("expected the connection error")
	}
	if calls != 1 {
		t.Fatalf("write ran %d times, want 1", calls)
	}
}

func TestReadsRetryTransientFailures(t *testing.T) {
	q := &QueryBuilder[row]{}
	calls := 0

	err := q.read(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "57P03"}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if calls != 3 {
		t.Fatalf("read ran %d times, want 3", calls)
	}
}

func TestReadsInsideTransactionRunOnce(t *testing.T) {
	q := &QueryBuilder[row]{inTx: true}
	calls := 0

	_ = q.read(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("unexpected EOF")
	})

	if calls != 1 {
		t.Fatalf("read ran %d times, want 1", calls)
	}
}

func TestBuilderTimeoutReachesOperation(t *testing.T) {
	q := &QueryBuilder[row]{timeout: time.Minute}

	_ = q.write(context.Background(), func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatal("operation context has no deadline")
		}
		return nil
	})
}

func TestRetryPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy retryPolicy
		err    error
		want   int
	}{
		{"read: connection refused", readPolicy, errors.New("dial tcp: connection refused"), 3},
		{"read: connection class", readPolicy, &pgconn.PgError{Code: "08006"}, 3},
		{"read: wrapped", readPolicy, fmt.Errorf("select: %w", &pgconn.PgError{Code: "53300"}), 3},
		{"read: unique violation", readPolicy, &pgconn.PgError{Code: "23505"}, 1},
		{"read: syntax error", readPolicy, &pgconn.PgError{Code: "42601"}, 1},
		{"read: deadline", readPolicy, context.DeadlineExceeded, 1},
		{"tx: serialization failure", txConflictPolicy, &pgconn.PgError{Code: "40001"}, 3},
		{"tx: deadlock", txConflictPolicy, &pgconn.PgError{Code: "40P01"}, 3},
		{"tx: exclusion violation", txConflictPolicy, &pgconn.PgError{Code: "23P01"}, 1},
		{"tx: connection reset", txConflictPolicy, errors.New("connection reset by peer"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.policy
			p.delay, p.maxDelay = time.Millisecond, time.Millisecond

			calls := 0
			err := retry(context.Background(), p, func() error {
				calls++
				return tt.err
			})

			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if calls != tt.want {
				t.Fatalf("ran %d times, want %d", calls, tt.want)
			}
		})
	}
}

func TestRetryStopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := readPolicy
	p.delay = time.Hour

	calls := 0
	err := retry(ctx, p, func() error {
		calls++
		cancel()
		return errors.New("broken pipe")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Fatalf("ran %d times, want 1", calls)
	}
}
