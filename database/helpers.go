package database

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/uptrace/bun"
)

// Transaction executes fn inside a read-committed transaction. Serialization failures
// and deadlocks restart the whole transaction.
func Transaction(ctx context.Context, db *DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	return retry(ctx, txConflictPolicy, func() error {
		return db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
	})
}

// AdvisoryXactLock takes a transaction-scoped advisory lock on (namespace, key).
// The lock is released on commit or rollback.
func AdvisoryXactLock(ctx context.Context, tx bun.Tx, namespace string, key int64) error {
	_, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(?)", advisoryKey(namespace, key))
	if err != nil {
		return fmt.Errorf("failed to acquire advisory lock %s/%d: %w", namespace, key, err)
	}
	return nil
}

// advisoryKey folds the namespace and the full 64-bit key into one bigint lock id.
// Two pairs can collide, which only makes them wait on each other.
func advisoryKey(namespace string, key int64) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))
	_ = binary.Write(h, binary.BigEndian, key)
	return int64(h.Sum64())
}

// Pagination represents pagination parameters
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// PaginationResult wraps paginated data with metadata
type PaginationResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate applies pagination to a query builder and returns results with metadata
func Paginate[T any](q *QueryBuilder[T], ctx context.Context, page, limit int) (*PaginationResult[T], error) {
	page, limit = NormalizePage(page, limit)

	// Get total count
	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	// Get paginated data
	data, err := q.Limit(limit).Offset((page - 1) * limit).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paginated data: %w", err)
	}

	return &PaginationResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	}, nil
}

// NormalizePage clamps page to >= 1 and limit to 1..100, defaulting to 20
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100 // Max page size
	}
	return page, limit
}

// FindByID is a helper to find a record by ID
func FindByID[T any](db bun.IDB, ctx context.Context, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// Create is a helper to insert a single record
func Create[T any](db bun.IDB, ctx context.Context, data *T) (*T, error) {
	return Query[T](db).Insert(ctx, data)
}

// UpdateByID is a helper to update a record by ID
func UpdateByID[T any](db bun.IDB, ctx context.Context, id any, data map[string]any) (int, error) {
	return Query[T](db).Where("id", id).Update(ctx, data)
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](db bun.IDB, ctx context.Context, id any) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}
