package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"restoran_server/lib"
	"time"

	"github.com/uptrace/bun"
)

// read applies the builder timeout and repeats selects that hit a transient
// connection failure. Statements inside a transaction run once since a failure
// aborts the transaction.
func (q *QueryBuilder[T]) read(ctx context.Context, op func(ctx context.Context) error) error {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if q.inTx {
		return op(ctx)
	}
	return retry(ctx, readPolicy, func() error { return op(ctx) })
}

// write applies the builder timeout and runs op exactly once. A write that lost
// its connection may already be committed, so it is never repeated.
func (q *QueryBuilder[T]) write(ctx context.Context, op func(ctx context.Context) error) error {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	return op(ctx)
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	err := q.read(ctx, func(ctx context.Context) error {
		data = nil // Reset on retry
		return q.buildBunQuery(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First executes the query and returns the first matching record, or nil when none match
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	err := q.read(ctx, func(ctx context.Context) error {
		return q.buildBunQuery(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return &data, nil
}

// Count executes the query and returns the count of matching records with automatic retry
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var count int

	err := q.read(ctx, func(ctx context.Context) error {
		var model T
		var err error
		// Count ignores ORDER BY, LIMIT and OFFSET
		count, err = q.buildBunQuery(&model).Count(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert inserts a new record and returns it with database defaults filled in
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	err := q.write(ctx, func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records in one statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	start := time.Now()

	if len(data) == 0 {
		return data, nil
	}

	err := q.write(ctx, func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return data, nil
}

// Update sets the given columns on matching records and returns the number of rows affected
func (q *QueryBuilder[T]) Update(ctx context.Context, data map[string]any) (int, error) {
	start := time.Now()
	var rowsAffected int64

	err := q.write(ctx, func(ctx context.Context) error {
		res, err := q.updateQuery(data).Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return int(rowsAffected), nil
}

// UpdateReturning updates records and returns them
func (q *QueryBuilder[T]) UpdateReturning(ctx context.Context, data map[string]any) ([]T, error) {
	start := time.Now()
	var results []T

	err := q.write(ctx, func(ctx context.Context) error {
		_, err := q.updateQuery(data).Returning("*").Exec(ctx, &results)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute update query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return results, nil
}

// Delete deletes records matching the query
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	var rowsAffected int64

	err := q.write(ctx, func(ctx context.Context) error {
		var model T
		query := applyWheres(q.db.NewDelete().Model(&model), q.wheres)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", lib.MapPgError(err), time.Since(start))
	}

	return int(rowsAffected), nil
}

func (q *QueryBuilder[T]) updateQuery(data map[string]any) *bun.UpdateQuery {
	var model T
	query := q.db.NewUpdate().Model(&model)

	for key, value := range data {
		query = query.Set("? = ?", bun.Ident(key), value)
	}

	return applyWheres(query, q.wheres)
}
