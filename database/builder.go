package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db bun.IDB

	// Query clauses
	wheres    []*WhereClause
	orders    []*OrderClause
	limitVal  *int
	offsetVal *int

	// Relations to preload
	relations []string

	// Options
	inTx bool

	// Timeout
	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// Query creates a new QueryBuilder against a pool or an open transaction
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	_, inTx := db.(bun.Tx)
	return &QueryBuilder[T]{
		db:   db,
		inTx: inTx,
	}
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereIn adds a WHERE IN condition
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  column + " IN (?)",
		RawArgs: []any{bun.In(values)},
	})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IS NULL",
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: string(direction),
	})
	return q
}

// Limit sets the maximum number of rows
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the number of rows to skip
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// With preloads a bun relation by its struct field name
func (q *QueryBuilder[T]) With(relation string) *QueryBuilder[T] {
	q.relations = append(q.relations, relation)
	return q
}

// Timeout bounds every statement the builder runs
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (w *WhereClause) condition() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}
	if w.Operator == "IS NULL" || w.Operator == "IS NOT NULL" {
		return fmt.Sprintf("%s %s", w.Column, w.Operator), nil
	}
	return fmt.Sprintf("%s %s ?", w.Column, w.Operator), []any{w.Value}
}

// whereTarget is satisfied by bun's select, update and delete queries
type whereTarget[Q any] interface {
	Where(query string, args ...any) Q
}

func applyWheres[Q whereTarget[Q]](query Q, wheres []*WhereClause) Q {
	for _, w := range wheres {
		cond, args := w.condition()
		query = query.Where(cond, args...)
	}
	return query
}

// buildBunQuery translates the builder state into a bun SelectQuery bound to model
func (q *QueryBuilder[T]) buildBunQuery(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	for _, rel := range q.relations {
		query = query.Relation(rel)
	}

	query = applyWheres(query, q.wheres)

	for _, o := range q.orders {
		query = query.OrderExpr(o.Column + " " + strings.ToUpper(o.Direction))
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}
