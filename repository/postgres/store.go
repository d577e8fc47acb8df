// Package postgres implements repository.Store on PostgreSQL through bun.
package postgres

import (
	"context"
	"database/sql"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/repository"
	"time"

	"github.com/MonkyMars/gecho"
)

const queryTimeout = 10 * time.Second

type Store struct {
	db     *database.DB
	logger *gecho.Logger
}

var _ repository.Store = (*Store)(nil)

func New(db *database.DB, logger *gecho.Logger) *Store {
	return &Store{db: db, logger: logger}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) PoolStats() sql.DBStats {
	return s.db.GetStats()
}

func (s *Store) Driver() string {
	return "postgres"
}

// notFound turns a nil First() result into lib.ErrNotFound.
func notFound[T any](row *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, lib.ErrNotFound
	}
	return row, nil
}
