package postgres

import (
	"context"
	"restoran_server/database"
	"restoran_server/lib"
	"restoran_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, u *tables.AuthUser) (*tables.AuthUser, error) {
	return database.Query[tables.AuthUser](s.db).Timeout(queryTimeout).Insert(ctx, u)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*tables.AuthUser, error) {
	return notFound(database.Query[tables.AuthUser](s.db).
		Timeout(queryTimeout).
		WhereRaw("LOWER(au.email) = LOWER(?)", email).
		First(ctx))
}

func (s *Store) GetUserById(ctx context.Context, id uuid.UUID) (*tables.AuthUser, error) {
	return notFound(database.FindByID[tables.AuthUser](s.db, ctx, id))
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return s.updateUser(ctx, id, map[string]any{"password_hash": hash})
}

func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateUser(ctx, id, map[string]any{"last_login": at})
}

func (s *Store) updateUser(ctx context.Context, id uuid.UUID, data map[string]any) error {
	n, err := database.UpdateByID[tables.AuthUser](s.db, ctx, id, data)
	if err != nil {
		return err
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (s *Store) UpsertProfile(ctx context.Context, p *tables.Profile) (*tables.Profile, error) {
	row := *p

	_, err := s.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("full_name = EXCLUDED.full_name").
		Set("phone = EXCLUDED.phone").
		Set("updated_at = CURRENT_TIMESTAMP").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return &row, nil
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*tables.Profile, error) {
	return notFound(database.FindByID[tables.Profile](s.db, ctx, id))
}

func (s *Store) CreatePasswordReset(ctx context.Context, r *tables.PasswordReset) error {
	_, err := database.Create(s.db, ctx, r)
	return err
}

func (s *Store) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (*tables.PasswordReset, error) {
	rows, err := database.Query[tables.PasswordReset](s.db).
		Timeout(queryTimeout).
		Where("token_hash", tokenHash).
		WhereNull("used_at").
		WhereOp("expires_at", ">", now).
		UpdateReturning(ctx, map[string]any{"used_at": now})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, lib.ErrInvalidToken
	}
	return &rows[0], nil
}
