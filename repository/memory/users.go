package memory

import (
	"context"
	"restoran_server/lib"
	"restoran_server/structs/tables"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, u *tables.AuthUser) (*tables.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, lib.ErrConflict
		}
	}

	row := *u
	if row.Id == uuid.Nil {
		row.Id = uuid.New()
	}
	if row.Role == "" {
		row.Role = "customer"
	}
	row.CreatedAt = time.Now()
	s.users[row.Id] = row
	return &row, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*tables.AuthUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (s *Store) GetUserById(ctx context.Context, id uuid.UUID) (*tables.AuthUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &u, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return lib.ErrNotFound
	}
	u.PasswordHash = hash
	s.users[id] = u
	return nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return lib.ErrNotFound
	}
	u.LastLogin = &at
	s.users[id] = u
	return nil
}

func (s *Store) UpsertProfile(ctx context.Context, p *tables.Profile) (*tables.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.Id]; !ok {
		return nil, lib.ErrInvalidReference
	}

	row := *p
	row.UpdatedAt = time.Now()
	s.profiles[row.Id] = row
	return &row, nil
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*tables.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return &p, nil
}

func (s *Store) CreatePasswordReset(ctx context.Context, r *tables.PasswordReset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[r.UserId]; !ok {
		return lib.ErrInvalidReference
	}

	row := *r
	row.CreatedAt = time.Now()
	s.resets[row.TokenHash] = row
	return nil
}

func (s *Store) ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time) (*tables.PasswordReset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resets[tokenHash]
	if !ok || r.UsedAt != nil || !now.Before(r.ExpiresAt) {
		return nil, lib.ErrInvalidToken
	}
	r.UsedAt = &now
	s.resets[tokenHash] = r
	return &r, nil
}
