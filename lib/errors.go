package lib

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Database errors
var (
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("not found")
	ErrOverlap          = errors.New("overlapping record")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Business rule errors, reported to the caller as 400
var (
	ErrNoTableAvailable  = errors.New("no available tables for the requested party size")
	ErrTableUnavailable  = errors.New("table is not available at the requested time")
	ErrTableTooSmall     = errors.New("table capacity is too small for the party size")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrItemUnavailable   = errors.New("menu item is not available")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// MapPgError translates PostgreSQL error codes into the sentinels above.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "23P01": // exclusion_violation
			return ErrOverlap
		case "23503": // foreign_key_violation
			return ErrInvalidReference
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsBusinessRule reports whether err is a caller-fixable rule violation.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrNoTableAvailable) ||
		errors.Is(err, ErrTableUnavailable) ||
		errors.Is(err, ErrTableTooSmall) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrItemUnavailable) ||
		errors.Is(err, ErrInvalidReference)
}
