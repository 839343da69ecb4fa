package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConflict indica que una restriccion de unicidad rechazo la escritura.
	ErrConflict = errors.New("unique constraint violation")
	// ErrIdentityMismatch indica que el email ya esta vinculado a otra identidad externa.
	ErrIdentityMismatch = errors.New("email linked to a different identity")
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
