package postgres

import (
	"errors"
	"strings"

	"cineops/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	ErrConflictCode   = "23505"
	ErrForeignKeyCode = "23503"
	ErrNotNullCode    = "23502"
	ErrCheckCode      = "23514"
	dataExceptionCls  = "22"
)

// MapError translates driver errors into storage sentinels. Errors it does not
// recognise are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind error
	switch {
	case pgErr.Code == ErrConflictCode:
		kind = storage.ErrConflict
	case pgErr.Code == ErrForeignKeyCode:
		kind = storage.ErrForeignKey
	case pgErr.Code == ErrNotNullCode, pgErr.Code == ErrCheckCode, strings.HasPrefix(pgErr.Code, dataExceptionCls):
		kind = storage.ErrInvalidValue
	default:
		return err
	}
	return &storage.ConstraintError{
		Kind:       kind,
		Table:      pgErr.TableName,
		Constraint: pgErr.ConstraintName,
		Err:        err,
	}
}
