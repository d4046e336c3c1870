package postgres

import (
	"errors"
	"fmt"
	"testing"

	"cineops/proj/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       error
		constraint string
	}{
		{name: "unique", err: &pgconn.PgError{Code: "23505", ConstraintName: "uq_reviews_user_movie", TableName: "reviews"}, kind: storage.ErrConflict, constraint: "uq_reviews_user_movie"},
		{name: "foreign key", err: &pgconn.PgError{Code: "23503", ConstraintName: "fk_reviews_movie_id"}, kind: storage.ErrForeignKey, constraint: "fk_reviews_movie_id"},
		{name: "invalid enum input", err: &pgconn.PgError{Code: "22P02"}, kind: storage.ErrInvalidValue},
		{name: "string too long", err: &pgconn.PgError{Code: "22001"}, kind: storage.ErrInvalidValue},
		{name: "not null", err: &pgconn.PgError{Code: "23502"}, kind: storage.ErrInvalidValue},
		{name: "wrapped", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), kind: storage.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapError(tt.err)
			assert.ErrorIs(t, err, tt.kind)
			var pgErr *pgconn.PgError
			assert.True(t, errors.As(err, &pgErr))
			if tt.constraint != "" {
				assert.True(t, storage.IsConstraint(err, tt.constraint))
			}
		})
	}

	t.Run("no rows", func(t *testing.T) {
		assert.ErrorIs(t, MapError(pgx.ErrNoRows), storage.ErrNotFound)
	})
	t.Run("passthrough", func(t *testing.T) {
		other := errors.New("network")
		assert.Equal(t, other, MapError(other))
		serialization := &pgconn.PgError{Code: "40001"}
		assert.Equal(t, error(serialization), MapError(serialization))
	})
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})
}
