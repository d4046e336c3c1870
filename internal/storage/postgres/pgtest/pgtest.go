// Package pgtest provisions isolated Postgres schemas for integration tests. Tests are
// skipped unless CINEOPS_TEST_DATABASE_URL points at a disposable database.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"cineops/proj/internal/schema"
	"cineops/proj/internal/storage/migrations"
	"cineops/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const EnvDatabaseURL = "CINEOPS_TEST_DATABASE_URL"

func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open recreates the named schema and returns storage whose connections use it as
// search_path, so packages running in parallel never see each other's tables.
func Open(t testing.TB, schemaName string) *postgres.Storage {
	t.Helper()
	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s is not set", EnvDatabaseURL)
	}
	ctx := context.Background()

	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	defer admin.Close(ctx)
	ident := pgx.Identifier{schemaName}.Sanitize()
	_, err = admin.Exec(ctx, "DROP SCHEMA IF EXISTS "+ident+" CASCADE")
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+ident)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schemaName
	st, err := postgres.NewWithConfig(ctx, Logger(), cfg)
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

// OpenMigrated is Open followed by applying every migration.
func OpenMigrated(t testing.TB, schemaName string) *postgres.Storage {
	t.Helper()
	st := Open(t, schemaName)
	m, err := migrations.New(st.Conn, Logger())
	require.NoError(t, err)
	defer m.Close()
	require.NoError(t, m.Up(context.Background()))
	return st
}

// Truncate empties every application table and restarts their id sequences.
func Truncate(t testing.TB, st *postgres.Storage) {
	t.Helper()
	names := schema.CineOps().TableNames()
	_, err := st.Conn.Exec(context.Background(),
		"TRUNCATE TABLE "+strings.Join(names, ", ")+" RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}
