// Package migrations applies the cineops schema with goose. Each migration runs in its
// own transaction and advances the goose version table by one step.
package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"cineops/proj/internal/schema"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const VersionCreateSchema int64 = 1

// Migrator wraps a goose provider bound to the shared pool.
type Migrator struct {
	log      *slog.Logger
	db       *sql.DB
	provider *goose.Provider
}

type Status struct {
	Version int64
	Name    string
	Applied bool
}

func New(pool *pgxpool.Pool, log *slog.Logger) (*Migrator, error) {
	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider(goose.DialectPostgres, db, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(createSchema(schema.CineOps())),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return &Migrator{
		log:      log.With("component", "migrations"),
		db:       db,
		provider: provider,
	}, nil
}

// createSchema is version 1: both enum types and all seven tables.
func createSchema(s schema.Schema) *goose.Migration {
	return goose.NewGoMigration(
		VersionCreateSchema,
		&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
			stmts, err := s.Upgrade()
			if err != nil {
				return err
			}
			return execAll(ctx, tx, stmts)
		}},
		&goose.GoFunc{RunTx: func(ctx context.Context, tx *sql.Tx) error {
			stmts, err := s.Downgrade()
			if err != nil {
				return err
			}
			return execAll(ctx, tx, stmts)
		}},
	)
}

func execAll(ctx context.Context, tx *sql.Tx, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	const op = "migrations.Migrator.Up"
	log := m.log.With("op", op)
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(log, r)
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	if len(results) == 0 {
		log.Info("schema is up to date")
	}
	return nil
}

// Down reverts the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	const op = "migrations.Migrator.Down"
	log := m.log.With("op", op)
	result, err := m.provider.Down(ctx)
	if result != nil {
		m.logResult(log, result)
	}
	if err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			log.Info("no migrations to revert")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Reset reverts every applied migration.
func (m *Migrator) Reset(ctx context.Context) error {
	const op = "migrations.Migrator.Reset"
	log := m.log.With("op", op)
	results, err := m.provider.DownTo(ctx, 0)
	for _, r := range results {
		m.logResult(log, r)
	}
	if err != nil {
		return fmt.Errorf("migrate reset: %w", err)
	}
	return nil
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("read migration status: %w", err)
	}
	out := make([]Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Status{
			Version: s.Source.Version,
			Name:    migrationName(s.Source.Version),
			Applied: s.State == goose.StateApplied,
		})
	}
	return out, nil
}

// Close releases the database/sql bridge opened over the pool.
func (m *Migrator) Close() error {
	return m.provider.Close()
}

func (m *Migrator) logResult(log *slog.Logger, r *goose.MigrationResult) {
	if r.Error != nil {
		log.Error("migration failed", "version", r.Source.Version, "direction", r.Direction, "err", r.Error)
		return
	}
	log.Info("migration applied",
		"version", r.Source.Version,
		"name", migrationName(r.Source.Version),
		"direction", r.Direction,
		"duration", r.Duration,
	)
}

func migrationName(version int64) string {
	switch version {
	case VersionCreateSchema:
		return "create_cineops_schema"
	}
	return ""
}
