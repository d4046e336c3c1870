package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
)

type txKey struct{}

type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// InTransaction reports whether ctx carries an open unit of work.
func InTransaction(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

// RunInTransaction executes fn within a single database transaction. The transaction is
// committed when fn returns nil and rolled back when fn returns an error or panics; the
// connection goes back to the pool on every path. Calls nested inside fn join the outer
// transaction.
func (s *Storage) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, s.Conn, s.log, fn)
}

func runInTx(ctx context.Context, starter txStarter, log *slog.Logger, fn func(ctx context.Context) error) (err error) {
	const op = "postgres.RunInTransaction"
	if InTransaction(ctx) {
		return fn(ctx)
	}
	tx, err := starter.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			rollback(tx, log.With("op", op))
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := rollback(tx, log.With("op", op)); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback uses a fresh context so a cancelled caller context cannot leave the
// transaction open.
func rollback(tx pgx.Tx, log *slog.Logger) error {
	err := tx.Rollback(context.Background())
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Error("rollback failed", "err", err)
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
