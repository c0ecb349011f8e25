package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"cabinet/internal/domain/repositories"
)

// executor is implemented by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txContextKey struct{}

func (s *DB) executor(ctx context.Context) executor {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// TransactionManager returns a manager whose transactions the repositories
// of this DB join through the context.
func (s *DB) TransactionManager() repositories.TransactionManager {
	return &transactionManager{db: s.db}
}

type transactionManager struct {
	db *sql.DB
}

// ExecTx executes fn within a transaction. Nested calls join the outer one.
func (tm *transactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if _, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
