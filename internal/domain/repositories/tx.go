package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TxFn is the unit of work passed to TransactionManager.ExecTx. Repository
// calls made with the ctx it receives join the transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs a unit of work atomically. Folder updates use it
// to hold the folder row from the read until the write commits.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn TxFn) error
}

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so Postgres
// repositories run unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

type pgxTxKey struct{}

// SetTx returns a context carrying tx.
func SetTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, pgxTxKey{}, tx)
}

// GetTx returns the transaction carried by ctx, or nil outside ExecTx.
func GetTx(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(pgxTxKey{}).(pgx.Tx)
	return tx
}
