// Package dbx provides the small database abstractions shared by the local
// repositories: a handle interface satisfied by both *sql.DB and *sql.Tx, and
// a transaction helper that makes the open transaction visible to repository
// calls through the context.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Conn returns the transaction stored in ctx by WithTx, or fallback when ctx
// carries none.
func Conn(ctx context.Context, fallback DBTX) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return fallback
}

// WithTx begins a transaction and runs fn with it. The transaction is also
// stored in the context passed to fn, so repositories that resolve their
// handle through Conn join it. It commits when fn returns nil and rolls back
// on error or panic; panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return repo.Set(ctx, "k", v) // runs inside tx
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(context.WithValue(ctx, txKey{}, tx), tx)
}
