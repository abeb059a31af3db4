package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database handle the Postgres stores execute
// against. Both *sql.DB and *sql.Tx satisfy it, so a store can run
// standalone or inside a caller-managed transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
