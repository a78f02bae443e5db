package db

import (
	"context"
	"database/sql"
)

// DBTX is the handle repositories query through. A plain *sql.DB serves
// reads and single writes; the *sql.Tx handed out by a UnitOfWork serves a
// chat turn or a session clear that must land together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
