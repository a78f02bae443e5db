package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TxFunc does the grouped writes. Repositories built on tx share the
// transaction.
type TxFunc func(ctx context.Context, tx DBTX) error

// UnitOfWork groups writes that must be stored together, such as the two
// messages of a chat turn, or a history delete and its counter reset.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SQLiteUnitOfWork opens one transaction per WithinTx call.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise. A panic in
// fn rolls back before it propagates.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	settled := false
	defer func() {
		if !settled {
			_ = tx.Rollback()
		}
	}()

	if err := fn(ctx, tx); err != nil {
		settled = true
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	settled = true
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
