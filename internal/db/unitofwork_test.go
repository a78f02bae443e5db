package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ts = "2026-01-05T09:00:00Z"

func appendMessage(ctx context.Context, tx DBTX, id, author, text string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO chat_history (id, session_id, author, text, created_at) VALUES (?, 's1', ?, ?, ?)`,
		id, author, text, ts)
	return err
}

func setAttempts(ctx context.Context, tx DBTX, n int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO dialogue_sessions (session_id, clarification_attempts, updated_at) VALUES ('s1', ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET clarification_attempts = excluded.clarification_attempts`,
		n, ts)
	return err
}

func sessionState(t *testing.T, database *sql.DB) (messages, attempts int) {
	t.Helper()
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM chat_history WHERE session_id = 's1'`).Scan(&messages))
	err := database.QueryRow(
		`SELECT clarification_attempts FROM dialogue_sessions WHERE session_id = 's1'`).Scan(&attempts)
	if !errors.Is(err, sql.ErrNoRows) {
		require.NoError(t, err)
	}
	return messages, attempts
}

func TestWithinTx_CommitsWholeTurn(t *testing.T) {
	database := openTestDB(t)
	uow := NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := appendMessage(ctx, tx, "m1", "user", "status"); err != nil {
			return err
		}
		if err := appendMessage(ctx, tx, "m2", "assistant", "Which phase?"); err != nil {
			return err
		}
		return setAttempts(ctx, tx, 1)
	})
	require.NoError(t, err)

	messages, attempts := sessionState(t, database)
	assert.Equal(t, 2, messages)
	assert.Equal(t, 1, attempts)
}

func TestWithinTx_SeesOwnWrites(t *testing.T) {
	uow := NewSQLiteUnitOfWork(openTestDB(t))

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		require.NoError(t, appendMessage(ctx, tx, "m1", "user", "hello"))
		var n int
		require.NoError(t, tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_history`).Scan(&n))
		assert.Equal(t, 1, n)
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database := openTestDB(t)
	uow := NewSQLiteUnitOfWork(database)
	ctx := context.Background()
	require.NoError(t, uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		return setAttempts(ctx, tx, 2)
	}))

	boom := errors.New("assistant message rejected")
	err := uow.WithinTx(ctx, func(ctx context.Context, tx DBTX) error {
		if err := appendMessage(ctx, tx, "m1", "user", "status"); err != nil {
			return err
		}
		if err := setAttempts(ctx, tx, 0); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	messages, attempts := sessionState(t, database)
	assert.Zero(t, messages, "the user message is not kept without its reply")
	assert.Equal(t, 2, attempts, "the counter keeps its committed value")
}

func TestWithinTx_ConstraintViolationRollsBack(t *testing.T) {
	database := openTestDB(t)
	uow := NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		if err := appendMessage(ctx, tx, "m1", "user", "status"); err != nil {
			return err
		}
		return appendMessage(ctx, tx, "m2", "system", "not an author")
	})
	require.Error(t, err)

	messages, _ := sessionState(t, database)
	assert.Zero(t, messages)
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database := openTestDB(t)
	uow := NewSQLiteUnitOfWork(database)

	assert.PanicsWithValue(t, "renderer crashed", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
			_ = appendMessage(ctx, tx, "m1", "user", "status")
			panic("renderer crashed")
		})
	})

	messages, _ := sessionState(t, database)
	assert.Zero(t, messages)

	// The single in-memory connection is free again.
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		return appendMessage(ctx, tx, "m2", "user", "again")
	}))
}
