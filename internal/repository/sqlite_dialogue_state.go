package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sophia/internal/db"
	"github.com/alexanderramin/sophia/internal/dialogue"
)

// SQLiteDialogueStateRepo stores clarification counters in
// dialogue_sessions so separate processes share a session's state.
type SQLiteDialogueStateRepo struct {
	db db.DBTX
}

var _ dialogue.CounterStore = (*SQLiteDialogueStateRepo)(nil)

func NewSQLiteDialogueStateRepo(conn db.DBTX) *SQLiteDialogueStateRepo {
	return &SQLiteDialogueStateRepo{db: conn}
}

// Attempts returns 0 for sessions without a stored counter.
func (r *SQLiteDialogueStateRepo) Attempts(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT clarification_attempts FROM dialogue_sessions WHERE session_id = ?`, sessionID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading dialogue state: %w", err)
	}
	return n, nil
}

func (r *SQLiteDialogueStateRepo) SetAttempts(ctx context.Context, sessionID string, n int) error {
	if n < 0 {
		return fmt.Errorf("dialogue state: negative attempts %d", n)
	}
	query := `INSERT INTO dialogue_sessions (session_id, clarification_attempts, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE
		SET clarification_attempts = excluded.clarification_attempts,
		    updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, sessionID, n, formatTime(time.Now())); err != nil {
		return fmt.Errorf("writing dialogue state: %w", err)
	}
	return nil
}
