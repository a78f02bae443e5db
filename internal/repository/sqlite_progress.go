package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/sophia/internal/db"
	"github.com/alexanderramin/sophia/internal/domain"
)

// SQLiteProgressRepo implements ProgressRepo using a SQLite database.
type SQLiteProgressRepo struct {
	db db.DBTX
}

// NewSQLiteProgressRepo creates a new SQLiteProgressRepo.
func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

func (r *SQLiteProgressRepo) Get(ctx context.Context, sessionID, processID string) (*domain.UserProgress, error) {
	query := `SELECT id, session_id, process_id, current_step, completed_steps, notes, created_at, updated_at
		FROM user_progress WHERE session_id = ? AND process_id = ?`
	var (
		p                      domain.UserProgress
		completed              string
		createdStr, updatedStr string
	)
	err := r.db.QueryRowContext(ctx, query, sessionID, processID).Scan(
		&p.ID, &p.SessionID, &p.ProcessID, &p.CurrentStep, &completed, &p.Notes, &createdStr, &updatedStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user progress: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user progress: %w", err)
	}
	if err := json.Unmarshal([]byte(completed), &p.CompletedSteps); err != nil {
		return nil, fmt.Errorf("decoding completed_steps: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &p, nil
}

// Upsert writes p keyed by (session_id, process_id); the stored id of an
// existing row is kept.
func (r *SQLiteProgressRepo) Upsert(ctx context.Context, p *domain.UserProgress) error {
	steps := p.CompletedSteps
	if steps == nil {
		steps = []int{}
	}
	completed, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encoding completed_steps: %w", err)
	}
	query := `INSERT INTO user_progress (id, session_id, process_id, current_step, completed_steps, notes,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, process_id) DO UPDATE
		SET current_step = excluded.current_step,
		    completed_steps = excluded.completed_steps,
		    notes = excluded.notes,
		    updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.SessionID,
		p.ProcessID,
		p.CurrentStep,
		string(completed),
		p.Notes,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting user progress: %w", err)
	}
	return nil
}
