package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexanderramin/sophia/internal/db"
	"github.com/alexanderramin/sophia/internal/domain"
)

// SQLiteChatRepo implements ChatRepo using a SQLite database.
type SQLiteChatRepo struct {
	db db.DBTX
}

// NewSQLiteChatRepo creates a new SQLiteChatRepo.
func NewSQLiteChatRepo(conn db.DBTX) *SQLiteChatRepo {
	return &SQLiteChatRepo{db: conn}
}

func (r *SQLiteChatRepo) Append(ctx context.Context, m *domain.ChatMessage) error {
	if err := m.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO chat_history (id, session_id, author, text, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SessionID,
		string(m.Author),
		m.Text,
		formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

func (r *SQLiteChatRepo) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	query := `SELECT id, session_id, author, text, created_at
		FROM chat_history WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing chat history: %w", err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var (
			m          domain.ChatMessage
			author     string
			createdStr string
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &author, &m.Text, &createdStr); err != nil {
			return nil, fmt.Errorf("scanning chat row: %w", err)
		}
		m.Author = domain.Author(author)
		if m.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chat history: %w", err)
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (r *SQLiteChatRepo) DeleteBySession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM chat_history WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("deleting chat history: %w", err)
	}
	return nil
}
