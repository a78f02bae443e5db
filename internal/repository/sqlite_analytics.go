package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sophia/internal/db"
	"github.com/alexanderramin/sophia/internal/domain"
)

// SQLiteAnalyticsRepo implements AnalyticsRepo using a SQLite database.
type SQLiteAnalyticsRepo struct {
	db db.DBTX
}

// NewSQLiteAnalyticsRepo creates a new SQLiteAnalyticsRepo.
func NewSQLiteAnalyticsRepo(conn db.DBTX) *SQLiteAnalyticsRepo {
	return &SQLiteAnalyticsRepo{db: conn}
}

func (r *SQLiteAnalyticsRepo) LogQuestion(ctx context.Context, q *domain.QuestionLog) error {
	query := `INSERT INTO questions (id, session_id, question, response, used_remote, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		q.ID,
		q.SessionID,
		q.Question,
		q.Response,
		boolToInt(q.UsedRemote),
		q.Outcome,
		formatTime(q.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting question log: %w", err)
	}
	return nil
}

func (r *SQLiteAnalyticsRepo) GetQuestion(ctx context.Context, id string) (*domain.QuestionLog, error) {
	query := `SELECT id, session_id, question, response, used_remote, outcome, created_at
		FROM questions WHERE id = ?`
	var (
		q          domain.QuestionLog
		usedRemote int
		createdStr string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.SessionID, &q.Question, &q.Response, &usedRemote, &q.Outcome, &createdStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("question: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning question: %w", err)
	}
	q.UsedRemote = intToBool(usedRemote)
	if q.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &q, nil
}

func (r *SQLiteAnalyticsRepo) AddFeedback(ctx context.Context, f *domain.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO feedback (id, question_id, type, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.QuestionID,
		string(f.Type),
		f.Comment,
		formatTime(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// TrackGap inserts the pattern or bumps its frequency, keeping a running
// average of the response lengths seen for it.
func (r *SQLiteAnalyticsRepo) TrackGap(ctx context.Context, pattern string, responseLength int, at time.Time) error {
	ts := formatTime(at)
	query := `INSERT INTO knowledge_gaps (id, pattern, frequency, avg_response_length, needs_improvement,
		last_asked, created_at, updated_at)
		VALUES (?, ?, 1, ?, 1, ?, ?, ?)
		ON CONFLICT(pattern) DO UPDATE
		SET avg_response_length = (knowledge_gaps.avg_response_length * knowledge_gaps.frequency + excluded.avg_response_length)
		                          / (knowledge_gaps.frequency + 1),
		    frequency = knowledge_gaps.frequency + 1,
		    last_asked = excluded.last_asked,
		    updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), pattern, float64(responseLength), ts, ts, ts)
	if err != nil {
		return fmt.Errorf("tracking knowledge gap: %w", err)
	}
	return nil
}

func (r *SQLiteAnalyticsRepo) ListGaps(ctx context.Context, limit int) ([]*domain.KnowledgeGap, error) {
	query := `SELECT id, pattern, frequency, avg_response_length, needs_improvement,
		last_asked, created_at, updated_at
		FROM knowledge_gaps
		WHERE needs_improvement = 1
		ORDER BY frequency DESC, last_asked DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing knowledge gaps: %w", err)
	}
	defer rows.Close()

	var gaps []*domain.KnowledgeGap
	for rows.Next() {
		var (
			g                            domain.KnowledgeGap
			needs                        int
			lastStr, createdStr, updated string
		)
		if err := rows.Scan(&g.ID, &g.Pattern, &g.Frequency, &g.AvgResponseLength, &needs,
			&lastStr, &createdStr, &updated); err != nil {
			return nil, fmt.Errorf("scanning knowledge gap: %w", err)
		}
		g.NeedsImprovement = intToBool(needs)
		if g.LastAsked, err = parseTime(lastStr); err != nil {
			return nil, fmt.Errorf("parsing last_asked: %w", err)
		}
		if g.CreatedAt, err = parseTime(createdStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if g.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		gaps = append(gaps, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating knowledge gaps: %w", err)
	}
	return gaps, nil
}

// DailySummary aggregates questions and feedback by UTC day. Days without
// questions or feedback are omitted.
func (r *SQLiteAnalyticsRepo) DailySummary(ctx context.Context, days int) ([]domain.DailyAnalytics, error) {
	query := `WITH q AS (
			SELECT substr(created_at, 1, 10) AS day,
			       COUNT(*) AS questions,
			       SUM(used_remote) AS remote
			FROM questions
			WHERE created_at >= date('now', ? || ' days')
			GROUP BY day
		), f AS (
			SELECT substr(created_at, 1, 10) AS day,
			       SUM(type = 'thumbs_up') AS up,
			       SUM(type = 'thumbs_down') AS down,
			       SUM(type = 'report_issue') AS reports
			FROM feedback
			WHERE created_at >= date('now', ? || ' days')
			GROUP BY day
		), d AS (
			SELECT day FROM q UNION SELECT day FROM f
		)
		SELECT d.day,
		       COALESCE(q.questions, 0), COALESCE(q.remote, 0),
		       COALESCE(f.up, 0), COALESCE(f.down, 0), COALESCE(f.reports, 0)
		FROM d
		LEFT JOIN q ON q.day = d.day
		LEFT JOIN f ON f.day = d.day
		ORDER BY d.day DESC`
	window := fmt.Sprintf("-%d", days)
	rows, err := r.db.QueryContext(ctx, query, window, window)
	if err != nil {
		return nil, fmt.Errorf("summarizing analytics: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyAnalytics
	for rows.Next() {
		var d domain.DailyAnalytics
		if err := rows.Scan(&d.Date, &d.Questions, &d.RemoteAnswered, &d.ThumbsUp, &d.ThumbsDown, &d.Reports); err != nil {
			return nil, fmt.Errorf("scanning analytics row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analytics: %w", err)
	}
	return out, nil
}
