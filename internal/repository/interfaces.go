package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/domain"
)

// HistoryLimit is the number of recent messages loaded as conversation
// history.
const HistoryLimit = 50

type ChatRepo interface {
	Append(ctx context.Context, m *domain.ChatMessage) error
	// ListRecent returns the newest limit messages of a session, oldest first.
	ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

// DialogueStateRepo persists the per-session clarification counter.
type DialogueStateRepo interface {
	dialogue.CounterStore
}

type AnalyticsRepo interface {
	LogQuestion(ctx context.Context, q *domain.QuestionLog) error
	GetQuestion(ctx context.Context, id string) (*domain.QuestionLog, error)
	AddFeedback(ctx context.Context, f *domain.Feedback) error
	// TrackGap records one occurrence of a question pattern.
	TrackGap(ctx context.Context, pattern string, responseLength int, at time.Time) error
	// ListGaps returns gaps still needing improvement, most frequent first.
	ListGaps(ctx context.Context, limit int) ([]*domain.KnowledgeGap, error)
	// DailySummary returns per-day counts for the last days days, newest first.
	DailySummary(ctx context.Context, days int) ([]domain.DailyAnalytics, error)
}

type ProgressRepo interface {
	Get(ctx context.Context, sessionID, processID string) (*domain.UserProgress, error)
	Upsert(ctx context.Context, p *domain.UserProgress) error
}
