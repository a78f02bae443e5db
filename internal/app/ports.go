package app

import (
	"context"

	"github.com/alexanderramin/sophia/internal/domain"
)

type ChatUseCase interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*ChatReply, error)
	History(ctx context.Context, sessionID string) ([]HistoryEntry, error)
	Clear(ctx context.Context, sessionID string) error
}

type FeedbackUseCase interface {
	SubmitFeedback(ctx context.Context, req FeedbackRequest) (*domain.Feedback, error)
}

type AnalyticsUseCase interface {
	Summary(ctx context.Context, req SummaryRequest) (*SummaryResponse, error)
	Gaps(ctx context.Context, req GapsRequest) ([]*domain.KnowledgeGap, error)
}

type ProgressUseCase interface {
	GetProgress(ctx context.Context, req ProgressRequest) (*ProgressView, error)
	MarkStepComplete(ctx context.Context, req ProgressRequest) (*ProgressView, error)
	ResetProgress(ctx context.Context, req ProgressRequest) (*ProgressView, error)
}
