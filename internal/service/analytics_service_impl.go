package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sophia/internal/app"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/repository"
)

type analyticsService struct {
	analytics repository.AnalyticsRepo
	observer  UseCaseObserver
}

func NewAnalyticsService(analytics repository.AnalyticsRepo, observers ...UseCaseObserver) AnalyticsService {
	return &analyticsService{
		analytics: analytics,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *analyticsService) SubmitFeedback(ctx context.Context, req app.FeedbackRequest) (fb *domain.Feedback, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, UseCaseSubmitFeedback, start, err, map[string]any{
			"question_id": req.QuestionID,
			"type":        string(req.Type),
		})
	}()

	fb = &domain.Feedback{
		ID:         uuid.New().String(),
		QuestionID: req.QuestionID,
		Type:       req.Type,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	if err := fb.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedback, err)
	}
	if _, err := s.analytics.GetQuestion(ctx, req.QuestionID); err != nil {
		return nil, err
	}
	if err := s.analytics.AddFeedback(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *analyticsService) Summary(ctx context.Context, req app.SummaryRequest) (*app.SummaryResponse, error) {
	days := req.Days
	if days <= 0 {
		days = app.DefaultSummaryDays
	}
	daily, err := s.analytics.DailySummary(ctx, days)
	if err != nil {
		return nil, err
	}

	resp := &app.SummaryResponse{Days: days, Daily: daily}
	for _, d := range daily {
		resp.Totals.Questions += d.Questions
		resp.Totals.RemoteAnswered += d.RemoteAnswered
		resp.Totals.ThumbsUp += d.ThumbsUp
		resp.Totals.ThumbsDown += d.ThumbsDown
		resp.Totals.Reports += d.Reports
	}
	if rated := resp.Totals.ThumbsUp + resp.Totals.ThumbsDown; rated > 0 {
		resp.Totals.SatisfactionPct = float64(resp.Totals.ThumbsUp) / float64(rated) * 100
	}
	return resp, nil
}

func (s *analyticsService) Gaps(ctx context.Context, req app.GapsRequest) ([]*domain.KnowledgeGap, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = app.DefaultGapLimit
	}
	return s.analytics.ListGaps(ctx, limit)
}
