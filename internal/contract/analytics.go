package contract

import (
	"github.com/alexanderramin/sophia/internal/app"
	"github.com/alexanderramin/sophia/internal/domain"
)

const (
	DefaultSummaryDays = app.DefaultSummaryDays
	DefaultGapLimit    = app.DefaultGapLimit
)

type FeedbackRequest = app.FeedbackRequest

func NewFeedbackRequest(questionID string, t domain.FeedbackType) FeedbackRequest {
	return app.NewFeedbackRequest(questionID, t)
}

type SummaryRequest = app.SummaryRequest

func NewSummaryRequest() SummaryRequest {
	return app.NewSummaryRequest()
}

type AnalyticsTotals = app.AnalyticsTotals

type SummaryResponse = app.SummaryResponse

type GapsRequest = app.GapsRequest

func NewGapsRequest() GapsRequest {
	return app.NewGapsRequest()
}
