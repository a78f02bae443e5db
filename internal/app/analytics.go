package app

import "github.com/alexanderramin/sophia/internal/domain"

const (
	DefaultSummaryDays = 30
	DefaultGapLimit    = 20
)

type FeedbackRequest struct {
	QuestionID string
	Type       domain.FeedbackType
	Comment    string
}

func NewFeedbackRequest(questionID string, t domain.FeedbackType) FeedbackRequest {
	return FeedbackRequest{QuestionID: questionID, Type: t}
}

type SummaryRequest struct {
	Days int
}

func NewSummaryRequest() SummaryRequest {
	return SummaryRequest{Days: DefaultSummaryDays}
}

// AnalyticsTotals sums the daily rows of a summary.
type AnalyticsTotals struct {
	Questions       int     `json:"questions"`
	RemoteAnswered  int     `json:"remote_answered"`
	ThumbsUp        int     `json:"thumbs_up"`
	ThumbsDown      int     `json:"thumbs_down"`
	Reports         int     `json:"reports"`
	SatisfactionPct float64 `json:"satisfaction_pct"`
}

type SummaryResponse struct {
	Days   int                     `json:"days"`
	Daily  []domain.DailyAnalytics `json:"daily"`
	Totals AnalyticsTotals         `json:"totals"`
}

type GapsRequest struct {
	Limit int
}

func NewGapsRequest() GapsRequest {
	return GapsRequest{Limit: DefaultGapLimit}
}
