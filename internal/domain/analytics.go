package domain

import (
	"fmt"
	"time"
)

type FeedbackType string

const (
	FeedbackThumbsUp    FeedbackType = "thumbs_up"
	FeedbackThumbsDown  FeedbackType = "thumbs_down"
	FeedbackReportIssue FeedbackType = "report_issue"
)

// ValidFeedbackTypes is the accepted set of feedback type strings.
var ValidFeedbackTypes = map[FeedbackType]bool{
	FeedbackThumbsUp:    true,
	FeedbackThumbsDown:  true,
	FeedbackReportIssue: true,
}

// QuestionLog records one answered turn.
type QuestionLog struct {
	ID         string
	SessionID  string
	Question   string
	Response   string
	UsedRemote bool
	Outcome    string
	CreatedAt  time.Time
}

type Feedback struct {
	ID         string       `json:"id"`
	QuestionID string       `json:"question_id"`
	Type       FeedbackType `json:"type"`
	Comment    string       `json:"comment,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

func (f *Feedback) Validate() error {
	if f.QuestionID == "" {
		return fmt.Errorf("feedback: question id is required")
	}
	if !ValidFeedbackTypes[f.Type] {
		return fmt.Errorf("feedback: invalid type %q", f.Type)
	}
	return nil
}

// KnowledgeGap aggregates repeated questions that only got short answers.
type KnowledgeGap struct {
	ID                string    `json:"id"`
	Pattern           string    `json:"pattern"`
	Frequency         int       `json:"frequency"`
	AvgResponseLength float64   `json:"avg_response_length"`
	NeedsImprovement  bool      `json:"needs_improvement"`
	LastAsked         time.Time `json:"last_asked"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DailyAnalytics is one day of the analytics summary.
type DailyAnalytics struct {
	Date           string `json:"date"`
	Questions      int    `json:"questions"`
	RemoteAnswered int    `json:"remote_answered"`
	ThumbsUp       int    `json:"thumbs_up"`
	ThumbsDown     int    `json:"thumbs_down"`
	Reports        int    `json:"reports"`
}
