package app

import (
	"time"

	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/extract"
	"github.com/alexanderramin/sophia/internal/intelligence"
)

type SendMessageRequest struct {
	SessionID string
	Text      string
}

type ClarifyingQuestion = intelligence.ProactiveQuestion

// ChatReply is the assistant's answer to one user message together with
// the signals the engine derived from it.
type ChatReply struct {
	SessionID   string               `json:"session_id"`
	QuestionID  string               `json:"question_id"`
	Text        string               `json:"text"`
	Source      string               `json:"source"`
	Outcome     string               `json:"outcome"`
	RemoteError string               `json:"remote_error,omitempty"`
	Attempts    int                  `json:"clarification_attempts"`
	Keywords    extract.KeywordSet   `json:"keywords"`
	Relevance   float64              `json:"relevance"`
	Inference   *dialogue.Inference  `json:"inference,omitempty"`
	Topic       string               `json:"topic,omitempty"`
	Clarifying  []ClarifyingQuestion `json:"clarifying_questions,omitempty"`
	FollowUps   []string             `json:"follow_ups,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// HistoryEntry is one stored chat message as shown to callers.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
