package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/sophia/internal/domain"
)

// ChatMessage options
type MessageOption func(*domain.ChatMessage)

func WithAuthor(a domain.Author) MessageOption {
	return func(m *domain.ChatMessage) {
		m.Author = a
	}
}

func WithCreatedAt(t time.Time) MessageOption {
	return func(m *domain.ChatMessage) {
		m.CreatedAt = t
	}
}

// NewTestMessage builds a user message in sessionID.
func NewTestMessage(sessionID, text string, opts ...MessageOption) *domain.ChatMessage {
	m := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Author:    domain.AuthorUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Conversation builds alternating user/assistant messages one second
// apart, starting with a user message.
func Conversation(sessionID string, texts ...string) []*domain.ChatMessage {
	start := time.Now().UTC().Add(-time.Duration(len(texts)) * time.Second)
	out := make([]*domain.ChatMessage, 0, len(texts))
	for i, text := range texts {
		author := domain.AuthorUser
		if i%2 == 1 {
			author = domain.AuthorAssistant
		}
		out = append(out, NewTestMessage(sessionID, text,
			WithAuthor(author),
			WithCreatedAt(start.Add(time.Duration(i)*time.Second)),
		))
	}
	return out
}

// QuestionLog options
type QuestionOption func(*domain.QuestionLog)

func WithUsedRemote() QuestionOption {
	return func(q *domain.QuestionLog) {
		q.UsedRemote = true
	}
}

func WithAskedAt(t time.Time) QuestionOption {
	return func(q *domain.QuestionLog) {
		q.CreatedAt = t
	}
}

func NewTestQuestion(sessionID, question string, opts ...QuestionOption) *domain.QuestionLog {
	q := &domain.QuestionLog{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Question:  question,
		Response:  "answer to " + question,
		Outcome:   "knowledge_base",
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func NewTestFeedback(questionID string, t domain.FeedbackType) *domain.Feedback {
	return &domain.Feedback{
		ID:         uuid.New().String(),
		QuestionID: questionID,
		Type:       t,
		CreatedAt:  time.Now().UTC(),
	}
}

func NewTestProgress(sessionID, processID string) *domain.UserProgress {
	now := time.Now().UTC()
	return &domain.UserProgress{
		ID:          uuid.New().String(),
		SessionID:   sessionID,
		ProcessID:   processID,
		CurrentStep: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
