package domain

import (
	"fmt"
	"time"
)

type Author string

const (
	AuthorUser      Author = "user"
	AuthorAssistant Author = "assistant"
)

// ChatMessage is one entry of a session's append-only chat history.
type ChatMessage struct {
	ID        string
	SessionID string
	Author    Author
	Text      string
	CreatedAt time.Time
}

func (m *ChatMessage) Validate() error {
	if m.SessionID == "" {
		return fmt.Errorf("chat message: session id is required")
	}
	if m.Author != AuthorUser && m.Author != AuthorAssistant {
		return fmt.Errorf("chat message: invalid author %q", m.Author)
	}
	return nil
}

// IsAssistant reports whether the message was written by the assistant.
func (m ChatMessage) IsAssistant() bool {
	return m.Author == AuthorAssistant
}
