package service

import "errors"

var (
	// ErrEmptyMessage is returned when a chat message has no text.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrInvalidFeedback is returned for feedback without a question id or
	// with an unknown type.
	ErrInvalidFeedback = errors.New("invalid feedback")

	// ErrUnknownProcess is returned when progress is requested for a
	// process the knowledge base does not define.
	ErrUnknownProcess = errors.New("unknown governance process")
)
