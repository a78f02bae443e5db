package service

import (
	"github.com/alexanderramin/sophia/internal/app"
)

// ChatService answers messages and owns the session's chat history.
type ChatService interface {
	app.ChatUseCase
	// Wait blocks until background analytics writes have finished.
	Wait()
}

type AnalyticsService interface {
	app.FeedbackUseCase
	app.AnalyticsUseCase
}

type ProgressService interface {
	app.ProgressUseCase
}
