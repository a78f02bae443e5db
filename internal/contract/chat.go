package contract

import "github.com/alexanderramin/sophia/internal/app"

type SendMessageRequest = app.SendMessageRequest

type ClarifyingQuestion = app.ClarifyingQuestion

type ChatReply = app.ChatReply

type HistoryEntry = app.HistoryEntry
