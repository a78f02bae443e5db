package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alexanderramin/sophia/internal/app"
	"github.com/alexanderramin/sophia/internal/db"
	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/repository"
)

const (
	// gapResponseThreshold is the answer length below which a question is
	// counted as a knowledge gap.
	gapResponseThreshold = 200
	gapPatternMaxLen     = 100
	analyticsTimeout     = 5 * time.Second
)

type chatService struct {
	chat      repository.ChatRepo
	analytics repository.AnalyticsRepo
	assistant intelligence.Assistant
	advisor   *intelligence.Advisor
	uow       db.UnitOfWork
	observer  UseCaseObserver
	now       func() time.Time
	wg        sync.WaitGroup
}

// NewChatService wires chat persistence, analytics and the assistant. The
// clarification counter is reset through the unit of work on Clear, so the
// assistant's engine must read counters from the same database.
func NewChatService(
	chat repository.ChatRepo,
	analytics repository.AnalyticsRepo,
	assistant intelligence.Assistant,
	advisor *intelligence.Advisor,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ChatService {
	return &chatService{
		chat:      chat,
		analytics: analytics,
		assistant: assistant,
		advisor:   advisor,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) SendMessage(ctx context.Context, req app.SendMessageRequest) (reply *app.ChatReply, err error) {
	start := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, UseCaseSendMessage, start, err, fields) }()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	fields["session_id"] = sessionID

	history, err := s.chat.ListRecent(ctx, sessionID, repository.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	asked := s.now()
	ans, err := s.assistant.Answer(ctx, sessionID, text, history)
	if err != nil {
		return nil, err
	}
	if ans.Local != nil && ans.Local.CounterErr != nil {
		observe(ctx, s.observer, UseCaseDialogueState, asked, ans.Local.CounterErr,
			map[string]any{"session_id": sessionID})
	}

	answered := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		chat := repository.NewSQLiteChatRepo(tx)
		if err := chat.Append(ctx, &domain.ChatMessage{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Author:    domain.AuthorUser,
			Text:      text,
			CreatedAt: asked,
		}); err != nil {
			return err
		}
		return chat.Append(ctx, &domain.ChatMessage{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Author:    domain.AuthorAssistant,
			Text:      ans.Text,
			CreatedAt: answered,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("saving turn: %w", err)
	}

	reply = s.buildReply(sessionID, text, ans)
	reply.CreatedAt = answered
	fields["source"] = reply.Source
	fields["outcome"] = reply.Outcome

	s.recordAnalytics(ctx, &domain.QuestionLog{
		ID:         reply.QuestionID,
		SessionID:  sessionID,
		Question:   text,
		Response:   ans.Text,
		UsedRemote: ans.UsedRemote(),
		Outcome:    ans.Outcome(),
		CreatedAt:  asked,
	})
	return reply, nil
}

func (s *chatService) buildReply(sessionID, question string, ans *intelligence.Answer) *app.ChatReply {
	reply := &app.ChatReply{
		SessionID:  sessionID,
		QuestionID: uuid.New().String(),
		Text:       ans.Text,
		Source:     string(ans.Source),
		Outcome:    ans.Outcome(),
	}
	if ans.RemoteErr != nil {
		reply.RemoteError = ans.RemoteErr.Error()
	}
	if ans.Local != nil {
		reply.Attempts = ans.Local.Attempts
		reply.Keywords = ans.Local.Keywords
		reply.Relevance = ans.Local.Relevance
		reply.Inference = ans.Local.Inference
	}
	if s.advisor != nil {
		// A disambiguation reply already asks its own question.
		if ans.Local == nil || ans.Local.Outcome != dialogue.OutcomeDisambiguation {
			reply.Clarifying = s.advisor.ClarifyingQuestions(question)
		}
		reply.Topic = s.advisor.DetectTopic(question)
		reply.FollowUps = s.advisor.FollowUps(reply.Topic)
	}
	return reply
}

// recordAnalytics logs the turn and tracks short answers as knowledge gaps
// on a background goroutine. Failures are reported to the observer only.
func (s *chatService) recordAnalytics(ctx context.Context, q *domain.QuestionLog) {
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(bg, analyticsTimeout)
		defer cancel()

		start := time.Now()
		err := s.analytics.LogQuestion(ctx, q)
		if err != nil {
			observe(ctx, s.observer, UseCaseLogQuestion, start, err, map[string]any{"question_id": q.ID})
		}

		length := utf8.RuneCountInString(q.Response)
		if length >= gapResponseThreshold {
			return
		}
		start = time.Now()
		if err := s.analytics.TrackGap(ctx, GapPattern(q.Question), length, q.CreatedAt); err != nil {
			observe(ctx, s.observer, UseCaseTrackGap, start, err, nil)
		}
	}()
}

// Wait blocks until pending analytics writes finish.
func (s *chatService) Wait() {
	s.wg.Wait()
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]app.HistoryEntry, error) {
	msgs, err := s.chat.ListRecent(ctx, sessionID, repository.HistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]app.HistoryEntry, len(msgs))
	for i, m := range msgs {
		out[i] = app.HistoryEntry{
			ID:        m.ID,
			Author:    string(m.Author),
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		}
	}
	return out, nil
}

// Clear deletes the session's history and resets its clarification counter
// in one transaction.
func (s *chatService) Clear(ctx context.Context, sessionID string) (err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, UseCaseClearHistory, start, err, map[string]any{"session_id": sessionID})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteChatRepo(tx).DeleteBySession(ctx, sessionID); err != nil {
			return err
		}
		return repository.NewSQLiteDialogueStateRepo(tx).SetAttempts(ctx, sessionID, 0)
	})
}

// GapPattern normalizes a question into the key knowledge gaps are grouped
// by: lowercase, trimmed, without ?, ! or . and at most 100 characters.
func GapPattern(question string) string {
	p := strings.TrimSpace(strings.ToLower(question))
	p = strings.Map(func(r rune) rune {
		switch r {
		case '?', '!', '.':
			return -1
		}
		return r
	}, p)
	if utf8.RuneCountInString(p) > gapPatternMaxLen {
		p = string([]rune(p)[:gapPatternMaxLen])
	}
	return p
}
