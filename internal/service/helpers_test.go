package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sophia/internal/dialogue"
	"github.com/alexanderramin/sophia/internal/domain"
	"github.com/alexanderramin/sophia/internal/intelligence"
	"github.com/alexanderramin/sophia/internal/knowledge"
	"github.com/alexanderramin/sophia/internal/repository"
	"github.com/alexanderramin/sophia/internal/testutil"
)

type serviceFixture struct {
	db        *sql.DB
	kb        *knowledge.Store
	chat      *repository.SQLiteChatRepo
	counters  *repository.SQLiteDialogueStateRepo
	analytics *repository.SQLiteAnalyticsRepo
	progress  *repository.SQLiteProgressRepo
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	kb, err := knowledge.Load()
	require.NoError(t, err)
	return &serviceFixture{
		db:        database,
		kb:        kb,
		chat:      repository.NewSQLiteChatRepo(database),
		counters:  repository.NewSQLiteDialogueStateRepo(database),
		analytics: repository.NewSQLiteAnalyticsRepo(database),
		progress:  repository.NewSQLiteProgressRepo(database),
	}
}

// localAssistant answers with the dialogue engine only, reading counters
// from the fixture database.
func (f *serviceFixture) localAssistant(t *testing.T) intelligence.Assistant {
	t.Helper()
	engine, err := dialogue.NewEngine(f.kb, f.counters)
	require.NoError(t, err)
	return intelligence.NewAssistant(nil, engine, f.kb)
}

func (f *serviceFixture) advisor(t *testing.T) *intelligence.Advisor {
	t.Helper()
	a, err := intelligence.NewAdvisor(f.kb.Guidance)
	require.NoError(t, err)
	return a
}

func (f *serviceFixture) chatService(t *testing.T, a intelligence.Assistant, observers ...UseCaseObserver) ChatService {
	t.Helper()
	svc := NewChatService(f.chat, f.analytics, a, f.advisor(t), testutil.NewTestUoW(f.db), observers...)
	t.Cleanup(svc.Wait)
	return svc
}

// stubAssistant returns a fixed answer and records the history it was given.
type stubAssistant struct {
	mu        sync.Mutex
	answer    intelligence.Answer
	err       error
	histories [][]domain.ChatMessage
}

func (s *stubAssistant) Answer(_ context.Context, _, _ string, history []domain.ChatMessage) (*intelligence.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories = append(s.histories, history)
	if s.err != nil {
		return nil, s.err
	}
	ans := s.answer
	return &ans, nil
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) named(name string) []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []UseCaseEvent
	for _, e := range o.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// failingAnalytics fails every write.
type failingAnalytics struct {
	repository.AnalyticsRepo
	err error
}

func (f failingAnalytics) LogQuestion(context.Context, *domain.QuestionLog) error { return f.err }

func (f failingAnalytics) TrackGap(context.Context, string, int, time.Time) error { return f.err }

// failingCounters fails every clarification counter read and write.
type failingCounters struct{ err error }

func (f failingCounters) Attempts(context.Context, string) (int, error) { return 0, f.err }

func (f failingCounters) SetAttempts(context.Context, string, int) error { return f.err }
