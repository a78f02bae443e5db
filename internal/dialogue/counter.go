package dialogue

import (
	"context"
	"sync"
	"time"
)

// MaxClarifications is how many clarification turns a session gets before
// an ambiguous question is answered with the most common scenario.
const MaxClarifications = 2

// CounterStore persists the per-session clarification attempt counter.
// A session that was never written reads as zero.
type CounterStore interface {
	Attempts(ctx context.Context, sessionID string) (int, error)
	SetAttempts(ctx context.Context, sessionID string, n int) error
}

// DefaultCounterTTL is how long an idle session keeps its counter in
// MemoryCounterStore.
const DefaultCounterTTL = 30 * time.Minute

type counterEntry struct {
	attempts  int
	expiresAt time.Time
}

// MemoryCounterStore keeps counters in process memory. Entries expire after
// ttl without a write. It is safe for concurrent use.
type MemoryCounterStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]counterEntry
}

func NewMemoryCounterStore(ttl time.Duration) *MemoryCounterStore {
	if ttl <= 0 {
		ttl = DefaultCounterTTL
	}
	return &MemoryCounterStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]counterEntry),
	}
}

func (s *MemoryCounterStore) Attempts(_ context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return 0, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, nil
	}
	return e.attempts, nil
}

func (s *MemoryCounterStore) SetAttempts(_ context.Context, sessionID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == 0 {
		delete(s.sessions, sessionID)
		return nil
	}
	s.sessions[sessionID] = counterEntry{attempts: n, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Len returns the number of live sessions, pruning expired ones.
func (s *MemoryCounterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
	return len(s.sessions)
}
