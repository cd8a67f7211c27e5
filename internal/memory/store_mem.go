package memory

import (
	"context"
	"sync"
	"time"

	"github.com/flemzord/edgechat/internal/provider"
)

// sessionData holds the history and summary for a single session.
type sessionData struct {
	history   []provider.LLMMessage
	summary   string
	lastWrite time.Time
}

// InMemorySessionStore is a thread-safe, in-memory SessionStore. It is
// the default when no persistent memory module is configured.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionData

	// now is swappable for tests.
	now func() time.Time
}

// NewInMemorySessionStore creates a new empty store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]*sessionData),
		now:      time.Now,
	}
}

// Compile-time interface check.
var _ SessionStore = (*InMemorySessionStore)(nil)

func (s *InMemorySessionStore) getOrCreate(sessionID string) *sessionData {
	sd, ok := s.sessions[sessionID]
	if !ok {
		sd = &sessionData{}
		s.sessions[sessionID] = sd
	}
	return sd
}

// History returns the stored turns for a session in conversational order.
func (s *InMemorySessionStore) History(_ context.Context, sessionID string) ([]provider.LLMMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.sessions[sessionID]
	if !ok || len(sd.history) == 0 {
		return nil, nil
	}

	result := make([]provider.LLMMessage, len(sd.history))
	copy(result, sd.history)
	return result, nil
}

// ReplaceHistory overwrites the session's history.
func (s *InMemorySessionStore) ReplaceHistory(_ context.Context, sessionID string, msgs []provider.LLMMessage) error {
	cp := make([]provider.LLMMessage, len(msgs))
	copy(cp, msgs)

	s.mu.Lock()
	defer s.mu.Unlock()
	sd := s.getOrCreate(sessionID)
	sd.history = cp
	sd.lastWrite = s.now()
	return nil
}

// Summary returns the stored summary for a session.
func (s *InMemorySessionStore) Summary(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sd, ok := s.sessions[sessionID]
	if !ok {
		return "", nil
	}
	return sd.summary, nil
}

// SetSummary replaces the session's summary.
func (s *InMemorySessionStore) SetSummary(_ context.Context, sessionID string, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sd := s.getOrCreate(sessionID)
	sd.summary = summary
	sd.lastWrite = s.now()
	return nil
}

// Purge removes all state for a session.
func (s *InMemorySessionStore) Purge(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// PruneIdle removes sessions idle longer than maxIdle.
func (s *InMemorySessionStore) PruneIdle(_ context.Context, maxIdle time.Duration) (int, error) {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, sd := range s.sessions {
		if sd.lastWrite.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned, nil
}

// Sessions returns the number of sessions with stored state.
func (s *InMemorySessionStore) Sessions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}
