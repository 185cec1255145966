package memstore

import (
	"context"
	"sync"

	"supportbot/internal/domain"
)

// SessionStore keeps session logs in process memory. Logs are lost on exit.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]domain.Turn),
	}
}

func (s *SessionStore) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turn)
	return nil
}

func (s *SessionStore) History(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Sessions returns the number of sessions with at least one turn.
func (s *SessionStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Close() error {
	return nil
}
