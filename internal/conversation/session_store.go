// internal/conversation/session_store.go
package conversation

import (
	"sync"

	"reviewbot/internal/common/metrics"
	"reviewbot/internal/models"
)

// SessionStore holds the per-user conversation sessions. Safe for
// concurrent use; the dispatcher already serializes messages per user,
// so the lock only guards cross-user map access.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
	}
}

// Get returns the session for userID, creating an idle one on first
// contact.
func (s *SessionStore) Get(userID string) *models.Session {
	s.mu.RLock()
	session, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok = s.sessions[userID]; ok {
		return session
	}
	session = models.NewSession(userID)
	s.sessions[userID] = session
	metrics.ActiveSessions.Inc()
	return session
}

// Update replaces the state and context of userID's session in one
// step. A nil context resets it to empty, matching a fresh session.
func (s *SessionStore) Update(userID string, state models.SessionState, context map[string]string) {
	if context == nil {
		context = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = models.NewSession(userID)
		s.sessions[userID] = session
		metrics.ActiveSessions.Inc()
	}
	session.State = state
	session.Context = context
}

// Len reports the number of tracked sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
