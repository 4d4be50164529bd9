package memory

import (
	"context"
	"sync"

	"github.com/rickcomics/myprotectivemasks/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore. Entries
// live until deleted or the process restarts; there is no expiry.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*domain.Session),
	}
}

func (s *SessionStore) Get(_ context.Context, userID int64) (*domain.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok, nil
}

// Create replaces any existing session for the user with a fresh one.
func (s *SessionStore) Create(_ context.Context, userID int64) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := &domain.Session{UserID: userID}
	s.sessions[userID] = session
	return session, nil
}

func (s *SessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = session
	return nil
}

func (s *SessionStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
