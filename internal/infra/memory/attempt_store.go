package memory

import (
	"sync"

	"quiz-session-service/internal/session"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[string]*session.Controller
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		attempts: make(map[string]*session.Controller),
	}
}

func (s *AttemptStore) Put(attemptID string, ctrl *session.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attemptID] = ctrl
}

func (s *AttemptStore) Get(attemptID string) (*session.Controller, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctrl, ok := s.attempts[attemptID]
	return ctrl, ok
}

func (s *AttemptStore) Delete(attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, attemptID)
}
