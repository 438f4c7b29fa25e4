package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-session-service/internal/session"
)

// AttemptStore is a Redis-aware implementation of app.AttemptRepository.
// Controllers are process-local (they own goroutine-backed countdowns, so
// they cannot be serialized); Redis marks attempt liveness so operators can
// see which attempts are in flight and other instances can refuse duplicate
// attempt IDs.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	attempts map[string]*session.Controller
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
		attempts: make(map[string]*session.Controller),
	}
}

func (s *AttemptStore) Put(attemptID string, ctrl *session.Controller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attemptID] = ctrl
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(attemptID), "1", s.ttl).Err()
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
	_ = s.client.Del(context.Background(), s.key(attemptID)).Err()
}

func (s *AttemptStore) key(attemptID string) string {
	return "quiz:attempt:" + attemptID
}
