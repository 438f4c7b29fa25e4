package memory

import (
	"context"
	"sync"

	"quiz-session-service/internal/domain"
)

// CompletionStore keeps completion records in memory, grouped by quiz.
type CompletionStore struct {
	mu     sync.RWMutex
	byQuiz map[string][]domain.CompletionRecord
}

func NewCompletionStore() *CompletionStore {
	return &CompletionStore{
		byQuiz: make(map[string][]domain.CompletionRecord),
	}
}

func (s *CompletionStore) Save(_ context.Context, rec domain.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byQuiz[rec.QuizID] = append(s.byQuiz[rec.QuizID], rec)
	return nil
}

func (s *CompletionStore) ListByQuiz(_ context.Context, quizID string) ([]domain.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byQuiz[quizID]
	out := make([]domain.CompletionRecord, len(records))
	copy(out, records)
	return out, nil
}
