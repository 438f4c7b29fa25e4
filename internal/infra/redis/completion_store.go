package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-session-service/internal/domain"
)

// CompletionStore persists completion records as a JSON list per quiz:
// RPUSH quiz:{quizID}:completions {json}
// Records are appended in completion order; reads return the whole history.
type CompletionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCompletionStore(client *redis.Client, ttl time.Duration) *CompletionStore {
	return &CompletionStore{client: client, ttl: ttl}
}

func (s *CompletionStore) Save(ctx context.Context, rec domain.CompletionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal completion: %w", err)
	}
	key := s.key(rec.QuizID)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store completion: %w", err)
	}
	return nil
}

func (s *CompletionStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.CompletionRecord, error) {
	raw, err := s.client.LRange(ctx, s.key(quizID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	records := make([]domain.CompletionRecord, 0, len(raw))
	for _, item := range raw {
		var rec domain.CompletionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal completion: %w", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *CompletionStore) key(quizID string) string {
	return "quiz:" + quizID + ":completions"
}
