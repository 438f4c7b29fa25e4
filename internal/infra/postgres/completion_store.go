package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-session-service/internal/domain"
)

// CompletionStore persists completion records as JSONB rows. Rows are keyed
// by a per-completion UUID, not the attempt ID: a restarted attempt emits a
// second record under the same attempt ID and both must survive.
type CompletionStore struct {
	pool *pgxpool.Pool
}

func NewCompletionStore(pool *pgxpool.Pool) *CompletionStore {
	return &CompletionStore{pool: pool}
}

func (s *CompletionStore) Save(ctx context.Context, rec domain.CompletionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal completion: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO completions (id, quiz_id, data) VALUES ($1, $2, $3::jsonb)`,
		uuid.NewString(), rec.QuizID, data,
	)
	if err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}

func (s *CompletionStore) ListByQuiz(ctx context.Context, quizID string) ([]domain.CompletionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM completions WHERE quiz_id=$1 ORDER BY created_at`, quizID)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	var records []domain.CompletionRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		var rec domain.CompletionRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal completion: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
