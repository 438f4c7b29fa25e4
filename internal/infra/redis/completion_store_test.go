package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-session-service/internal/domain"
)

func TestCompletionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewCompletionStore(newClient(mr), time.Minute)
	ctx := context.Background()

	recA := domain.CompletionRecord{AttemptID: "a1", QuizID: "quiz-1", Score: 1, TotalQuestions: 2, Percentage: 50, CompletedAt: time.Unix(1, 0).UTC()}
	recB := domain.CompletionRecord{AttemptID: "a2", QuizID: "quiz-1", Score: 2, TotalQuestions: 2, Percentage: 100, MaxStreak: 2, CompletedAt: time.Unix(2, 0).UTC()}

	if err := store.Save(ctx, recA); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := store.Save(ctx, recB); err != nil {
		t.Fatalf("save b: %v", err)
	}

	records, err := store.ListByQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].AttemptID != "a1" || records[1].AttemptID != "a2" {
		t.Fatalf("expected completion order preserved, got %+v", records)
	}
	if records[1].Percentage != 100 || records[1].MaxStreak != 2 {
		t.Fatalf("expected fields round-tripped, got %+v", records[1])
	}

	empty, err := store.ListByQuiz(ctx, "quiz-2")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no records, got %+v", empty)
	}
}

func TestAttemptStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Minute)

	store.Put("a1", nil)
	if !mr.Exists("quiz:attempt:a1") {
		t.Fatalf("expected redis liveness key to be set")
	}

	store.Delete("a1")
	if mr.Exists("quiz:attempt:a1") {
		t.Fatalf("expected redis liveness key to be removed")
	}
}
