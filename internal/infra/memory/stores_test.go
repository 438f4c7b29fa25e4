package memory

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/session"
)

func TestAttemptStoreLifecycle(t *testing.T) {
	store := NewAttemptStore()

	ctrl, err := session.NewController("a1", sampleQuiz(), domain.SessionSettings{}, clock.NewMock(), nil, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	store.Put("a1", ctrl)

	if got, ok := store.Get("a1"); !ok || got != ctrl {
		t.Fatalf("expected stored controller back")
	}

	store.Delete("a1")
	if _, ok := store.Get("a1"); ok {
		t.Fatalf("expected attempt removed")
	}
}

func TestCompletionStoreRoundTrip(t *testing.T) {
	store := NewCompletionStore()
	ctx := context.Background()

	recA := domain.CompletionRecord{AttemptID: "a1", QuizID: "quiz-1", Score: 1, Percentage: 50, CompletedAt: time.Unix(1, 0)}
	recB := domain.CompletionRecord{AttemptID: "a2", QuizID: "quiz-1", Score: 2, Percentage: 100, CompletedAt: time.Unix(2, 0)}

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
	if len(records) != 2 || records[0].AttemptID != "a1" || records[1].AttemptID != "a2" {
		t.Fatalf("expected both records in order, got %+v", records)
	}

	other, err := store.ListByQuiz(ctx, "quiz-2")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no records for other quiz, got %+v", other)
	}
}
