package session

import (
	"testing"
	"time"

	"quiz-session-service/internal/domain"
)

func TestAggregatePercentageRounding(t *testing.T) {
	prepared := []domain.Question{
		{ID: "q1"}, {ID: "q2"}, {ID: "q3"},
	}
	answers := map[string]*domain.Answer{
		"q1": {QuestionID: "q1", Submitted: true, IsCorrect: true, TimeSpentSeconds: 4},
		"q2": {QuestionID: "q2", Submitted: true, IsCorrect: true, TimeSpentSeconds: 6},
		"q3": {QuestionID: "q3", Submitted: true, IsCorrect: false, TimeSpentSeconds: 2},
	}

	rec := aggregate("a1", "quiz-1", prepared, answers, 2, 12, nil, time.Unix(0, 0))
	if rec.Score != 2 || rec.Percentage != 67 {
		t.Fatalf("expected 2 correct = 67%%, got %d = %d%%", rec.Score, rec.Percentage)
	}

	answers["q2"].IsCorrect = false
	rec = aggregate("a1", "quiz-1", prepared, answers, 1, 12, nil, time.Unix(0, 0))
	if rec.Score != 1 || rec.Percentage != 33 {
		t.Fatalf("expected 1 correct = 33%%, got %d = %d%%", rec.Score, rec.Percentage)
	}
}

func TestAggregateCountsScoreFromAnswers(t *testing.T) {
	prepared := []domain.Question{{ID: "q1"}, {ID: "q2"}}
	answers := map[string]*domain.Answer{
		"q1": {QuestionID: "q1", Submitted: true, IsCorrect: true, TimeSpentSeconds: 3},
		// q2 never submitted: a draft selection without submission does not count.
		"q2": {QuestionID: "q2", SelectedOptionIDs: []string{"o1"}},
	}

	remaining := 30
	rec := aggregate("a1", "quiz-1", prepared, answers, 1, 3, &remaining, time.Unix(42, 0))

	if rec.Score != 1 || rec.Percentage != 50 {
		t.Fatalf("expected 1/2 = 50%%, got %d = %d%%", rec.Score, rec.Percentage)
	}
	if rec.Results[1].Answered || rec.Results[1].Correct {
		t.Fatalf("expected unsubmitted question to count as unanswered, got %+v", rec.Results[1])
	}
	if rec.Results[0].QuestionID != "q1" || rec.Results[1].QuestionID != "q2" {
		t.Fatalf("expected review rows in prepared order, got %+v", rec.Results)
	}
	if rec.TimeRemainingSeconds == nil || *rec.TimeRemainingSeconds != 30 {
		t.Fatalf("expected time remaining carried through, got %v", rec.TimeRemainingSeconds)
	}
}
