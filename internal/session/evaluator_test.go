package session

import (
	"testing"

	"quiz-session-service/internal/domain"
)

func singleChoiceQuestion() domain.Question {
	return domain.Question{
		ID:   "q1",
		Type: domain.SingleChoice,
		Options: []domain.Option{
			{ID: "o1", Text: "3", Correct: false},
			{ID: "o2", Text: "4", Correct: true},
			{ID: "o3", Text: "5", Correct: false},
		},
	}
}

func multiSelectQuestion() domain.Question {
	return domain.Question{
		ID:   "q2",
		Type: domain.MultiSelect,
		Options: []domain.Option{
			{ID: "o1", Text: "2", Correct: true},
			{ID: "o2", Text: "3", Correct: true},
			{ID: "o3", Text: "4", Correct: false},
			{ID: "o4", Text: "5", Correct: true},
		},
	}
}

func TestEvaluateSingleChoice(t *testing.T) {
	q := singleChoiceQuestion()

	if !Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o2"}}, false) {
		t.Fatalf("expected correct option to evaluate true")
	}
	if Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o1"}}, false) {
		t.Fatalf("expected wrong option to evaluate false")
	}
	if Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o1", "o2"}}, false) {
		t.Fatalf("expected multiple selections to evaluate false")
	}
	if Evaluate(q, &domain.Answer{}, false) {
		t.Fatalf("expected empty selection to evaluate false")
	}
	if Evaluate(q, nil, false) {
		t.Fatalf("expected nil answer to evaluate false")
	}
}

func TestEvaluateMultiSelect(t *testing.T) {
	q := multiSelectQuestion()

	if !Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o4", "o1", "o2"}}, false) {
		t.Fatalf("expected exact set (any order) to evaluate true")
	}
	if Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o1", "o2"}}, false) {
		t.Fatalf("expected strict subset to evaluate false")
	}
	if Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o1", "o2", "o3", "o4"}}, false) {
		t.Fatalf("expected strict superset to evaluate false")
	}
	if Evaluate(q, &domain.Answer{SelectedOptionIDs: []string{"o1", "o2", "o3"}}, false) {
		t.Fatalf("expected one wrong member to evaluate false")
	}
}

func TestEvaluateTypeIn(t *testing.T) {
	q := domain.Question{ID: "q3", Type: domain.TypeIn, ExpectedAnswer: "Paris"}

	for _, submitted := range []string{"paris", " Paris ", "PARIS"} {
		if !Evaluate(q, &domain.Answer{TypedAnswer: submitted}, false) {
			t.Fatalf("expected %q to match after normalization", submitted)
		}
	}
	if Evaluate(q, &domain.Answer{TypedAnswer: "Paris, France"}, false) {
		t.Fatalf("expected exact-match rule to reject extra text")
	}
	if Evaluate(q, &domain.Answer{TypedAnswer: ""}, false) {
		t.Fatalf("expected empty submission to evaluate false")
	}
}

func TestEvaluateTypeInContains(t *testing.T) {
	q := domain.Question{ID: "q3", Type: domain.TypeIn, ExpectedAnswer: "Paris"}

	if !Evaluate(q, &domain.Answer{TypedAnswer: "Paris, France"}, true) {
		t.Fatalf("expected containment rule to accept extra text")
	}
	if Evaluate(q, &domain.Answer{TypedAnswer: "London"}, true) {
		t.Fatalf("expected containment rule to reject unrelated text")
	}
}

func TestEvaluateEmptyExpectedAnswerNeverMatches(t *testing.T) {
	q := domain.Question{ID: "q3", Type: domain.TypeIn, ExpectedAnswer: "   "}

	if Evaluate(q, &domain.Answer{TypedAnswer: ""}, false) {
		t.Fatalf("expected blank expected answer to evaluate false")
	}
	if Evaluate(q, &domain.Answer{TypedAnswer: "anything"}, true) {
		t.Fatalf("expected blank expected answer to evaluate false under containment")
	}
}

func TestEvaluateIsPure(t *testing.T) {
	q := singleChoiceQuestion()
	a := &domain.Answer{SelectedOptionIDs: []string{"o2"}}

	first := Evaluate(q, a, false)
	second := Evaluate(q, a, false)
	if first != second {
		t.Fatalf("expected repeated evaluation to be stable")
	}
	if a.Submitted || a.IsCorrect {
		t.Fatalf("expected evaluation to leave the answer untouched, got %+v", a)
	}
}
