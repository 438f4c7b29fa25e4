package session

import (
	"strings"

	"quiz-session-service/internal/domain"
)

// Evaluate judges a submitted answer against a question's correctness rule.
// It is pure: neither the question nor the answer is mutated, and repeated
// calls return the same result.
//
// Rules per variant:
//   - single-choice: exactly one option selected and it is flagged correct;
//   - multi-select: the selected set equals the correct-flagged set exactly,
//     no partial credit;
//   - type-in: trimmed, lower-cased submission equals the trimmed,
//     lower-cased expected answer, which must be non-empty. When
//     typeInContains is set, containment of the expected text is accepted
//     instead of equality.
func Evaluate(q domain.Question, a *domain.Answer, typeInContains bool) bool {
	if a == nil {
		return false
	}

	switch q.Type {
	case domain.SingleChoice:
		if len(a.SelectedOptionIDs) != 1 {
			return false
		}
		correct := q.CorrectOptionIDs()
		if len(correct) != 1 {
			return false
		}
		_, ok := correct[a.SelectedOptionIDs[0]]
		return ok

	case domain.MultiSelect:
		correct := q.CorrectOptionIDs()
		if len(correct) == 0 || len(a.SelectedOptionIDs) != len(correct) {
			return false
		}
		for _, id := range a.SelectedOptionIDs {
			if _, ok := correct[id]; !ok {
				return false
			}
		}
		return true

	case domain.TypeIn:
		expected := normalizeText(q.ExpectedAnswer)
		if expected == "" {
			return false
		}
		got := normalizeText(a.TypedAnswer)
		if typeInContains {
			return strings.Contains(got, expected)
		}
		return got == expected
	}

	return false
}

// normalizeText trims surrounding whitespace and lower-cases, so that
// "  Paris " and "paris" compare equal.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// hasContent reports whether an answer is meaningful enough for an explicit
// submission: at least one selection for choice questions, non-empty trimmed
// text for type-in. Timer-forced submissions bypass this check.
func hasContent(q domain.Question, a *domain.Answer) bool {
	if a == nil {
		return false
	}
	switch q.Type {
	case domain.SingleChoice, domain.MultiSelect:
		return len(a.SelectedOptionIDs) > 0
	case domain.TypeIn:
		return strings.TrimSpace(a.TypedAnswer) != ""
	}
	return false
}
