package session

import (
	"math/rand"

	"quiz-session-service/internal/domain"
)

// Prepare computes the fixed question and option order for one session.
// It runs exactly once at session start; the returned slice is a deep copy
// of the quiz content so later shuffling or mutation of the source cannot
// disturb a running session.
//
// The random source is injected so the permutation is reproducible in tests.
// A nil rnd with shuffling enabled falls back to the identity order.
func Prepare(quiz domain.Quiz, settings domain.SessionSettings, rnd *rand.Rand) []domain.Question {
	prepared := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		prepared[i] = q
		if len(q.Options) > 0 {
			prepared[i].Options = append([]domain.Option(nil), q.Options...)
		}
	}

	if rnd == nil {
		return prepared
	}

	if settings.ShuffleQuestions {
		rnd.Shuffle(len(prepared), func(i, j int) {
			prepared[i], prepared[j] = prepared[j], prepared[i]
		})
	}
	if settings.ShuffleOptions {
		for i := range prepared {
			opts := prepared[i].Options
			rnd.Shuffle(len(opts), func(a, b int) {
				opts[a], opts[b] = opts[b], opts[a]
			})
		}
	}
	return prepared
}

// validatePlayable enforces the session-start preconditions: a non-empty
// question list, choice questions with at least two options and one correct
// option, type-in questions with a non-empty expected answer.
func validatePlayable(questions []domain.Question) error {
	if len(questions) == 0 {
		return domain.ErrNoQuestions
	}
	for _, q := range questions {
		switch q.Type {
		case domain.SingleChoice, domain.MultiSelect:
			if len(q.Options) < 2 {
				return domain.ErrUnplayableQuestion
			}
			if len(q.CorrectOptionIDs()) == 0 {
				return domain.ErrUnplayableQuestion
			}
		case domain.TypeIn:
			if normalizeText(q.ExpectedAnswer) == "" {
				return domain.ErrUnplayableQuestion
			}
		default:
			return domain.ErrUnknownQuestionType
		}
	}
	return nil
}
