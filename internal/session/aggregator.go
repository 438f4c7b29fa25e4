package session

import (
	"math"
	"time"

	"quiz-session-service/internal/domain"
)

// aggregate derives the immutable CompletionRecord from the final session
// state. Questions without a submitted answer (total-timer truncation) are
// counted as unanswered and incorrect. The review list preserves the
// prepared, possibly shuffled, order.
func aggregate(
	attemptID, quizID string,
	prepared []domain.Question,
	answers map[string]*domain.Answer,
	maxStreak, timeSpent int,
	timeRemaining *int,
	completedAt time.Time,
) domain.CompletionRecord {
	results := make([]domain.QuestionResult, 0, len(prepared))
	correct := 0
	for _, q := range prepared {
		row := domain.QuestionResult{QuestionID: q.ID}
		if a, ok := answers[q.ID]; ok && a.Submitted {
			row.Answered = true
			row.Correct = a.IsCorrect
			row.TimeSpentSeconds = a.TimeSpentSeconds
			if a.IsCorrect {
				correct++
			}
		}
		results = append(results, row)
	}

	total := len(prepared)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return domain.CompletionRecord{
		AttemptID:            attemptID,
		QuizID:               quizID,
		Score:                correct,
		TotalQuestions:       total,
		Percentage:           percentage,
		MaxStreak:            maxStreak,
		TimeSpentSeconds:     timeSpent,
		TimeRemainingSeconds: timeRemaining,
		CompletedAt:          completedAt,
		Results:              results,
	}
}
