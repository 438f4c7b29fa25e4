package session

import "quiz-session-service/internal/domain"

// Phase describes the session's current stage.
type Phase string

const (
	PhaseIntro    Phase = "intro"
	PhasePlaying  Phase = "playing"
	PhaseFeedback Phase = "feedback"
	PhaseResults  Phase = "results"
)

// OptionView is an option as exposed to a renderer. The correct flag is
// withheld while the question is still open.
type OptionView struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct *bool  `json:"correct,omitempty"`
}

// QuestionView is the renderable projection of the current question. Hints
// and explanations are included only when the session settings allow, and
// explanations only once the question has been answered.
type QuestionView struct {
	ID               string              `json:"id"`
	Type             domain.QuestionType `json:"type"`
	Prompt           string              `json:"prompt"`
	MediaURL         string              `json:"mediaUrl,omitempty"`
	Hint             string              `json:"hint,omitempty"`
	Explanation      string              `json:"explanation,omitempty"`
	TimeLimitSeconds int                 `json:"timeLimitSeconds,omitempty"`
	Options          []OptionView        `json:"options,omitempty"`
}

// Snapshot is a read-only view of the session state for rendering. Timer
// fields are -1 when the corresponding countdown is not armed.
type Snapshot struct {
	AttemptID             string                   `json:"attemptId"`
	QuizID                string                   `json:"quizId"`
	Phase                 Phase                    `json:"phase"`
	CurrentIndex          int                      `json:"currentIndex"`
	TotalQuestions        int                      `json:"totalQuestions"`
	Question              *QuestionView            `json:"question,omitempty"`
	Answer                *domain.Answer           `json:"answer,omitempty"`
	Streak                int                      `json:"streak"`
	MaxStreak             int                      `json:"maxStreak"`
	QuestionTimeRemaining int                      `json:"questionTimeRemaining"`
	TotalTimeRemaining    int                      `json:"totalTimeRemaining"`
	Record                *domain.CompletionRecord `json:"record,omitempty"`
}

// snapshotLocked builds the renderable view of the current state. Callers
// must hold the controller mutex.
func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		AttemptID:             c.attemptID,
		QuizID:                c.quiz.ID,
		Phase:                 c.phase,
		CurrentIndex:          c.current,
		TotalQuestions:        len(c.prepared),
		Streak:                c.streak,
		MaxStreak:             c.maxStreak,
		QuestionTimeRemaining: -1,
		TotalTimeRemaining:    -1,
		Record:                c.record,
	}

	if c.phase == PhasePlaying || c.phase == PhaseFeedback {
		q := c.prepared[c.current]
		snap.Question = c.questionViewLocked(q)
		if a, ok := c.answers[q.ID]; ok {
			copied := *a
			copied.SelectedOptionIDs = append([]string(nil), a.SelectedOptionIDs...)
			snap.Answer = &copied
		}
		if c.questionTimer != nil && c.questionTimer.State() != TimerIdle {
			snap.QuestionTimeRemaining = c.questionTimer.Remaining()
		}
	}
	if c.totalTimer != nil && c.totalTimer.State() != TimerIdle {
		snap.TotalTimeRemaining = c.totalTimer.Remaining()
	}
	return snap
}

func (c *Controller) questionViewLocked(q domain.Question) *QuestionView {
	view := &QuestionView{
		ID:               q.ID,
		Type:             q.Type,
		Prompt:           q.Prompt,
		MediaURL:         q.MediaURL,
		TimeLimitSeconds: c.questionLimit(q),
	}
	if c.settings.ShowHints {
		view.Hint = q.Hint
	}
	revealed := c.phase == PhaseFeedback
	if revealed && c.settings.ShowExplanations {
		view.Explanation = q.Explanation
	}
	for _, opt := range q.Options {
		ov := OptionView{ID: opt.ID, Text: opt.Text}
		if revealed {
			correct := opt.Correct
			ov.Correct = &correct
		}
		view.Options = append(view.Options, ov)
	}
	return view
}
