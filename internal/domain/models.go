package domain

import "time"

// QuestionType tags the question variant. Evaluation and rendering switch
// exhaustively on it; an unknown tag is a configuration error, never a guess.
type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	MultiSelect  QuestionType = "multi_select"
	TypeIn       QuestionType = "type_in"
)

// Option is one possible answer of a choice question. Immutable once a
// session has started.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models a single quiz question. Options are populated for the
// choice variants, ExpectedAnswer for type-in.
type Question struct {
	ID               string       `json:"id"`
	Type             QuestionType `json:"type"`
	Prompt           string       `json:"prompt"`
	MediaURL         string       `json:"mediaUrl,omitempty"`
	Hint             string       `json:"hint,omitempty"`
	Explanation      string       `json:"explanation,omitempty"`
	TimeLimitSeconds int          `json:"timeLimitSeconds,omitempty"`
	Options          []Option     `json:"options,omitempty"`
	ExpectedAnswer   string       `json:"expectedAnswer,omitempty"`
}

// CorrectOptionIDs returns the set of option IDs flagged correct.
func (q Question) CorrectOptionIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, opt := range q.Options {
		if opt.Correct {
			ids[opt.ID] = struct{}{}
		}
	}
	return ids
}

// Quiz is a collection of questions, read-only for the duration of a session.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// SessionSettings are the per-attempt flags consumed once at session start.
type SessionSettings struct {
	ShuffleQuestions       bool `json:"shuffleQuestions"`
	ShuffleOptions         bool `json:"shuffleOptions"`
	TimerEnabled           bool `json:"timerEnabled"`
	TimePerQuestionSeconds int  `json:"timePerQuestionSeconds,omitempty"`
	TotalTimeLimitSeconds  int  `json:"totalTimeLimitSeconds,omitempty"`
	ShowHints              bool `json:"showHints"`
	ShowExplanations       bool `json:"showExplanations"`
	// TypeInContains accepts a typed answer that contains the expected text
	// instead of requiring exact normalized equality.
	TypeInContains bool `json:"typeInContains"`
}

// Answer is the per-question record of what the learner did. At most one
// exists per question ID; it is created on first interaction and finalized
// on submission.
type Answer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
	TypedAnswer       string   `json:"typedAnswer,omitempty"`
	IsCorrect         bool     `json:"isCorrect"`
	Submitted         bool     `json:"submitted"`
	TimeSpentSeconds  int      `json:"timeSpentSeconds"`
}

// HasSelection reports whether the given option is currently selected.
func (a *Answer) HasSelection(optionID string) bool {
	for _, id := range a.SelectedOptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}

// QuestionResult is one row of the per-question review inside a
// CompletionRecord, in prepared order.
type QuestionResult struct {
	QuestionID       string `json:"questionId"`
	Answered         bool   `json:"answered"`
	Correct          bool   `json:"correct"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

// CompletionRecord is the immutable summary emitted exactly once when a
// session reaches its terminal phase.
type CompletionRecord struct {
	AttemptID            string           `json:"attemptId"`
	QuizID               string           `json:"quizId"`
	Score                int              `json:"score"`
	TotalQuestions       int              `json:"totalQuestions"`
	Percentage           int              `json:"percentage"`
	MaxStreak            int              `json:"maxStreak"`
	TimeSpentSeconds     int              `json:"timeSpentSeconds"`
	TimeRemainingSeconds *int             `json:"timeRemainingSeconds,omitempty"`
	CompletedAt          time.Time        `json:"completedAt"`
	Results              []QuestionResult `json:"results"`
}

// CompletionSummary pairs a fresh CompletionRecord with the best prior
// attempt for the same quiz, if any.
type CompletionSummary struct {
	Record       CompletionRecord  `json:"record"`
	PreviousBest *CompletionRecord `json:"previousBest,omitempty"`
	Improved     bool              `json:"improved"`
}
