package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned when a command targets an unknown or discarded attempt.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrNoQuestions rejects starting a session over an empty quiz.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrUnplayableQuestion rejects starting a session over a malformed question
	// (a choice question with fewer than two options or no correct option, or a
	// type-in question with an empty expected answer).
	ErrUnplayableQuestion = errors.New("question is not playable")
	// ErrUnknownQuestionType indicates a question carries a type tag the engine
	// does not know how to evaluate.
	ErrUnknownQuestionType = errors.New("unknown question type")
	// ErrInvalidPhase is returned when a command is not legal in the session's
	// current phase.
	ErrInvalidPhase = errors.New("command not allowed in current phase")
	// ErrOptionNotFound indicates a selected option ID does not belong to the
	// current question.
	ErrOptionNotFound = errors.New("option not found")
	// ErrEmptyAnswer rejects an explicit submission with no meaningful content.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrWrongQuestionType is returned when a command targets a question
	// variant it does not apply to, e.g. toggling an option on type-in.
	ErrWrongQuestionType = errors.New("command does not apply to question type")
)
