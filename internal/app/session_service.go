package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/session"
)

// AttemptRepository stores live session controllers keyed by attempt ID.
type AttemptRepository interface {
	Put(attemptID string, ctrl *session.Controller)
	Get(attemptID string) (*session.Controller, bool)
	Delete(attemptID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// CompletionRepository is the append-only store of completion records. The
// service only reads it back to compute the previous-best comparison.
type CompletionRepository interface {
	Save(ctx context.Context, rec domain.CompletionRecord) error
	ListByQuiz(ctx context.Context, quizID string) ([]domain.CompletionRecord, error)
}

// SessionService owns live attempts: it creates controllers from loaded quiz
// content, forwards commands to them, and persists each attempt's terminal
// CompletionRecord exactly once.
type SessionService struct {
	attempts    AttemptRepository
	quizzes     QuizRepository
	completions CompletionRepository
	clk         clock.Clock
	seed        func() *rand.Rand
}

func NewSessionService(attempts AttemptRepository, quizzes QuizRepository, completions CompletionRepository) *SessionService {
	return &SessionService{
		attempts:    attempts,
		quizzes:     quizzes,
		completions: completions,
		clk:         clock.New(),
		seed: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// NewSessionServiceWithClock is test-only for deterministic timers and seeds.
func NewSessionServiceWithClock(
	attempts AttemptRepository,
	quizzes QuizRepository,
	completions CompletionRepository,
	clk clock.Clock,
	seed func() *rand.Rand,
) *SessionService {
	s := NewSessionService(attempts, quizzes, completions)
	if clk != nil {
		s.clk = clk
	}
	if seed != nil {
		s.seed = seed
	}
	return s
}

// CreateAttempt loads the quiz, prepares a new attempt and registers it.
// The attempt stays in the intro phase until Start. The notify callback, if
// non-nil, receives the completion summary once when results are reached.
func (s *SessionService) CreateAttempt(
	ctx context.Context,
	quizID string,
	settings domain.SessionSettings,
	notify func(domain.CompletionSummary),
) (string, session.Snapshot, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", session.Snapshot{}, err
	}

	attemptID := uuid.NewString()
	ctrl, err := session.NewController(attemptID, quiz, settings, s.clk, s.seed(), func(rec domain.CompletionRecord) {
		s.handleCompletion(rec, notify)
	})
	if err != nil {
		return "", session.Snapshot{}, err
	}
	s.attempts.Put(attemptID, ctrl)
	return attemptID, ctrl.Snapshot(), nil
}

// handleCompletion builds the previous-best comparison from records saved by
// earlier attempts, persists the new record, then notifies the caller.
func (s *SessionService) handleCompletion(rec domain.CompletionRecord, notify func(domain.CompletionSummary)) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary := domain.CompletionSummary{Record: rec, Improved: true}
	prior, err := s.completions.ListByQuiz(ctx, rec.QuizID)
	if err != nil {
		log.Printf("list completions for %s: %v", rec.QuizID, err)
	} else if best := bestRecord(prior); best != nil {
		summary.PreviousBest = best
		summary.Improved = rec.Percentage > best.Percentage
	}

	if err := s.completions.Save(ctx, rec); err != nil {
		log.Printf("save completion %s: %v", rec.AttemptID, err)
	}
	if notify != nil {
		notify(summary)
	}
}

// Start begins the attempt's play-through.
func (s *SessionService) Start(attemptID string) error {
	return s.command(attemptID, (*session.Controller).Start)
}

// SelectOption records a single-choice selection.
func (s *SessionService) SelectOption(attemptID, optionID string) error {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return ctrl.SelectOption(optionID)
}

// ToggleOption flips a multi-select selection.
func (s *SessionService) ToggleOption(attemptID, optionID string) error {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return ctrl.ToggleOption(optionID)
}

// SetTypedAnswer stores a type-in answer draft.
func (s *SessionService) SetTypedAnswer(attemptID, text string) error {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return ctrl.SetTypedAnswer(text)
}

// Submit finalizes the current answer.
func (s *SessionService) Submit(attemptID string) error {
	return s.command(attemptID, (*session.Controller).Submit)
}

// Advance moves past the feedback phase.
func (s *SessionService) Advance(attemptID string) error {
	return s.command(attemptID, (*session.Controller).Advance)
}

// Restart zeroes a finished attempt for another play-through over the same
// prepared order.
func (s *SessionService) Restart(attemptID string) error {
	return s.command(attemptID, (*session.Controller).Restart)
}

// Exit abandons and discards an attempt; both countdowns are cancelled.
func (s *SessionService) Exit(attemptID string) {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return
	}
	ctrl.Exit()
	s.attempts.Delete(attemptID)
}

// Snapshot returns the attempt's current renderable state.
func (s *SessionService) Snapshot(attemptID string) (session.Snapshot, error) {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return session.Snapshot{}, domain.ErrAttemptNotFound
	}
	return ctrl.Snapshot(), nil
}

// Subscribe returns a channel of state snapshots for the attempt. The caller
// must invoke the returned cancel function to avoid leaks.
func (s *SessionService) Subscribe(attemptID string) (<-chan session.Snapshot, func(), error) {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return nil, nil, domain.ErrAttemptNotFound
	}
	ch, cancel := ctrl.Subscribe()
	return ch, cancel, nil
}

func (s *SessionService) command(attemptID string, fn func(*session.Controller) error) error {
	ctrl, ok := s.attempts.Get(attemptID)
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return fn(ctrl)
}

// bestRecord picks the strongest prior attempt: highest percentage, then
// highest score, then the earliest one to reach it.
func bestRecord(records []domain.CompletionRecord) *domain.CompletionRecord {
	var best *domain.CompletionRecord
	for i := range records {
		r := &records[i]
		if best == nil {
			best = r
			continue
		}
		switch {
		case r.Percentage > best.Percentage:
			best = r
		case r.Percentage == best.Percentage && r.Score > best.Score:
			best = r
		case r.Percentage == best.Percentage && r.Score == best.Score && r.CompletedAt.Before(best.CompletedAt):
			best = r
		}
	}
	if best == nil {
		return nil
	}
	copied := *best
	return &copied
}
