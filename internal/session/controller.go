package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"quiz-session-service/internal/domain"
)

// Controller drives one learner through one prepared attempt. It owns the
// session state exclusively: all mutation happens inside its mutex, in
// response to exactly one user command or one timer expiry at a time, so
// transitions are atomic with respect to each other.
//
// The terminal CompletionRecord is emitted exactly once per play-through via
// the onComplete callback, after the transition into the results phase.
type Controller struct {
	attemptID  string
	quiz       domain.Quiz
	settings   domain.SessionSettings
	clk        clock.Clock
	onComplete func(domain.CompletionRecord)

	mu            sync.Mutex
	prepared      []domain.Question
	phase         Phase
	current       int
	answers       map[string]*domain.Answer
	streak        int
	maxStreak     int
	timeSpent     int
	questionStart time.Time
	questionTimer *Timer
	totalTimer    *Timer
	record        *domain.CompletionRecord
	emitted       bool
	closed        bool
	subscribers   map[chan Snapshot]struct{}
}

// NewController validates the quiz, runs preparation exactly once (the
// resulting question/option order is frozen for the controller's lifetime,
// restarts included) and returns a controller in the intro phase.
func NewController(
	attemptID string,
	quiz domain.Quiz,
	settings domain.SessionSettings,
	clk clock.Clock,
	rnd *rand.Rand,
	onComplete func(domain.CompletionRecord),
) (*Controller, error) {
	if err := validatePlayable(quiz.Questions); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	c := &Controller{
		attemptID:   attemptID,
		quiz:        quiz,
		settings:    settings,
		clk:         clk,
		onComplete:  onComplete,
		prepared:    Prepare(quiz, settings, rnd),
		phase:       PhaseIntro,
		answers:     make(map[string]*domain.Answer),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	if settings.TimerEnabled {
		if settings.TotalTimeLimitSeconds > 0 {
			c.totalTimer = NewTimer(clk, c.onTotalExpired)
		}
		c.questionTimer = NewTimer(clk, c.onQuestionExpired)
	}
	return c, nil
}

// Start moves intro -> playing: zeroes streak/score/elapsed state and arms
// the total and first-question countdowns when configured.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrAttemptNotFound
	}
	if c.phase != PhaseIntro {
		c.mu.Unlock()
		return domain.ErrInvalidPhase
	}
	c.answers = make(map[string]*domain.Answer)
	c.streak = 0
	c.maxStreak = 0
	c.timeSpent = 0
	c.current = 0
	c.record = nil
	c.phase = PhasePlaying
	c.questionStart = c.clk.Now()
	if c.totalTimer != nil {
		c.totalTimer.Start(c.settings.TotalTimeLimitSeconds)
	}
	c.armQuestionTimerLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// SelectOption records the single selection for a single-choice question,
// replacing any previous one.
func (c *Controller) SelectOption(optionID string) error {
	return c.withCurrentAnswer(domain.SingleChoice, optionID, func(a *domain.Answer) {
		a.SelectedOptionIDs = []string{optionID}
	})
}

// ToggleOption flips membership of an option in a multi-select answer.
func (c *Controller) ToggleOption(optionID string) error {
	return c.withCurrentAnswer(domain.MultiSelect, optionID, func(a *domain.Answer) {
		if a.HasSelection(optionID) {
			kept := a.SelectedOptionIDs[:0]
			for _, id := range a.SelectedOptionIDs {
				if id != optionID {
					kept = append(kept, id)
				}
			}
			a.SelectedOptionIDs = kept
		} else {
			a.SelectedOptionIDs = append(a.SelectedOptionIDs, optionID)
		}
	})
}

// SetTypedAnswer stores the free-text answer of a type-in question.
func (c *Controller) SetTypedAnswer(text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrAttemptNotFound
	}
	if c.phase != PhasePlaying {
		c.mu.Unlock()
		return domain.ErrInvalidPhase
	}
	q := c.prepared[c.current]
	if q.Type != domain.TypeIn {
		c.mu.Unlock()
		return domain.ErrWrongQuestionType
	}
	a := c.answerLocked(q.ID)
	a.TypedAnswer = text
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// Submit finalizes the current answer explicitly. Submissions without
// meaningful content are rejected as no-ops; only timer expiry may score an
// unanswered question.
func (c *Controller) Submit() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrAttemptNotFound
	}
	if c.phase != PhasePlaying {
		c.mu.Unlock()
		return domain.ErrInvalidPhase
	}
	q := c.prepared[c.current]
	a := c.answers[q.ID]
	if !hasContent(q, a) {
		c.mu.Unlock()
		return domain.ErrEmptyAnswer
	}
	c.finalizeLocked(q, a, false)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// Advance moves feedback -> playing for the next question, or to results
// after the last one.
func (c *Controller) Advance() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrAttemptNotFound
	}
	if c.phase != PhaseFeedback {
		c.mu.Unlock()
		return domain.ErrInvalidPhase
	}
	if c.current == len(c.prepared)-1 {
		c.finishLocked(c.timeSpent)
	} else {
		c.current++
		c.phase = PhasePlaying
		c.questionStart = c.clk.Now()
		c.armQuestionTimerLocked()
	}
	snap := c.snapshotLocked()
	emit := c.takeEmitLocked()
	c.mu.Unlock()
	c.publish(snap)
	if emit != nil {
		c.onComplete(*emit)
	}
	return nil
}

// Restart returns a finished session to intro. Score, streak and elapsed
// time are zeroed; the prepared question order is reused unchanged.
func (c *Controller) Restart() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrAttemptNotFound
	}
	if c.phase != PhaseResults {
		c.mu.Unlock()
		return domain.ErrInvalidPhase
	}
	c.phase = PhaseIntro
	c.current = 0
	c.answers = make(map[string]*domain.Answer)
	c.streak = 0
	c.maxStreak = 0
	c.timeSpent = 0
	c.record = nil
	c.emitted = false
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// Exit abandons the attempt from any phase: both countdowns are cancelled so
// no expiry callback fires afterwards, and the state is discarded.
func (c *Controller) Exit() {
	c.mu.Lock()
	c.closed = true
	if c.questionTimer != nil {
		c.questionTimer.Cancel()
	}
	if c.totalTimer != nil {
		c.totalTimer.Cancel()
	}
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
	c.mu.Unlock()
}

// Snapshot returns the current renderable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot after every applied
// transition, starting with the current state. The caller must invoke the
// returned cancel function to avoid leaks.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	initial := c.snapshotLocked()
	c.mu.Unlock()

	ch <- initial

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

// onQuestionExpired is the per-question countdown callback: it forces a
// submission with whatever answer exists, synthesizing an empty, incorrect
// one when the learner never interacted.
func (c *Controller) onQuestionExpired() {
	c.mu.Lock()
	if c.closed || c.phase != PhasePlaying {
		c.mu.Unlock()
		return
	}
	q := c.prepared[c.current]
	a := c.answerLocked(q.ID)
	c.finalizeLocked(q, a, true)
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
}

// onTotalExpired truncates the session: remaining questions stay unanswered
// and count as incorrect in the aggregate.
func (c *Controller) onTotalExpired() {
	c.mu.Lock()
	if c.closed || (c.phase != PhasePlaying && c.phase != PhaseFeedback) {
		c.mu.Unlock()
		return
	}
	c.finishLocked(c.settings.TotalTimeLimitSeconds)
	snap := c.snapshotLocked()
	emit := c.takeEmitLocked()
	c.mu.Unlock()
	c.publish(snap)
	if emit != nil {
		c.onComplete(*emit)
	}
}

// withCurrentAnswer applies a selection mutation to the current question's
// lazily created answer, guarding phase, variant and option identity.
func (c *Controller) withCurrentAnswer(want domain.QuestionType, optionID string, mutate func(*domain.Answer)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrAttemptNotFound
	}
	if c.phase != PhasePlaying {
		c.mu.Unlock()
		return domain.ErrInvalidPhase
	}
	q := c.prepared[c.current]
	if q.Type != want {
		c.mu.Unlock()
		return domain.ErrWrongQuestionType
	}
	if !optionExists(q, optionID) {
		c.mu.Unlock()
		return domain.ErrOptionNotFound
	}
	mutate(c.answerLocked(q.ID))
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

// finalizeLocked runs evaluation and the shared submit bookkeeping: stamps
// the answer, updates the streak, disarms the question timer and enters
// feedback.
func (c *Controller) finalizeLocked(q domain.Question, a *domain.Answer, forced bool) {
	elapsed := int(c.clk.Since(c.questionStart) / time.Second)
	if limit := c.questionLimit(q); forced && limit > 0 && elapsed > limit {
		elapsed = limit
	}
	a.IsCorrect = Evaluate(q, a, c.settings.TypeInContains)
	a.Submitted = true
	a.TimeSpentSeconds = elapsed
	c.timeSpent += elapsed

	if a.IsCorrect {
		c.streak++
		if c.streak > c.maxStreak {
			c.maxStreak = c.streak
		}
	} else {
		c.streak = 0
	}

	if c.questionTimer != nil {
		c.questionTimer.Cancel()
	}
	c.phase = PhaseFeedback
}

// finishLocked enters the terminal phase, stops all countdowns and builds
// the CompletionRecord.
func (c *Controller) finishLocked(timeSpent int) {
	var remaining *int
	if c.totalTimer != nil {
		r := c.totalTimer.Remaining()
		remaining = &r
	}
	if c.questionTimer != nil {
		c.questionTimer.Cancel()
	}
	if c.totalTimer != nil {
		c.totalTimer.Cancel()
	}
	c.phase = PhaseResults
	c.timeSpent = timeSpent
	rec := aggregate(
		c.attemptID, c.quiz.ID, c.prepared, c.answers,
		c.maxStreak, c.timeSpent, remaining, c.clk.Now(),
	)
	c.record = &rec
}

// takeEmitLocked hands out the CompletionRecord exactly once.
func (c *Controller) takeEmitLocked() *domain.CompletionRecord {
	if c.record == nil || c.emitted || c.onComplete == nil {
		return nil
	}
	c.emitted = true
	rec := *c.record
	return &rec
}

func (c *Controller) answerLocked(questionID string) *domain.Answer {
	a, ok := c.answers[questionID]
	if !ok {
		a = &domain.Answer{QuestionID: questionID}
		c.answers[questionID] = a
	}
	return a
}

func (c *Controller) armQuestionTimerLocked() {
	if c.questionTimer == nil {
		return
	}
	if limit := c.questionLimit(c.prepared[c.current]); limit > 0 {
		c.questionTimer.Start(limit)
	} else {
		c.questionTimer.Cancel()
	}
}

// questionLimit resolves the per-question limit: the question's own limit
// wins, otherwise the session-wide default applies.
func (c *Controller) questionLimit(q domain.Question) int {
	if !c.settings.TimerEnabled {
		return 0
	}
	if q.TimeLimitSeconds > 0 {
		return q.TimeLimitSeconds
	}
	return c.settings.TimePerQuestionSeconds
}

// publish fans a snapshot out to subscribers. Slow consumers have their
// stale snapshot replaced rather than blocking the transition.
func (c *Controller) publish(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func optionExists(q domain.Question, optionID string) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
