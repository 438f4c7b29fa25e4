package session

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// TimerState is the countdown's lifecycle state.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
	TimerExpired
)

// Timer is a one-second-cadence countdown with pause/resume, cancel, and an
// exactly-once expiry callback per arming. Two instances run concurrently
// when both a per-question and a whole-session limit are configured; each
// owns its own goroutine and callback, so pausing one never touches the
// other.
//
// The clock is injected so tests drive virtual time instead of racing the
// wall clock.
type Timer struct {
	clk      clock.Clock
	onExpire func()

	mu        sync.Mutex
	state     TimerState
	remaining int
	gen       int
	stop      chan struct{}
}

// NewTimer builds an idle timer. The expiry callback is invoked at most once
// per Start, from the timer's own goroutine, without any timer lock held.
func NewTimer(clk clock.Clock, onExpire func()) *Timer {
	return &Timer{clk: clk, onExpire: onExpire, state: TimerIdle}
}

// Start arms the countdown. Re-arming an expired or already-running timer
// resets the remaining time and the callback-fired flag. A non-positive
// duration leaves the timer idle.
func (t *Timer) Start(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
	if seconds <= 0 {
		t.state = TimerIdle
		t.remaining = 0
		return
	}
	t.state = TimerRunning
	t.remaining = seconds
	t.spawnLocked()
}

// Pause suspends a running countdown; remaining seconds are preserved and no
// callback fires while paused.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.haltLocked()
	t.state = TimerPaused
}

// Resume continues a paused countdown from where it stopped.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerPaused {
		return
	}
	t.state = TimerRunning
	t.spawnLocked()
}

// Cancel returns the timer to idle from any state. An expiry that has not
// yet been committed will never fire after Cancel returns.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.haltLocked()
	t.state = TimerIdle
	t.remaining = 0
}

// State returns the current lifecycle state.
func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// haltLocked invalidates the current ticking goroutine, if any.
func (t *Timer) haltLocked() {
	t.gen++
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// spawnLocked creates the ticker before returning so the countdown observes
// every clock advance made after Start/Resume returns, even if the ticking
// goroutine has not been scheduled yet.
func (t *Timer) spawnLocked() {
	stop := make(chan struct{})
	t.stop = stop
	ticker := t.clk.Ticker(time.Second)
	go t.run(t.gen, ticker, stop)
}

func (t *Timer) run(gen int, ticker *clock.Ticker, stop chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fire, done := t.tick(gen)
			if fire {
				t.onExpire()
				return
			}
			if done {
				return
			}
		case <-stop:
			return
		}
	}
}

// tick decrements one second. It reports whether the countdown just expired
// (fire the callback) or the goroutine is stale and must exit.
func (t *Timer) tick(gen int) (fire, done bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || t.state != TimerRunning {
		return false, true
	}
	t.remaining--
	if t.remaining > 0 {
		return false, false
	}
	t.remaining = 0
	t.state = TimerExpired
	t.stop = nil
	return true, false
}
