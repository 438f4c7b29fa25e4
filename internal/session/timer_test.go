package session

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// advance moves virtual time forward one second at a time, yielding between
// steps so the ticking goroutine observes every tick.
func advance(mock *clock.Mock, seconds int) {
	for i := 0; i < seconds; i++ {
		mock.Add(time.Second)
		time.Sleep(5 * time.Millisecond)
	}
}

func waitFired(t *testing.T, fired <-chan struct{}) {
	t.Helper()
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected expiry callback to fire")
	}
}

func assertNotFired(t *testing.T, fired <-chan struct{}) {
	t.Helper()
	select {
	case <-fired:
		t.Fatalf("expiry callback fired unexpectedly")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTimerExpiresExactlyOnce(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan struct{}, 4)
	timer := NewTimer(mock, func() { fired <- struct{}{} })

	timer.Start(3)
	advance(mock, 3)
	waitFired(t, fired)

	if got := timer.State(); got != TimerExpired {
		t.Fatalf("expected expired state, got %d", got)
	}

	// Further ticks must not fire again.
	advance(mock, 5)
	assertNotFired(t, fired)
}

func TestTimerCountsTicksImmediatelyAfterStart(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan struct{}, 1)
	timer := NewTimer(mock, func() { fired <- struct{}{} })

	// The countdown must be fully armed when Start returns: virtual time
	// added before the ticking goroutine is scheduled still counts.
	timer.Start(1)
	mock.Add(time.Second)
	waitFired(t, fired)

	timer.Start(2)
	mock.Add(time.Second)
	deadline := time.Now().Add(2 * time.Second)
	for timer.Remaining() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the first tick to be observed, got %d remaining", timer.Remaining())
		}
		time.Sleep(5 * time.Millisecond)
	}
	advance(mock, 1)
	waitFired(t, fired)
}

func TestTimerPauseResumePreservesRemaining(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan struct{}, 1)
	timer := NewTimer(mock, func() { fired <- struct{}{} })

	timer.Start(5)
	advance(mock, 2)
	timer.Pause()

	if got := timer.Remaining(); got != 3 {
		t.Fatalf("expected 3 seconds remaining after pause, got %d", got)
	}

	// Time passing while paused must not decrement or fire.
	advance(mock, 10)
	assertNotFired(t, fired)
	if got := timer.Remaining(); got != 3 {
		t.Fatalf("expected remaining unchanged while paused, got %d", got)
	}

	timer.Resume()
	advance(mock, 3)
	waitFired(t, fired)
}

func TestTimerCancelNeverFires(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan struct{}, 1)
	timer := NewTimer(mock, func() { fired <- struct{}{} })

	timer.Start(3)
	advance(mock, 1)
	timer.Cancel()

	if got := timer.State(); got != TimerIdle {
		t.Fatalf("expected idle state after cancel, got %d", got)
	}

	advance(mock, 10)
	assertNotFired(t, fired)
}

func TestTimerRearmAfterExpiry(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan struct{}, 2)
	timer := NewTimer(mock, func() { fired <- struct{}{} })

	timer.Start(2)
	advance(mock, 2)
	waitFired(t, fired)

	timer.Start(2)
	if got := timer.State(); got != TimerRunning {
		t.Fatalf("expected running state after re-arm, got %d", got)
	}
	advance(mock, 2)
	waitFired(t, fired)
}

func TestTwoTimersAreIndependent(t *testing.T) {
	mock := clock.NewMock()
	questionFired := make(chan struct{}, 1)
	totalFired := make(chan struct{}, 1)
	question := NewTimer(mock, func() { questionFired <- struct{}{} })
	total := NewTimer(mock, func() { totalFired <- struct{}{} })

	question.Start(10)
	total.Start(3)
	question.Pause()

	advance(mock, 3)
	waitFired(t, totalFired)
	assertNotFired(t, questionFired)

	if got := question.Remaining(); got != 10 {
		t.Fatalf("expected paused timer untouched, got %d remaining", got)
	}
}

func TestTimerNonPositiveDurationStaysIdle(t *testing.T) {
	mock := clock.NewMock()
	fired := make(chan struct{}, 1)
	timer := NewTimer(mock, func() { fired <- struct{}{} })

	timer.Start(0)
	if got := timer.State(); got != TimerIdle {
		t.Fatalf("expected idle state for zero duration, got %d", got)
	}
	advance(mock, 3)
	assertNotFired(t, fired)
}
