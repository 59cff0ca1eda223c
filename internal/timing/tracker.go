// Package timing measures how long a learner actively spends on a question.
package timing

import (
	"math"
	"sync"
	"time"
)

// Clock is the time source used by a Tracker.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// State is the tracker's foreground state.
type State int

const (
	StateActive State = iota
	StatePaused
)

// Tracker accumulates foreground time for the current question. Time spent
// while paused (the host reports the session as backgrounded) is excluded.
// A Tracker is safe for concurrent use so the host can signal visibility
// changes from its own goroutine.
type Tracker struct {
	mu          sync.Mutex
	clock       Clock
	state       State
	activeSince time.Time
	accumulated time.Duration
}

// NewTracker creates a tracker in the active state. If clock is nil the
// system clock is used.
func NewTracker(clock Clock) *Tracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &Tracker{clock: clock, activeSince: clock.Now()}
}

// Start begins measuring from now, discarding anything accumulated.
func (t *Tracker) Start() {
	t.Reset()
}

// Pause stops accumulating. Pausing a paused tracker is a no-op.
func (t *Tracker) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StatePaused {
		return
	}
	t.accumulated += t.sinceActive()
	t.state = StatePaused
}

// Resume restarts accumulation from now. Resuming an active tracker is a
// no-op.
func (t *Tracker) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateActive {
		return
	}
	t.activeSince = t.clock.Now()
	t.state = StateActive
}

// Reset zeroes the accumulated time and restarts measurement from now in
// the active state. Used when moving to a new question.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.accumulated = 0
	t.activeSince = t.clock.Now()
	t.state = StateActive
}

// Elapsed returns the active time measured so far.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := t.accumulated
	if t.state == StateActive {
		total += t.sinceActive()
	}
	if total < 0 {
		return 0
	}
	return total
}

// ElapsedSeconds returns Elapsed rounded to the nearest whole second.
func (t *Tracker) ElapsedSeconds() int {
	ms := t.Elapsed().Milliseconds()
	return int(math.Round(float64(ms) / 1000))
}

// State returns the current foreground state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// sinceActive is clamped at zero so a clock stepping backwards cannot
// drive the counter negative.
func (t *Tracker) sinceActive() time.Duration {
	d := t.clock.Now().Sub(t.activeSince)
	if d < 0 {
		return 0
	}
	return d
}
