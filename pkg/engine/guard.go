package engine

import (
	"sync"
	"time"
)

// DefaultQuiescence is the window after a reactive run during which notifications are dropped.
const DefaultQuiescence = 2 * time.Second

// Clock reports the current time. Tests inject a fake one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Guard is a global debounce protecting the reactive path from its own writes.
//
// A notification is admitted only when at least the quiescence window has passed since the
// last admitted one. The admission time is recorded before processing starts, so bursts of
// notifications cannot start overlapping runs.
type Guard struct {
	mu     sync.Mutex
	clock  Clock
	window time.Duration
	last   time.Time
}

// NewGuard creates a Guard. A nil clock means SystemClock; a non-positive window means
// DefaultQuiescence.
func NewGuard(window time.Duration, clock Clock) *Guard {
	if clock == nil {
		clock = SystemClock{}
	}
	if window <= 0 {
		window = DefaultQuiescence
	}
	return &Guard{clock: clock, window: window}
}

// Admit reports whether a notification may run, recording the run time when it may.
func (g *Guard) Admit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if !g.last.IsZero() && now.Sub(g.last) < g.window {
		return false
	}
	g.last = now
	return true
}

// LastRun returns the time of the last admitted notification, zero if none.
func (g *Guard) LastRun() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Window returns the quiescence window.
func (g *Guard) Window() time.Duration {
	return g.window
}
