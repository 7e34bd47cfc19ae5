package player

import (
	"sync"
	"time"
)

// Clock returns the current time. time.Now in production.
type Clock func() time.Time

// Timeline tracks playback position from a reference clock: the position captured at the
// last start plus the time elapsed since. It never reads the decoder.
type Timeline struct {
	mu        sync.Mutex
	now       Clock
	limit     time.Duration
	base      time.Duration
	startedAt time.Time
	running   bool
}

// NewTimeline creates a stopped timeline at 0. Elapsed never exceeds limit when limit > 0.
func NewTimeline(now Clock, limit time.Duration) *Timeline {
	if now == nil {
		now = time.Now
	}
	return &Timeline{now: now, limit: limit}
}

// Start runs the timeline from position at.
func (t *Timeline) Start(at time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.base = t.clamp(at)
	t.startedAt = t.now()
	t.running = true
}

// Stop freezes the timeline and returns the position reached.
func (t *Timeline) Stop() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.base = t.elapsedLocked()
	t.running = false
	return t.base
}

// Elapsed returns the current position.
func (t *Timeline) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

// Running reports whether the timeline is advancing.
func (t *Timeline) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *Timeline) elapsedLocked() time.Duration {
	if !t.running {
		return t.base
	}
	return t.clamp(t.base + t.now().Sub(t.startedAt))
}

func (t *Timeline) clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if t.limit > 0 && d > t.limit {
		return t.limit
	}
	return d
}
