package playback

import (
	"time"
)

// DefaultTick approximates one display frame.
const DefaultTick = 16 * time.Millisecond

// Scheduler runs fn once, later. The returned func cancels it if it has not run yet.
type Scheduler interface {
	Schedule(fn func()) (cancel func())
}

// FrameScheduler schedules on a fixed interval with time.AfterFunc.
type FrameScheduler struct {
	Interval time.Duration
}

// NewFrameScheduler returns a scheduler ticking every interval, DefaultTick if <= 0.
func NewFrameScheduler(interval time.Duration) FrameScheduler {
	if interval <= 0 {
		interval = DefaultTick
	}
	return FrameScheduler{Interval: interval}
}

func (f FrameScheduler) Schedule(fn func()) func() {
	t := time.AfterFunc(f.Interval, fn)
	return func() { t.Stop() }
}
