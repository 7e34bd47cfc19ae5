package player

import (
	"sync"
	"sync/atomic"
	"time"
)

// sourceBase holds what both backends share: the output, the timeline and the start
// token that invalidates end callbacks from earlier starts.
type sourceBase struct {
	mu       sync.Mutex
	out      Output
	info     TrackInfo
	duration time.Duration
	timeline *Timeline
	gain     float64
	active   bool
	closed   bool
	token    atomic.Uint64
}

func (b *sourceBase) init(out Output, info TrackInfo, duration time.Duration, now Clock) {
	if out == nil {
		out = Speaker()
	}
	b.out = out
	b.info = info
	b.duration = duration
	b.timeline = NewTimeline(now, duration)
	b.gain = 1
}

func (b *sourceBase) Elapsed() time.Duration { return b.timeline.Elapsed() }

func (b *sourceBase) Duration() time.Duration { return b.duration }

func (b *sourceBase) Info() TrackInfo { return b.info }

// Stop halts the source. Safe to call when already stopped.
func (b *sourceBase) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *sourceBase) stopLocked() {
	b.token.Add(1)
	if !b.active {
		return
	}
	b.out.Clear()
	b.timeline.Stop()
	b.active = false
}

// startPosition clamps at to the track.
func (b *sourceBase) startPosition(at time.Duration) time.Duration {
	return max(0, min(at, b.duration))
}

// endCallback returns the output callback for the start identified by token.
func (b *sourceBase) endCallback(token uint64, onEnd func()) func() {
	return func() {
		if onEnd == nil || b.token.Load() != token {
			return
		}
		// The output runs callbacks while mixing; hand off so onEnd may call Stop.
		go onEnd()
	}
}
