package player

import (
	"sync"
	"time"
)

// Mock is a SoundSource for tests. Its timeline runs on the supplied clock and it only
// ends when Finish is called.
type Mock struct {
	mu       sync.Mutex
	info     TrackInfo
	duration time.Duration
	timeline *Timeline
	gain     float64
	onEnd    func()
	starts   []time.Duration
	stops    int
	closed   bool

	// StartErr, when set, is returned by every Start.
	StartErr error
}

var _ SoundSource = (*Mock)(nil)

// NewMock creates a stopped mock of the given duration.
func NewMock(info TrackInfo, duration time.Duration, now Clock) *Mock {
	return &Mock{
		info:     info,
		duration: duration,
		timeline: NewTimeline(now, duration),
		gain:     1,
	}
}

func (m *Mock) Start(at time.Duration, onEnd func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if m.StartErr != nil {
		return m.StartErr
	}
	m.starts = append(m.starts, at)
	m.onEnd = onEnd
	m.timeline.Start(at)
	return nil
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.onEnd = nil
	m.timeline.Stop()
}

func (m *Mock) Elapsed() time.Duration { return m.timeline.Elapsed() }

func (m *Mock) SetGain(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gain = clampLevel(level)
}

func (m *Mock) Duration() time.Duration { return m.duration }

func (m *Mock) Info() TrackInfo { return m.info }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.onEnd = nil
	m.timeline.Stop()
	return nil
}

// Finish plays the track to its end and runs the pending end callback, if any.
// It reports whether a callback ran.
func (m *Mock) Finish() bool {
	m.mu.Lock()
	onEnd := m.onEnd
	m.onEnd = nil
	if onEnd != nil {
		m.timeline.Start(m.duration)
		m.timeline.Stop()
	}
	m.mu.Unlock()

	if onEnd == nil {
		return false
	}
	onEnd()
	return true
}

// Starts returns the positions passed to Start.
func (m *Mock) Starts() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.starts...)
}

// Stops returns how many times Stop was called.
func (m *Mock) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// Gain returns the last level set.
func (m *Mock) Gain() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gain
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Playing reports whether the mock timeline is running.
func (m *Mock) Playing() bool { return m.timeline.Running() }
