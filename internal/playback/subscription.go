package playback

import (
	"sync"
	"time"
)

const eventBufferSize = 16

// Subscription delivers controller notifications over channels. Sends never block: an
// event is dropped when its buffer is full.
type Subscription struct {
	StateChanged    <-chan PlayStateChange
	TrackChanged    <-chan TrackChange
	DurationKnown   <-chan DurationChange
	PositionChanged <-chan PositionChange
	VolumeChanged   <-chan VolumeChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan PlayStateChange
	trackCh    chan TrackChange
	durationCh chan DurationChange
	positionCh chan PositionChange
	volumeCh   chan VolumeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}

	mu     sync.Mutex
	closed bool
}

var _ Presentation = (*Subscription)(nil)

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan PlayStateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		durationCh: make(chan DurationChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		volumeCh:   make(chan VolumeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.DurationKnown = s.durationCh
	s.PositionChanged = s.positionCh
	s.VolumeChanged = s.volumeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing Done.
func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.doneCh)
	}
}

func (s *Subscription) OnDurationKnown(d time.Duration) {
	send(s.durationCh, DurationChange{Duration: d})
}

func (s *Subscription) OnTrackChanged(track string) {
	send(s.trackCh, TrackChange{Track: track})
}

func (s *Subscription) OnProgress(position time.Duration) {
	send(s.positionCh, PositionChange{Position: position})
}

func (s *Subscription) OnPlayStateChanged(playing bool) {
	send(s.stateCh, PlayStateChange{Playing: playing})
}

func (s *Subscription) OnVolumeChanged(level float64, muted bool) {
	send(s.volumeCh, VolumeChange{Level: level, Muted: muted})
}

func (s *Subscription) OnError(message string) {
	send(s.errorCh, ErrorEvent{Message: message})
}

func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
		// Drop if buffer full
	}
}
