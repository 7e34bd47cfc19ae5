package player

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// BufferSource decodes the whole track into memory and plays slices of the buffer.
// Gain is applied through a linear effects.Gain.
type BufferSource struct {
	sourceBase
	buffer *beep.Buffer
	format beep.Format
	gainFx *effects.Gain
}

// NewBufferSource drains and closes decoder.
func NewBufferSource(decoder beep.StreamSeekCloser, format beep.Format, info TrackInfo, out Output, now Clock) (*BufferSource, error) {
	defer decoder.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(decoder)
	if err := decoder.Err(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if buffer.Len() == 0 {
		return nil, ErrEmptyTrack
	}
	s := &BufferSource{buffer: buffer, format: format}
	s.init(out, info, format.SampleRate.D(buffer.Len()), now)
	return s, nil
}

// Start plays the buffer from at to the end.
func (s *BufferSource) Start(at time.Duration, onEnd func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.stopLocked()

	at = s.startPosition(at)
	from := min(s.format.SampleRate.N(at), s.buffer.Len())

	token := s.token.Add(1)
	s.gainFx = &effects.Gain{
		Streamer: s.buffer.Streamer(from, s.buffer.Len()),
		Gain:     levelToGain(s.gain),
	}
	s.timeline.Start(at)
	if err := s.out.Play(beep.Seq(s.gainFx, beep.Callback(s.endCallback(token, onEnd))), s.format); err != nil {
		s.timeline.Stop()
		s.gainFx = nil
		return err
	}
	s.active = true
	return nil
}

// SetGain scales samples linearly; 0 silences.
func (s *BufferSource) SetGain(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gain = clampLevel(level)
	if s.gainFx == nil {
		return
	}
	s.out.Locked(func() {
		s.gainFx.Gain = levelToGain(s.gain)
	})
}

// Close stops playback and drops the buffer.
func (s *BufferSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.stopLocked()
	s.closed = true
	s.gainFx = nil
	s.buffer = nil
	return nil
}
