package player

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// StreamSource plays directly from a seekable decoder, like a media element would.
// Gain is applied through effects.Volume.
type StreamSource struct {
	sourceBase
	decoder beep.StreamSeekCloser
	format  beep.Format
	volume  *effects.Volume
}

// NewStreamSource takes ownership of decoder.
func NewStreamSource(decoder beep.StreamSeekCloser, format beep.Format, info TrackInfo, out Output, now Clock) (*StreamSource, error) {
	length := decoder.Len()
	if length <= 0 {
		_ = decoder.Close()
		return nil, ErrEmptyTrack
	}
	s := &StreamSource{decoder: decoder, format: format}
	s.init(out, info, format.SampleRate.D(length), now)
	return s, nil
}

// Start seeks the decoder to at and plays from there.
func (s *StreamSource) Start(at time.Duration, onEnd func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.stopLocked()

	at = s.startPosition(at)
	var seekErr error
	s.out.Locked(func() {
		seekErr = s.decoder.Seek(s.format.SampleRate.N(at))
	})
	if seekErr != nil {
		return fmt.Errorf("seek decoder: %w", seekErr)
	}

	token := s.token.Add(1)
	s.volume = &effects.Volume{
		Streamer: s.decoder,
		Base:     2,
		Volume:   levelToVolume(s.gain),
		Silent:   s.gain <= 0,
	}
	s.timeline.Start(at)
	if err := s.out.Play(beep.Seq(s.volume, beep.Callback(s.endCallback(token, onEnd))), s.format); err != nil {
		s.timeline.Stop()
		s.volume = nil
		return err
	}
	s.active = true
	return nil
}

// SetGain maps level onto the logarithmic volume effect; 0 silences.
func (s *StreamSource) SetGain(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gain = clampLevel(level)
	if s.volume == nil {
		return
	}
	s.out.Locked(func() {
		s.volume.Volume = levelToVolume(s.gain)
		s.volume.Silent = s.gain <= 0
	})
}

// Close stops playback and closes the decoder.
func (s *StreamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.stopLocked()
	s.closed = true
	s.volume = nil
	return s.decoder.Close()
}
