// Package player decodes tracks and plays them through the speaker.
//
// Two backends implement SoundSource. StreamSource decodes while playing, seeking the
// decoder on every start. BufferSource decodes the whole track up front and plays from
// memory. Both account elapsed time through a Timeline so callers see the same clock
// regardless of backend.
package player

import (
	"errors"
	"time"
)

// SoundSource is one loaded track that can be started and stopped repeatedly.
type SoundSource interface {
	// Start begins sound production at position at. onEnd is called once, from another
	// goroutine, if the track plays to completion before the next Stop or Start.
	Start(at time.Duration, onEnd func()) error
	// Stop halts sound production. Elapsed keeps the position reached.
	Stop()
	// Elapsed returns the current position on the source timeline.
	Elapsed() time.Duration
	// SetGain sets the output level in [0,1].
	SetGain(level float64)
	Duration() time.Duration
	Info() TrackInfo
	// Close stops the source and releases the decoder and underlying file.
	Close() error
}

// TrackInfo describes a loaded track.
type TrackInfo struct {
	Name       string // track file name
	Title      string // from tags, may be empty
	Artist     string
	Album      string
	Format     string // "MP3", "WAV", "OGG", "AAC", "ALAC"
	SampleRate int
	Origin     Origin
}

// DisplayTitle returns the tag title, falling back to the file name.
func (i TrackInfo) DisplayTitle() string {
	if i.Title == "" {
		return i.Name
	}
	if i.Artist == "" {
		return i.Title
	}
	return i.Artist + " - " + i.Title
}

var (
	// ErrClosed is returned by Start on a closed source.
	ErrClosed = errors.New("sound source closed")
	// ErrEmptyTrack is returned when a track decodes to zero samples.
	ErrEmptyTrack = errors.New("track has no audio")
)

// clampLevel limits a gain level to [0,1].
func clampLevel(level float64) float64 {
	if level != level { // NaN
		return 0
	}
	return min(max(level, 0), 1)
}
