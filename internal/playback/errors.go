package playback

import (
	"errors"
	"fmt"

	"github.com/llehouerou/tapedeck/internal/media"
)

var (
	// ErrSourceUnavailable means no location of a track could be loaded.
	ErrSourceUnavailable = errors.New("no playable source")
	// ErrClosed is returned by Play after Close.
	ErrClosed = errors.New("controller closed")
)

// PlaybackError is returned by Play when every location failed.
type PlaybackError struct {
	Track media.TrackRef
	Kind  error
	Err   error // last cause
}

func (e *PlaybackError) Error() string {
	msg := fmt.Sprintf("play %s: %v", e.Track, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PlaybackError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// TransportError is a start or stop failure on an already loaded source. It is logged
// and never returned.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
