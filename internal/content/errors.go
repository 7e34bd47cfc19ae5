package content

import (
	"errors"
	"fmt"
)

// Resolution failure kinds, matched with errors.Is on a *ResolutionError.
var (
	ErrHostUnavailable = errors.New("content host unavailable")
	ErrNoAlbumsFound   = errors.New("no albums found")
	ErrNoTracksFound   = errors.New("no tracks found")
)

// ResolutionError is returned when a listing could not be produced after every attempt.
type ResolutionError struct {
	Album    string // empty for the album list
	Attempts int
	Kind     error
	Err      error // last underlying cause, may be nil
}

func (e *ResolutionError) Error() string {
	target := "albums"
	if e.Album != "" {
		target = fmt.Sprintf("tracks of %q", e.Album)
	}
	msg := fmt.Sprintf("resolve %s: %v after %d attempts", target, e.Kind, e.Attempts)
	if e.Err != nil && !errors.Is(e.Err, e.Kind) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// StatusError reports a listing response outside the 2xx range.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}
