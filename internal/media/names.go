// Package media validates album and track names and classifies audio files.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrInvalidName is matched by every ValidationError.
	ErrInvalidName = errors.New("invalid name")
	// ErrNotAudio is matched when a track name lacks a playable extension.
	ErrNotAudio = errors.New("not a playable audio file")
)

// Audio file extensions accepted as tracks.
const (
	extMP3 = ".mp3"
	extWAV = ".wav"
	extOGG = ".ogg"
	extM4A = ".m4a"
	extAAC = ".aac"
)

var audioExtensions = []string{extMP3, extWAV, extOGG, extM4A, extAAC}

// ValidationError reports a rejected album or track name.
type ValidationError struct {
	Field    string // "album" or "track"
	Value    string
	Reason   string
	notAudio bool
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s name: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s name %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes the error match ErrInvalidName, and ErrNotAudio for extension failures.
func (e *ValidationError) Is(target error) bool {
	if target == ErrInvalidName {
		return true
	}
	return e.notAudio && target == ErrNotAudio
}

// ValidateAlbum checks that name can be used as a single path segment.
func ValidateAlbum(name string) error {
	return validateSegment("album", name)
}

// ValidateTrack checks the segment rules plus the audio extension allow-list.
func ValidateTrack(name string) error {
	if err := validateSegment("track", name); err != nil {
		return err
	}
	if !IsAudioFile(name) {
		return &ValidationError{
			Field:    "track",
			Value:    name,
			Reason:   "extension must be one of " + strings.Join(audioExtensions, " "),
			notAudio: true,
		}
	}
	return nil
}

func validateSegment(field, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &ValidationError{Field: field, Value: name, Reason: "empty"}
	case name == "." || name == "..":
		return &ValidationError{Field: field, Value: name, Reason: "path traversal"}
	case strings.ContainsAny(name, "/\\\x00"):
		return &ValidationError{Field: field, Value: name, Reason: "contains a path separator"}
	}
	return nil
}

// IsAudioFile reports whether name carries a playable extension.
func IsAudioFile(name string) bool {
	return slices.Contains(audioExtensions, Ext(name))
}

// Ext returns the lowercased extension of name, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// AudioExtensions returns the accepted extensions in display order.
func AudioExtensions() []string {
	return slices.Clone(audioExtensions)
}
