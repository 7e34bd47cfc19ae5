package playback

import "time"

// PlayStateChange is emitted when sound starts or stops.
type PlayStateChange struct {
	Playing bool
}

// TrackChange is emitted when a track starts after a successful Play.
type TrackChange struct {
	Track string
}

// DurationChange is emitted once per loaded track, after its TrackChange.
type DurationChange struct {
	Duration time.Duration
}

// PositionChange is emitted on every progress tick and after a seek.
type PositionChange struct {
	Position time.Duration
}

// VolumeChange is emitted when the level or mute flag changes.
type VolumeChange struct {
	Level float64
	Muted bool
}

// ErrorEvent carries a human-readable failure message.
type ErrorEvent struct {
	Message string
}
