package playback

// State is the transport state of a Controller.
//
//	Idle --Play--> Loading --loaded--> Playing <--Pause/Resume--> Paused
//	Loading --no source--> Idle
//	Playing --track end--> Ended --Seek--> Paused
//	any but Loading --Play--> Loading
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateEnded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// HasSource reports whether a track is loaded in this state.
func (s State) HasSource() bool {
	return s == StatePlaying || s == StatePaused || s == StateEnded
}
