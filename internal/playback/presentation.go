package playback

import (
	"sync"
	"time"
)

// Presentation receives controller notifications. Calls are made outside the controller
// lock, so implementations may call back into the controller.
type Presentation interface {
	OnDurationKnown(d time.Duration)
	OnProgress(position time.Duration)
	OnPlayStateChanged(playing bool)
	OnVolumeChanged(level float64, muted bool)
	OnTrackChanged(track string)
	OnError(message string)
}

// NopPresentation ignores every notification. Embed it to implement a subset.
type NopPresentation struct{}

func (NopPresentation) OnDurationKnown(time.Duration) {}
func (NopPresentation) OnProgress(time.Duration)      {}
func (NopPresentation) OnPlayStateChanged(bool)       {}
func (NopPresentation) OnVolumeChanged(float64, bool) {}
func (NopPresentation) OnTrackChanged(string)         {}
func (NopPresentation) OnError(string)                {}

// Label is a "now playing" text the controller decorates while a track plays, such as a
// window or terminal title.
type Label interface {
	Text() string
	SetText(text string)
}

// TextLabel is an in-memory Label.
type TextLabel struct {
	mu   sync.Mutex
	text string
}

// NewTextLabel returns a label holding text.
func NewTextLabel(text string) *TextLabel {
	return &TextLabel{text: text}
}

func (l *TextLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *TextLabel) SetText(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.text = text
}

// nowPlaying decorates a Label and restores the text it held before.
type nowPlaying struct {
	mu        sync.Mutex
	label     Label
	baseline  string
	decorated bool
}

func (n *nowPlaying) decorate(title string) {
	if n.label == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.decorated {
		n.baseline = n.label.Text()
		n.decorated = true
	}
	n.label.SetText("▶ " + title)
}

func (n *nowPlaying) restore() {
	if n.label == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.decorated {
		return
	}
	n.label.SetText(n.baseline)
	n.decorated = false
}
