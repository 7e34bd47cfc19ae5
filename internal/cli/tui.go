package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tapedeck/internal/playback"
	"github.com/llehouerou/tapedeck/internal/timefmt"
)

const (
	seekStep   = 0.1
	volumeStep = 0.05
)

var playerBarStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var (
	albumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	trackStyle  = lipgloss.NewStyle().Bold(true)
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// titleMsg asks the program to refresh the terminal title from the label.
type titleMsg struct{}

// noiseMsg is a line a C library wrote to stderr.
type noiseMsg string

// playDoneMsg reports that a Play call returned.
type playDoneMsg struct {
	index   int
	started bool
	err     error
}

// titleLabel is the "now playing" label shown as the terminal title. SetText may run
// inside Update, so the program is notified asynchronously and reads the latest text.
type titleLabel struct {
	mu   sync.Mutex
	text string
	send func(tea.Msg)
}

func newTitleLabel(text string) *titleLabel {
	return &titleLabel{text: text}
}

func (l *titleLabel) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}

func (l *titleLabel) SetText(text string) {
	l.mu.Lock()
	l.text = text
	send := l.send
	l.mu.Unlock()
	if send != nil {
		go send(titleMsg{})
	}
}

func (l *titleLabel) attach(send func(tea.Msg)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.send = send
}

// playerModel drives a Controller through an album's track list.
type playerModel struct {
	ctx    context.Context
	ctrl   *playback.Controller
	sub    *playback.Subscription
	title  *titleLabel
	noise  <-chan string
	keys   keyMap
	help   help.Model
	album  string
	tracks []string
	index  int

	track    string
	position time.Duration
	duration time.Duration
	playing  bool
	loading  bool
	volume   float64
	muted    bool
	status   string
	width    int
}

func newPlayerModel(
	ctx context.Context,
	ctrl *playback.Controller,
	title *titleLabel,
	album string,
	tracks []string,
	start int,
) playerModel {
	return playerModel{
		ctx:     ctx,
		ctrl:    ctrl,
		sub:     ctrl.Subscribe(),
		title:   title,
		keys:    newKeyMap(),
		help:    help.New(),
		album:   album,
		tracks:  tracks,
		index:   start,
		loading: true,
		volume:  ctrl.Volume(),
		muted:   ctrl.Muted(),
	}
}

func (m playerModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.sub), waitForNoise(m.noise), m.playCmd(m.index))
}

// withNoise shows lines captured from stderr in the status line.
func (m playerModel) withNoise(lines <-chan string) playerModel {
	m.noise = lines
	return m
}

func waitForNoise(lines <-chan string) tea.Cmd {
	if lines == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-lines
		if !ok {
			return nil
		}
		return noiseMsg(line)
	}
}

// waitForEvent delivers the next controller notification as a message.
func waitForEvent(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return e
		case e := <-sub.TrackChanged:
			return e
		case e := <-sub.DurationKnown:
			return e
		case e := <-sub.PositionChanged:
			return e
		case e := <-sub.VolumeChanged:
			return e
		case e := <-sub.Error:
			return e
		case <-sub.Done:
			return nil
		}
	}
}

func (m playerModel) playCmd(index int) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	album, track := m.album, m.tracks[index]
	return func() tea.Msg {
		started, err := ctrl.Play(ctx, album, track)
		return playDoneMsg{index: index, started: started, err: err}
	}
}

// advance starts the track at index, if there is one.
func (m playerModel) advance(index int) (playerModel, tea.Cmd) {
	if index < 0 || index >= len(m.tracks) || m.loading {
		return m, nil
	}
	m.index = index
	m.loading = true
	return m, m.playCmd(index)
}

func (m playerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case titleMsg:
		return m, tea.SetWindowTitle(m.title.Text())

	case noiseMsg:
		m.status = string(msg)
		return m, waitForNoise(m.noise)

	case playDoneMsg:
		m.loading = false
		if msg.err == nil && msg.started {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case playback.TrackChange:
		m.track = msg.Track
		m.position = 0
		m.status = ""
	case playback.DurationChange:
		m.duration = msg.Duration
	case playback.PositionChange:
		m.position = msg.Position
	case playback.VolumeChange:
		m.volume = msg.Level
		m.muted = msg.Muted
	case playback.ErrorEvent:
		m.status = msg.Message
	case playback.PlayStateChange:
		m.playing = msg.Playing
		if !msg.Playing && m.ctrl.State() == playback.StateEnded {
			next, cmd := m.advance(m.index + 1)
			return next, tea.Batch(waitForEvent(m.sub), cmd)
		}
	default:
		return m, nil
	}
	return m, waitForEvent(m.sub)
}

func (m playerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		_ = m.ctrl.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		switch m.ctrl.State() {
		case playback.StatePlaying:
			m.ctrl.Pause()
		case playback.StatePaused:
			m.ctrl.Resume()
		case playback.StateEnded:
			return m.advance(m.index)
		}
	case key.Matches(msg, m.keys.seekBack):
		m.seekBy(-seekStep)
	case key.Matches(msg, m.keys.seekForward):
		m.seekBy(seekStep)
	case key.Matches(msg, m.keys.volumeUp):
		m.ctrl.SetVolume(m.ctrl.Volume() + volumeStep)
	case key.Matches(msg, m.keys.volumeDown):
		m.ctrl.SetVolume(m.ctrl.Volume() - volumeStep)
	case key.Matches(msg, m.keys.mute):
		m.ctrl.ToggleMute()
	case key.Matches(msg, m.keys.next):
		return m.advance(m.index + 1)
	case key.Matches(msg, m.keys.prev):
		return m.advance(m.index - 1)
	case key.Matches(msg, m.keys.showHelp):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m playerModel) seekBy(delta float64) {
	if !m.ctrl.State().HasSource() {
		return
	}
	progress := timefmt.Progress(m.ctrl.CurrentTime(), m.ctrl.Duration())
	m.ctrl.Seek(timefmt.Clamp01(progress + delta))
}

func (m playerModel) View() string {
	innerWidth := max(m.width-4, 20)

	status := "⏸"
	switch {
	case m.loading:
		status = "…"
	case m.playing:
		status = "▶"
	}

	title := m.track
	if title == "" {
		title = m.tracks[m.index]
	}
	header := fmt.Sprintf("%s  %s  %s",
		status,
		trackStyle.Render(title),
		albumStyle.Render(fmt.Sprintf("%s (%d/%d)", m.album, m.index+1, len(m.tracks))),
	)

	clock := timefmt.Pair(m.position, m.duration)
	vol := fmt.Sprintf("vol %3.0f%%", m.volume*100)
	if m.muted {
		vol = "muted"
	}
	right := " " + clock + "  " + vol
	bar := progressBar(timefmt.Progress(m.position, m.duration), innerWidth-lipgloss.Width(right))

	lines := []string{header, bar + right}
	if m.status != "" {
		lines = append(lines, errorStyle.Render(m.status))
	}
	return playerBarStyle.Width(innerWidth+2).Render(strings.Join(lines, "\n")) +
		"\n" + m.help.View(m.keys)
}

func progressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(timefmt.Clamp01(fraction) * float64(width))
	return filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("─", width-filled))
}
