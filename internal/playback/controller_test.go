package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/tapedeck/internal/media"
	"github.com/llehouerou/tapedeck/internal/player"
)

const testMirror = "https://mirror.example/music"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeLoader returns player.Mock sources. Paths listed in fail return an error.
type fakeLoader struct {
	mu       sync.Mutex
	clock    *fakeClock
	duration time.Duration
	fail     map[string]error
	gate     chan struct{}
	calls    []player.Location
	sources  []*player.Mock
	startErr error
}

func (l *fakeLoader) Load(ctx context.Context, loc player.Location) (player.SoundSource, error) {
	l.mu.Lock()
	l.calls = append(l.calls, loc)
	gate := l.gate
	l.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.fail[loc.Path]; err != nil {
		return nil, err
	}
	m := player.NewMock(player.TrackInfo{Name: loc.Name, Origin: loc.Origin}, l.duration, l.clock.Now)
	m.StartErr = l.startErr
	l.sources = append(l.sources, m)
	return m, nil
}

func (l *fakeLoader) Calls() []player.Location {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]player.Location(nil), l.calls...)
}

func (l *fakeLoader) last(t *testing.T) *player.Mock {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.sources, "no source loaded")
	return l.sources[len(l.sources)-1]
}

// recorder logs presentation calls in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recorder) OnDurationKnown(d time.Duration) { r.add("duration %s", d) }
func (r *recorder) OnProgress(p time.Duration)      { r.add("progress %s", p) }
func (r *recorder) OnPlayStateChanged(playing bool) { r.add("playing %t", playing) }
func (r *recorder) OnVolumeChanged(l float64, m bool) {
	r.add("volume %.2f muted=%t", l, m)
}
func (r *recorder) OnTrackChanged(track string) { r.add("track %s", track) }
func (r *recorder) OnError(message string)      { r.add("error %s", message) }

// Take returns and clears the recorded events.
func (r *recorder) Take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.events
	r.events = nil
	return e
}

// manualScheduler runs scheduled funcs only when Fire is called.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	fn        func()
	cancelled bool
}

func (s *manualScheduler) Schedule(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &scheduled{fn: fn}
	s.pending = append(s.pending, e)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e.cancelled = true
	}
}

// Fire runs everything scheduled so far and returns how many ran.
func (s *manualScheduler) Fire() int {
	s.mu.Lock()
	due := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, e := range due {
		s.mu.Lock()
		cancelled := e.cancelled
		s.mu.Unlock()
		if !cancelled {
			e.fn()
			ran++
		}
	}
	return ran
}

type harness struct {
	c      *Controller
	loader *fakeLoader
	clock  *fakeClock
	pres   *recorder
	sched  *manualScheduler
	label  *TextLabel
}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	h := &harness{
		loader: &fakeLoader{clock: clock, duration: 10 * time.Second, fail: map[string]error{}},
		clock:  clock,
		pres:   &recorder{},
		sched:  &manualScheduler{},
		label:  NewTextLabel("tapedeck"),
	}
	opts := Options{
		Presentation: h.pres,
		Label:        h.label,
		Scheduler:    h.sched,
		Locator:      Locator{MirrorBase: testMirror},
	}
	for _, m := range mutate {
		m(&opts)
	}
	h.c = New(h.loader, opts)
	t.Cleanup(func() { _ = h.c.Close() })
	return h
}

func (h *harness) play(t *testing.T, album, track string) {
	t.Helper()
	ok, err := h.c.Play(context.Background(), album, track)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPlay_CoLocated(t *testing.T) {
	h := newHarness(t)

	h.play(t, "Blue Train", "01 Blue Train.mp3")

	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, 10*time.Second, h.c.Duration())
	assert.Equal(t, mo.Some(media.TrackRef{Album: "Blue Train", Track: "01 Blue Train.mp3"}), h.c.Current())
	assert.Equal(t, []player.Location{{
		Origin: player.CoLocated,
		Path:   "Blue Train/01 Blue Train.mp3",
		Name:   "01 Blue Train.mp3",
	}}, h.loader.Calls())

	src := h.loader.last(t)
	assert.Equal(t, []time.Duration{0}, src.Starts())
	assert.InDelta(t, 1.0, src.Gain(), 1e-9)

	assert.Equal(t, []string{
		"track 01 Blue Train.mp3",
		"duration 10s",
		"playing true",
	}, h.pres.Take())
	assert.Equal(t, "▶ 01 Blue Train.mp3", h.label.Text())
}

func TestPlay_FallsBackToMirror(t *testing.T) {
	h := newHarness(t)
	h.loader.fail["Blue Train/01 Blue Train.mp3"] = errors.New("file does not exist")

	h.play(t, "Blue Train", "01 Blue Train.mp3")

	calls := h.loader.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, player.Mirror, calls[1].Origin)
	assert.Equal(t, testMirror+"/Blue%20Train/01%20Blue%20Train.mp3", calls[1].Path)
	assert.Equal(t, player.Mirror, h.loader.last(t).Info().Origin)
	assert.Equal(t, StatePlaying, h.c.State())
}

func TestPlay_BothFail(t *testing.T) {
	h := newHarness(t)
	h.loader.fail["A/01.mp3"] = errors.New("missing")
	mirrorErr := errors.New("unexpected status 404 Not Found")
	h.loader.fail[testMirror+"/A/01.mp3"] = mirrorErr

	ok, err := h.c.Play(context.Background(), "A", "01.mp3")

	assert.False(t, ok)
	var perr *PlaybackError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.ErrorIs(t, err, mirrorErr, "wraps the last cause")
	assert.True(t, IsUnavailable(err))
	assert.Equal(t, media.TrackRef{Album: "A", Track: "01.mp3"}, perr.Track)

	assert.Equal(t, StateIdle, h.c.State())
	assert.True(t, h.c.Current().IsAbsent())
	assert.Equal(t, "tapedeck", h.label.Text())

	events := h.pres.Take()
	require.Len(t, events, 1)
	assert.Contains(t, events[0], "error Failed to start playback")

	// The guard was released.
	delete(h.loader.fail, "A/01.mp3")
	h.play(t, "A", "01.mp3")
}

func TestPlay_NoMirror(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.Locator = Locator{} })
	h.loader.fail["A/01.mp3"] = errors.New("missing")

	_, err := h.c.Play(context.Background(), "A", "01.mp3")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Len(t, h.loader.Calls(), 1)
}

func TestPlay_InvalidName(t *testing.T) {
	h := newHarness(t)

	for _, tt := range []struct{ album, track string }{
		{"", "01.mp3"},
		{"../etc", "01.mp3"},
		{"A", "cover.jpg"},
		{"A", "sub/01.mp3"},
	} {
		ok, err := h.c.Play(context.Background(), tt.album, tt.track)
		assert.False(t, ok)
		var verr *media.ValidationError
		assert.ErrorAs(t, err, &verr, "%q/%q", tt.album, tt.track)
	}
	assert.Empty(t, h.loader.Calls())
	assert.Equal(t, StateIdle, h.c.State())
	assert.Len(t, h.pres.Take(), 4)
}

func TestPlay_RejectedWhileLoading(t *testing.T) {
	h := newHarness(t)
	h.loader.gate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.c.Play(context.Background(), "A", "01.mp3")
		done <- err
	}()
	require.Eventually(t, func() bool { return h.c.State() == StateLoading }, time.Second, time.Millisecond)

	ok, err := h.c.Play(context.Background(), "B", "02.mp3")
	assert.False(t, ok)
	assert.NoError(t, err)

	// Transport commands are ignored while loading.
	h.c.Pause()
	h.c.Resume()
	h.c.Seek(0.5)
	assert.Equal(t, StateLoading, h.c.State())

	close(h.loader.gate)
	require.NoError(t, <-done)
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, "A", h.c.Current().MustGet().Album)
	for _, call := range h.loader.Calls() {
		assert.NotContains(t, call.Path, "B/")
	}
}

func TestPlay_CancelledWhileLoading(t *testing.T) {
	h := newHarness(t)
	h.loader.gate = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := h.c.Play(ctx, "A", "01.mp3")
		done <- err
	}()
	require.Eventually(t, func() bool { return h.c.State() == StateLoading }, time.Second, time.Millisecond)
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, StateIdle, h.c.State())
}

func TestPlay_ResetsPreviousTrack(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	first := h.loader.last(t)
	h.pres.Take()

	h.play(t, "A", "02.mp3")

	assert.True(t, first.Closed())
	assert.NotSame(t, first, h.loader.last(t))
	assert.Equal(t, []string{
		"playing false",
		"track 02.mp3",
		"duration 10s",
		"playing true",
	}, h.pres.Take())
	assert.Equal(t, "▶ 02.mp3", h.label.Text())

	// The old source's end no longer counts.
	assert.False(t, first.Finish())
	assert.Equal(t, StatePlaying, h.c.State())
}

func TestPlay_FromPausedDoesNotReportStop(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	h.c.Pause()
	h.pres.Take()

	h.play(t, "A", "02.mp3")
	assert.Equal(t, []string{"track 02.mp3", "duration 10s", "playing true"}, h.pres.Take())
}

func TestPlay_StartFailure(t *testing.T) {
	h := newHarness(t)
	h.loader.startErr = errors.New("device busy")

	ok, err := h.c.Play(context.Background(), "A", "01.mp3")
	assert.False(t, ok)
	var terr *TransportError
	assert.ErrorAs(t, err, &terr)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.True(t, h.loader.last(t).Closed())
	assert.Equal(t, StateIdle, h.c.State())
}

func TestPauseResume(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	src := h.loader.last(t)
	h.pres.Take()

	h.clock.Advance(3 * time.Second)
	h.c.Pause()

	assert.Equal(t, StatePaused, h.c.State())
	assert.Equal(t, 3*time.Second, h.c.CurrentTime())
	assert.False(t, src.Playing())
	assert.Equal(t, "tapedeck", h.label.Text())
	assert.Equal(t, []string{"playing false"}, h.pres.Take())

	h.clock.Advance(time.Minute)
	assert.Equal(t, 3*time.Second, h.c.CurrentTime(), "paused time does not advance")

	h.c.Resume()
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, []time.Duration{0, 3 * time.Second}, src.Starts())
	assert.Equal(t, "▶ 01.mp3", h.label.Text())
	assert.Equal(t, []string{"playing true"}, h.pres.Take())

	h.clock.Advance(2 * time.Second)
	assert.Equal(t, 5*time.Second, h.c.CurrentTime())
}

func TestPauseResume_NoOps(t *testing.T) {
	h := newHarness(t)

	h.c.Pause()
	h.c.Resume()
	assert.Equal(t, StateIdle, h.c.State())

	h.play(t, "A", "01.mp3")
	h.c.Resume()
	assert.Len(t, h.loader.last(t).Starts(), 1, "resume while playing does nothing")

	h.c.Pause()
	h.pres.Take()
	h.c.Pause()
	assert.Empty(t, h.pres.Take())
}

func TestResume_StartFailure(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	h.c.Pause()
	h.pres.Take()

	h.loader.last(t).StartErr = errors.New("device lost")
	h.c.Resume()

	assert.Equal(t, StatePaused, h.c.State())
	events := h.pres.Take()
	require.Len(t, events, 1)
	assert.Contains(t, events[0], "Failed to resume playback")
}

func TestSeek(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	src := h.loader.last(t)
	h.pres.Take()

	h.c.Seek(0.5)
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, []time.Duration{0, 5 * time.Second}, src.Starts())
	assert.Equal(t, 5*time.Second, h.c.CurrentTime())
	assert.Equal(t, []string{"progress 5s"}, h.pres.Take())

	h.c.Pause()
	h.pres.Take()
	h.c.Seek(0.25)
	assert.Equal(t, StatePaused, h.c.State())
	assert.Equal(t, 2500*time.Millisecond, h.c.CurrentTime())
	assert.Len(t, src.Starts(), 2, "paused seek does not start")

	h.c.Seek(7)
	assert.Equal(t, 10*time.Second, h.c.CurrentTime())
	h.c.Seek(-1)
	assert.Equal(t, time.Duration(0), h.c.CurrentTime())

	h.c.Resume()
	assert.Equal(t, time.Duration(0), src.Starts()[2])
}

func TestSeek_WithoutSource(t *testing.T) {
	h := newHarness(t)
	h.c.Seek(0.5)
	assert.Empty(t, h.pres.Take())
	assert.Equal(t, time.Duration(0), h.c.CurrentTime())
}

func TestSeek_Failure(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	h.pres.Take()

	h.loader.last(t).StartErr = errors.New("device lost")
	h.c.Seek(0.5)

	assert.Equal(t, StatePaused, h.c.State())
	assert.Equal(t, 5*time.Second, h.c.CurrentTime())
	events := h.pres.Take()
	require.Len(t, events, 3)
	assert.Equal(t, "playing false", events[0])
	assert.Contains(t, events[1], "Failed to seek")
	assert.Equal(t, "progress 5s", events[2])
}

func TestNaturalEnd(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	src := h.loader.last(t)
	h.pres.Take()

	h.clock.Advance(10 * time.Second)
	require.True(t, src.Finish())

	assert.Equal(t, StateEnded, h.c.State())
	assert.Equal(t, time.Duration(0), h.c.CurrentTime())
	assert.Equal(t, "tapedeck", h.label.Text())
	assert.Equal(t, []string{"playing false"}, h.pres.Take())

	assert.Zero(t, h.sched.Fire(), "no ticks after the end")
	assert.False(t, src.Finish())
	assert.Empty(t, h.pres.Take())

	h.c.Resume()
	assert.Equal(t, StateEnded, h.c.State(), "resume needs a seek first")
}

func TestSeekAfterEnd(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	src := h.loader.last(t)
	src.Finish()
	h.pres.Take()

	h.c.Seek(0.3)
	assert.Equal(t, StatePaused, h.c.State())
	assert.Equal(t, 3*time.Second, h.c.CurrentTime())
	assert.Equal(t, []string{"progress 3s"}, h.pres.Take())

	h.c.Resume()
	assert.Equal(t, StatePlaying, h.c.State())
	assert.Equal(t, []time.Duration{0, 3 * time.Second}, src.Starts())
}

func TestStaleEndCallback(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")

	h.c.mu.Lock()
	stale := h.c.endHandler(h.c.gen)
	h.c.mu.Unlock()

	h.c.Seek(0.5)
	stale()
	assert.Equal(t, StatePlaying, h.c.State())

	h.c.Pause()
	h.c.Resume()
	stale()
	assert.Equal(t, StatePlaying, h.c.State())
}

func TestProgressTicks(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")
	h.pres.Take()

	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.sched.Fire())
	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.sched.Fire())
	assert.Equal(t, []string{"progress 1s", "progress 2s"}, h.pres.Take())

	h.c.Pause()
	assert.Zero(t, h.sched.Fire(), "pause cancels the pending tick")
	h.pres.Take()

	h.c.Resume()
	h.c.Seek(0.5)
	assert.Equal(t, 1, h.sched.Fire(), "only the latest generation ticks")
	assert.Equal(t, []string{"playing true", "progress 5s", "progress 5s"}, h.pres.Take())
}

// pauseOnProgress pauses the controller from another goroutine while the first progress
// notification is being delivered.
type pauseOnProgress struct {
	*recorder
	c      *Controller
	once   sync.Once
	paused chan struct{}
}

func (p *pauseOnProgress) OnProgress(d time.Duration) {
	p.once.Do(func() {
		go func() {
			p.c.Pause()
			close(p.paused)
		}()
		time.Sleep(20 * time.Millisecond)
	})
	p.recorder.OnProgress(d)
}

func TestProgressTicks_NotDeliveredAfterPause(t *testing.T) {
	hook := &pauseOnProgress{recorder: &recorder{}, paused: make(chan struct{})}
	h := newHarness(t, func(o *Options) { o.Presentation = hook })
	hook.c = h.c
	h.play(t, "A", "01.mp3")
	hook.Take()

	h.clock.Advance(time.Second)
	assert.Equal(t, 1, h.sched.Fire())
	<-hook.paused

	assert.Equal(t, []string{"progress 1s", "playing false"}, hook.Take())
	assert.Equal(t, StatePaused, h.c.State())
	assert.Zero(t, h.sched.Fire())
	assert.Empty(t, hook.Take())
}

func TestProgressTicks_ConcurrentPause(t *testing.T) {
	for range 50 {
		h := newHarness(t)
		h.play(t, "A", "01.mp3")
		h.pres.Take()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 20 {
				h.clock.Advance(10 * time.Millisecond)
				h.sched.Fire()
			}
		}()
		go func() {
			defer wg.Done()
			h.c.Pause()
		}()
		wg.Wait()

		events := h.pres.Take()
		require.Contains(t, events, "playing false")
		for i, e := range events {
			if e == "playing false" {
				for _, after := range events[i+1:] {
					assert.NotContains(t, after, "progress", "events: %v", events)
				}
			}
		}
	}
}

func TestCurrentTime_ClampsToDuration(t *testing.T) {
	h := newHarness(t)
	h.play(t, "A", "01.mp3")

	h.clock.Advance(time.Hour)
	assert.Equal(t, 10*time.Second, h.c.CurrentTime())
}

func TestVolume(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.Volume = mo.Some(0.8) })
	assert.InDelta(t, 0.8, h.c.Volume(), 1e-9)

	h.play(t, "A", "01.mp3")
	src := h.loader.last(t)
	assert.InDelta(t, 0.8, src.Gain(), 1e-9, "effective gain applied at start")
	h.pres.Take()

	h.c.SetVolume(0.4)
	assert.InDelta(t, 0.4, src.Gain(), 1e-9)

	h.c.SetVolume(3)
	assert.InDelta(t, 1.0, h.c.Volume(), 1e-9)

	h.c.ToggleMute()
	assert.True(t, h.c.Muted())
	assert.Zero(t, src.Gain())
	assert.InDelta(t, 1.0, h.c.Volume(), 1e-9, "mute keeps the level")

	h.c.ToggleMute()
	assert.InDelta(t, 1.0, src.Gain(), 1e-9)

	h.c.ToggleMute()
	h.c.SetVolume(0.5)
	assert.False(t, h.c.Muted(), "setting a level unmutes")
	assert.InDelta(t, 0.5, src.Gain(), 1e-9)

	assert.Equal(t, []string{
		"volume 0.40 muted=false",
		"volume 1.00 muted=false",
		"volume 1.00 muted=true",
		"volume 1.00 muted=false",
		"volume 1.00 muted=true",
		"volume 0.50 muted=false",
	}, h.pres.Take())
}

func TestVolume_MutedBeforePlay(t *testing.T) {
	h := newHarness(t)
	h.c.ToggleMute()

	h.play(t, "A", "01.mp3")
	assert.Zero(t, h.loader.last(t).Gain())
}

func TestClose(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()
	h.play(t, "A", "01.mp3")
	src := h.loader.last(t)

	require.NoError(t, h.c.Close())
	require.NoError(t, h.c.Close())

	assert.True(t, src.Closed())
	assert.Equal(t, StateIdle, h.c.State())
	assert.Equal(t, "tapedeck", h.label.Text())
	assert.Zero(t, h.sched.Fire())
	select {
	case <-sub.Done:
	default:
		t.Fatal("subscription not closed")
	}

	_, err := h.c.Play(context.Background(), "A", "01.mp3")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubscription(t *testing.T) {
	h := newHarness(t)
	sub := h.c.Subscribe()

	h.play(t, "A", "01.mp3")
	h.c.SetVolume(0.5)
	h.c.Seek(0.1)

	assert.Equal(t, TrackChange{Track: "01.mp3"}, <-sub.TrackChanged)
	assert.Equal(t, DurationChange{Duration: 10 * time.Second}, <-sub.DurationKnown)
	assert.Equal(t, PlayStateChange{Playing: true}, <-sub.StateChanged)
	assert.Equal(t, VolumeChange{Level: 0.5}, <-sub.VolumeChanged)
	assert.Equal(t, PositionChange{Position: time.Second}, <-sub.PositionChanged)

	_, _ = h.c.Play(context.Background(), "A", "x.txt")
	assert.Contains(t, (<-sub.Error).Message, "Failed to start playback")
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Loading", StateLoading.String())
	assert.Equal(t, "Playing", StatePlaying.String())
	assert.Equal(t, "Paused", StatePaused.String())
	assert.Equal(t, "Ended", StateEnded.String())
	assert.Equal(t, "Unknown", State(42).String())
	assert.False(t, StateLoading.HasSource())
	assert.True(t, StateEnded.HasSource())
}
