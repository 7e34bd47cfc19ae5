// Package playback drives one track at a time through a player.SoundSource and reports
// progress to a Presentation.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tapedeck/internal/errmsg"
	"github.com/llehouerou/tapedeck/internal/logging"
	"github.com/llehouerou/tapedeck/internal/media"
	"github.com/llehouerou/tapedeck/internal/player"
	"github.com/llehouerou/tapedeck/internal/timefmt"
)

// Loader opens a location into a stopped sound source.
type Loader interface {
	Load(ctx context.Context, loc player.Location) (player.SoundSource, error)
}

var _ Loader = (*player.Loader)(nil)

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Presentation Presentation
	Label        Label
	Scheduler    Scheduler
	Locator      Locator
	// Volume is the initial level; 1 when absent.
	Volume mo.Option[float64]
	Logger *logrus.Entry
}

// session is the state of the current track.
type session struct {
	current  mo.Option[media.TrackRef]
	state    State
	position time.Duration
	duration time.Duration
	volume   float64
	muted    bool
}

// Controller is the playback state machine. All methods are safe for concurrent use.
// Presentation and Label calls must not call back into the Controller.
type Controller struct {
	mu sync.Mutex

	// dispatchMu is taken before mu is released, so notifications leave in the order
	// the state changes behind them were made.
	dispatchMu sync.Mutex

	loader  Loader
	pres    Presentation
	label   *nowPlaying
	sched   Scheduler
	locator Locator
	log     *logrus.Entry

	session
	source     player.SoundSource
	gen        uint64
	cancelTick func()
	closed     bool

	subsMu sync.Mutex
	subs   []*Subscription
}

// New creates an idle controller.
func New(loader Loader, opts Options) *Controller {
	c := &Controller{
		loader:  loader,
		pres:    opts.Presentation,
		label:   &nowPlaying{label: opts.Label},
		sched:   opts.Scheduler,
		locator: opts.Locator,
		log:     opts.Logger,
	}
	if c.pres == nil {
		c.pres = NopPresentation{}
	}
	if c.sched == nil {
		c.sched = NewFrameScheduler(DefaultTick)
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	c.volume = timefmt.Clamp01(opts.Volume.OrElse(1))
	return c
}

// effects collects notifications to run once the lock is released.
type effects []func()

func (fx *effects) add(f func()) { *fx = append(*fx, f) }

func (fx effects) run() {
	for _, f := range fx {
		f()
	}
}

// unlockAndDispatch releases mu and runs fx.
func (c *Controller) unlockAndDispatch(fx *effects) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	c.mu.Unlock()
	fx.run()
}

// dispatch runs fx when mu is not held.
func (c *Controller) dispatch(fx *effects) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	fx.run()
}

// notify queues a call on the presentation and every subscription.
func (c *Controller) notify(fx *effects, call func(Presentation)) {
	fx.add(func() {
		call(c.pres)
		c.subsMu.Lock()
		subs := append([]*Subscription(nil), c.subs...)
		c.subsMu.Unlock()
		for _, s := range subs {
			call(s)
		}
	})
}

// Subscribe returns a channel view of the notifications. It is closed by Close.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Play loads album/track and starts it from the beginning. It returns false without
// error when another load is in progress.
func (c *Controller) Play(ctx context.Context, album, track string) (bool, error) {
	ref := media.TrackRef{Album: album, Track: track}
	if err := ref.Validate(); err != nil {
		var fx effects
		c.notify(&fx, func(p Presentation) { p.OnError(errmsg.Format(errmsg.OpPlaybackStart, err)) })
		c.dispatch(&fx)
		return false, err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrClosed
	}
	if c.state == StateLoading {
		c.mu.Unlock()
		c.log.WithField("track", ref.String()).Debug("play ignored while loading")
		return false, nil
	}

	var fx effects
	wasPlaying := c.state == StatePlaying
	old := c.source
	c.source = nil
	c.stopTicksLocked()
	c.state = StateLoading
	c.current = mo.Some(ref)
	c.position = 0
	c.duration = 0
	fx.add(c.label.restore)
	if wasPlaying {
		c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(false) })
	}
	c.unlockAndDispatch(&fx)

	if old != nil {
		if err := old.Close(); err != nil {
			c.log.WithError(err).Debug("close previous source")
		}
	}

	src, err := c.load(ctx, ref)
	return c.finishLoad(ref, src, err)
}

// load tries each location in turn. A failed attempt has released its resources.
func (c *Controller) load(ctx context.Context, ref media.TrackRef) (player.SoundSource, error) {
	var last error
	for _, loc := range c.locator.Locations(ref) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := c.loader.Load(ctx, loc)
		if err == nil {
			if src.Duration() > 0 {
				return src, nil
			}
			_ = src.Close()
			err = player.ErrEmptyTrack
		}
		c.log.WithError(err).WithFields(logrus.Fields{
			"track":  ref.String(),
			"origin": loc.Origin.String(),
		}).Debug("source unavailable")
		last = err
	}
	return nil, last
}

func (c *Controller) finishLoad(ref media.TrackRef, src player.SoundSource, loadErr error) (bool, error) {
	var fx effects
	c.mu.Lock()
	defer c.unlockAndDispatch(&fx)

	if loadErr == nil && c.closed {
		_ = src.Close()
		loadErr = ErrClosed
	}
	if loadErr == nil {
		src.SetGain(c.gainLocked())
		c.gen++
		if err := src.Start(0, c.endHandler(c.gen)); err != nil {
			_ = src.Close()
			loadErr = &TransportError{Op: "start", Err: err}
		}
	}
	if loadErr != nil {
		c.state = StateIdle
		c.current = mo.None[media.TrackRef]()
		perr := &PlaybackError{Track: ref, Kind: ErrSourceUnavailable, Err: loadErr}
		c.log.WithError(loadErr).WithField("track", ref.String()).Warn("playback failed")
		c.notify(&fx, func(p Presentation) { p.OnError(errmsg.Format(errmsg.OpPlaybackStart, perr)) })
		return false, perr
	}

	c.source = src
	c.duration = src.Duration()
	c.state = StatePlaying
	c.startTicksLocked()

	info := src.Info()
	d := c.duration
	c.log.WithFields(logrus.Fields{
		"track":    ref.String(),
		"origin":   info.Origin.String(),
		"duration": timefmt.Format(d),
	}).Info("playback started")

	c.notify(&fx, func(p Presentation) { p.OnTrackChanged(ref.Track) })
	c.notify(&fx, func(p Presentation) { p.OnDurationKnown(d) })
	c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(true) })
	fx.add(func() { c.label.decorate(info.DisplayTitle()) })
	return true, nil
}

// endHandler returns the natural-end callback for generation gen.
func (c *Controller) endHandler(gen uint64) func() {
	return func() {
		var fx effects
		c.mu.Lock()
		defer c.unlockAndDispatch(&fx)
		if gen != c.gen || c.state != StatePlaying {
			return
		}
		c.stopTicksLocked()
		c.source.Stop()
		c.state = StateEnded
		c.position = 0
		c.log.WithField("track", c.currentName()).Debug("track ended")

		fx.add(c.label.restore)
		c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(false) })
	}
}

// Pause stops sound and keeps the position. No-op unless playing.
func (c *Controller) Pause() {
	var fx effects
	c.mu.Lock()
	defer c.unlockAndDispatch(&fx)
	if c.state != StatePlaying {
		return
	}
	c.stopTicksLocked()
	c.source.Stop()
	c.position = c.source.Elapsed()
	c.state = StatePaused

	fx.add(c.label.restore)
	c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(false) })
}

// Resume continues from the paused position. No-op unless paused.
func (c *Controller) Resume() {
	var fx effects
	c.mu.Lock()
	defer c.unlockAndDispatch(&fx)
	if c.state != StatePaused || c.source == nil {
		return
	}
	if err := c.startLocked(c.position); err != nil {
		c.logTransport(&TransportError{Op: "resume", Err: err})
		c.notify(&fx, func(p Presentation) { p.OnError(errmsg.Format(errmsg.OpPlaybackResume, err)) })
		return
	}
	c.state = StatePlaying
	title := c.source.Info().DisplayTitle()

	fx.add(func() { c.label.decorate(title) })
	c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(true) })
}

// Seek moves to fraction of the track, clamped to [0,1]. Seeking an ended track leaves it
// paused at the target.
func (c *Controller) Seek(fraction float64) {
	var fx effects
	c.mu.Lock()
	defer c.unlockAndDispatch(&fx)
	if c.source == nil || c.duration <= 0 || !c.state.HasSource() {
		return
	}
	target := timefmt.At(fraction, c.duration)

	switch c.state {
	case StatePlaying:
		c.stopTicksLocked()
		c.source.Stop()
		if err := c.startLocked(target); err != nil {
			c.logTransport(&TransportError{Op: "seek", Err: err})
			c.state = StatePaused
			fx.add(c.label.restore)
			c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(false) })
			c.notify(&fx, func(p Presentation) { p.OnError(errmsg.Format(errmsg.OpPlaybackSeek, err)) })
		}
	case StateEnded:
		c.state = StatePaused
	}
	c.position = target
	c.notify(&fx, func(p Presentation) { p.OnProgress(target) })
}

// startLocked starts the source at pos under a new generation and restarts ticks.
func (c *Controller) startLocked(pos time.Duration) error {
	c.gen++
	c.source.SetGain(c.gainLocked())
	if err := c.source.Start(pos, c.endHandler(c.gen)); err != nil {
		return err
	}
	c.startTicksLocked()
	return nil
}

// SetVolume sets the level, clamped to [0,1], and unmutes.
func (c *Controller) SetVolume(level float64) {
	var fx effects
	c.mu.Lock()
	defer c.unlockAndDispatch(&fx)
	c.volume = timefmt.Clamp01(level)
	c.muted = false
	c.applyGainLocked(&fx)
}

// ToggleMute flips the mute flag. The level is kept.
func (c *Controller) ToggleMute() {
	var fx effects
	c.mu.Lock()
	defer c.unlockAndDispatch(&fx)
	c.muted = !c.muted
	c.applyGainLocked(&fx)
}

func (c *Controller) applyGainLocked(fx *effects) {
	if c.source != nil {
		c.source.SetGain(c.gainLocked())
	}
	level, muted := c.volume, c.muted
	c.notify(fx, func(p Presentation) { p.OnVolumeChanged(level, muted) })
}

func (c *Controller) gainLocked() float64 {
	if c.muted {
		return 0
	}
	return c.volume
}

// CurrentTime returns the playback position.
func (c *Controller) CurrentTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTimeLocked()
}

func (c *Controller) currentTimeLocked() time.Duration {
	if c.state == StatePlaying && c.source != nil {
		return timefmt.ClampPosition(c.source.Elapsed(), c.duration)
	}
	return c.position
}

// Duration returns the length of the loaded track, 0 when none.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the selected track, if any.
func (c *Controller) Current() mo.Option[media.TrackRef] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Close stops playback, releases the source and closes subscriptions.
func (c *Controller) Close() error {
	var fx effects

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	wasPlaying := c.state == StatePlaying
	c.stopTicksLocked()
	src := c.source
	c.source = nil
	if c.state != StateLoading {
		c.state = StateIdle
	}
	fx.add(c.label.restore)
	if wasPlaying {
		c.notify(&fx, func(p Presentation) { p.OnPlayStateChanged(false) })
	}
	c.unlockAndDispatch(&fx)

	var err error
	if src != nil {
		err = src.Close()
	}

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	if err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}

// startTicksLocked schedules the first progress tick of the current generation.
func (c *Controller) startTicksLocked() {
	c.scheduleTickLocked(c.gen)
}

func (c *Controller) scheduleTickLocked(gen uint64) {
	c.cancelTick = c.sched.Schedule(func() { c.tick(gen) })
}

// stopTicksLocked invalidates pending ticks and end callbacks.
func (c *Controller) stopTicksLocked() {
	c.gen++
	if c.cancelTick != nil {
		c.cancelTick()
		c.cancelTick = nil
	}
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	pos := c.currentTimeLocked()
	c.scheduleTickLocked(gen)

	var fx effects
	c.notify(&fx, func(p Presentation) { p.OnProgress(pos) })
	c.unlockAndDispatch(&fx)
}

func (c *Controller) logTransport(err *TransportError) {
	c.log.WithError(err).WithField("track", c.currentName()).Debug("transport error")
}

func (c *Controller) currentName() string {
	return c.current.OrEmpty().String()
}

// IsUnavailable reports whether err is a PlaybackError for a track with no playable source.
func IsUnavailable(err error) bool {
	var perr *PlaybackError
	return errors.As(err, &perr) && errors.Is(perr.Kind, ErrSourceUnavailable)
}
