package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/llehouerou/tapedeck/internal/logging"
)

// Origin says where a track is loaded from.
type Origin int

const (
	// CoLocated tracks are read from the local media root.
	CoLocated Origin = iota
	// Mirror tracks are fetched over HTTP from the mirror base.
	Mirror
)

func (o Origin) String() string {
	switch o {
	case CoLocated:
		return "co-located"
	case Mirror:
		return "mirror"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Location identifies one candidate source for a track.
type Location struct {
	Origin Origin
	// Path is relative to the media root for CoLocated and an absolute URL for Mirror.
	Path string
	// Name is the track file name; its extension selects the decoder.
	Name string
}

func (l Location) String() string {
	return l.Origin.String() + " " + l.Path
}

// Strategy selects the SoundSource backend.
type Strategy int

const (
	// StrategyAuto streams co-located tracks and buffers mirrored ones.
	StrategyAuto Strategy = iota
	StrategyStream
	StrategyBuffer
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyStream:
		return "stream"
	case StrategyBuffer:
		return "buffer"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses "auto", "stream" or "buffer". Empty means auto.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "stream":
		return StrategyStream, nil
	case "buffer":
		return StrategyBuffer, nil
	default:
		return 0, fmt.Errorf("unknown playback strategy %q", s)
	}
}

// DefaultMaxRemoteBytes caps a mirrored download.
const DefaultMaxRemoteBytes = 512 << 20

// ErrTooLarge is returned when a mirrored track exceeds MaxRemoteBytes.
var ErrTooLarge = errors.New("remote track too large")

// LoaderOptions configures a Loader. Zero values select defaults.
type LoaderOptions struct {
	// Fs is rooted at the media directory. Nil disables co-located loading.
	Fs             afero.Fs
	HTTPClient     *http.Client
	Output         Output
	Strategy       Strategy
	Clock          Clock
	Logger         *logrus.Entry
	MaxRemoteBytes int64
}

// Loader opens, decodes and wraps tracks into SoundSources.
type Loader struct {
	fs       afero.Fs
	client   *http.Client
	out      Output
	strategy Strategy
	now      Clock
	log      *logrus.Entry
	maxBytes int64
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	l := &Loader{
		fs:       opts.Fs,
		client:   opts.HTTPClient,
		out:      opts.Output,
		strategy: opts.Strategy,
		now:      opts.Clock,
		log:      opts.Logger,
		maxBytes: opts.MaxRemoteBytes,
	}
	if l.client == nil {
		l.client = http.DefaultClient
	}
	if l.out == nil {
		l.out = Speaker()
	}
	if l.log == nil {
		l.log = logging.Discard()
	}
	if l.maxBytes <= 0 {
		l.maxBytes = DefaultMaxRemoteBytes
	}
	return l
}

// Load opens loc and returns a stopped source positioned at 0.
// Everything opened along the way is released on error.
func (l *Loader) Load(ctx context.Context, loc Location) (SoundSource, error) {
	rc, size, err := l.open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}

	info := TrackInfo{Name: loc.Name, Origin: loc.Origin}
	if info.Name == "" {
		info.Name = path.Base(loc.Path)
	}
	if err := readTags(rc, &info); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("read tags %s: %w", loc, err)
	}

	decoder, format, label, err := decode(info.Name, rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", loc, err)
	}
	info.Format = label
	info.SampleRate = int(format.SampleRate)

	var src SoundSource
	if l.backend(loc.Origin) == StrategyBuffer {
		src, err = NewBufferSource(decoder, format, info, l.out, l.now)
	} else {
		src, err = NewStreamSource(decoder, format, info, l.out, l.now)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", loc, err)
	}

	l.log.WithFields(logrus.Fields{
		"origin":   loc.Origin.String(),
		"track":    info.Name,
		"format":   label,
		"size":     humanize.IBytes(uint64(max(size, 0))), //nolint:gosec // clamped
		"duration": src.Duration().String(),
	}).Debug("track loaded")
	return src, nil
}

// backend resolves StrategyAuto for an origin.
func (l *Loader) backend(o Origin) Strategy {
	if l.strategy != StrategyAuto {
		return l.strategy
	}
	if o == Mirror {
		return StrategyBuffer
	}
	return StrategyStream
}

func (l *Loader) open(ctx context.Context, loc Location) (io.ReadSeekCloser, int64, error) {
	switch loc.Origin {
	case CoLocated:
		return l.openLocal(loc.Path)
	case Mirror:
		return l.fetch(ctx, loc.Path)
	default:
		return nil, 0, fmt.Errorf("unknown origin %v", loc.Origin)
	}
}

func (l *Loader) openLocal(name string) (io.ReadSeekCloser, int64, error) {
	if l.fs == nil {
		return nil, 0, errors.New("no media root configured")
	}
	f, err := l.fs.Open(name)
	if err != nil {
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%s is a directory", name)
	}
	return f, st.Size(), nil
}

// fetch downloads url into memory so decoders can seek.
func (l *Loader) fetch(ctx context.Context, url string) (io.ReadSeekCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, 0, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.ContentLength > l.maxBytes {
		return nil, 0, fmt.Errorf("%w: %s", ErrTooLarge, humanize.IBytes(uint64(resp.ContentLength)))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, 0, err
	}
	if int64(len(data)) > l.maxBytes {
		return nil, 0, fmt.Errorf("%w: over %s", ErrTooLarge, humanize.IBytes(uint64(l.maxBytes)))
	}
	return memFile{bytes.NewReader(data)}, int64(len(data)), nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }
