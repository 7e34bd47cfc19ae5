package content

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tapedeck/internal/logging"
	"github.com/llehouerou/tapedeck/internal/media"
)

const (
	endpointAlbums = "albums"
	endpointTracks = "tracks"
)

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	Policy   Policy
	Reserved []string // folder names never reported as albums; nil means DefaultReserved
	Cache    *ListingCache
	Metrics  *Metrics
	Logger   *logrus.Entry
}

// Resolver produces album and track listings through a read-through cache.
type Resolver struct {
	lister   Lister
	policy   Policy
	reserved []string
	cache    *ListingCache
	metrics  *Metrics
	log      *logrus.Entry

	// wait sleeps between attempts; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a resolver backed by lister.
func NewResolver(lister Lister, opts Options) *Resolver {
	r := &Resolver{
		lister:   lister,
		policy:   opts.Policy.withDefaults(),
		reserved: opts.Reserved,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		wait:     sleepContext,
	}
	if r.reserved == nil {
		r.reserved = DefaultReserved
	}
	if r.cache == nil {
		r.cache = NewListingCache()
	}
	if r.log == nil {
		r.log = logging.Discard()
	}
	r.log = r.log.WithField("component", "content")
	return r
}

// FetchAlbumList returns the album names reported by the host, in host order.
func (r *Resolver) FetchAlbumList(ctx context.Context) ([]string, error) {
	if names, ok := r.cache.Albums(); ok {
		r.metrics.cacheHit(endpointAlbums)
		return names, nil
	}

	names, err := r.fetch(ctx, "", endpointAlbums, r.keepAlbum, ErrNoAlbumsFound)
	if err != nil {
		return nil, err
	}
	r.cache.SetAlbums(names)
	return names, nil
}

// FetchTrackList returns the playable tracks of album, in host order.
// An invalid album name fails before any request is made.
func (r *Resolver) FetchTrackList(ctx context.Context, album string) ([]string, error) {
	if err := media.ValidateAlbum(album); err != nil {
		return nil, err
	}
	if names, ok := r.cache.Tracks(album); ok {
		r.metrics.cacheHit(endpointTracks)
		return names, nil
	}

	names, err := r.fetch(ctx, album, endpointTracks, keepTrack, ErrNoTracksFound)
	if err != nil {
		return nil, err
	}
	r.cache.SetTracks(album, names)
	return names, nil
}

func (r *Resolver) keepAlbum(e Entry) (string, bool) {
	if !e.IsDir() || slices.Contains(r.reserved, e.Name) {
		return "", false
	}
	return e.Name, media.ValidateAlbum(e.Name) == nil
}

func keepTrack(e Entry) (string, bool) {
	if !e.IsFile() {
		return "", false
	}
	return e.Name, media.ValidateTrack(e.Name) == nil
}

// fetch runs the attempt loop. An empty filtered listing counts as a failed attempt.
func (r *Resolver) fetch(
	ctx context.Context,
	album, endpoint string,
	keep func(Entry) (string, bool),
	empty error,
) ([]string, error) {
	log := r.log.WithField("endpoint", endpoint)
	if album != "" {
		log = log.WithField("album", album)
	}

	var lastErr error
	kind := ErrHostUnavailable
	attempts := 0
	for attempt := 1; attempt <= r.policy.Attempts; attempt++ {
		attempts = attempt
		names, err := r.attempt(ctx, album, keep)
		switch {
		case err == nil && len(names) > 0:
			r.metrics.attempt(endpoint, "ok")
			log.WithField("count", len(names)).Debug("listing resolved")
			return names, nil
		case err == nil:
			r.metrics.attempt(endpoint, "empty")
			kind, lastErr = empty, nil
		default:
			r.metrics.attempt(endpoint, "error")
			kind, lastErr = ErrHostUnavailable, err
		}

		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"of":      r.policy.Attempts,
		}).WithError(lastErr).Warn("listing attempt failed")

		if attempt == r.policy.Attempts {
			break
		}
		if err := r.wait(ctx, r.policy.delay(attempt)); err != nil {
			kind, lastErr = ErrHostUnavailable, err
			break
		}
	}

	return nil, &ResolutionError{
		Album:    album,
		Attempts: attempts,
		Kind:     kind,
		Err:      lastErr,
	}
}

// attempt performs one bounded request and filters the result.
func (r *Resolver) attempt(
	ctx context.Context,
	album string,
	keep func(Entry) (string, bool),
) ([]string, error) {
	actx, cancel := context.WithTimeout(ctx, r.policy.Timeout)
	defer cancel()

	entries, err := r.lister.List(actx, album)
	if err != nil {
		if errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("attempt timed out after %s: %w", r.policy.Timeout, err)
		}
		return nil, err
	}
	return lo.FilterMap(entries, func(e Entry, _ int) (string, bool) {
		return keep(e)
	}), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
