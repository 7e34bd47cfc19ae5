package content

import (
	"slices"
	"sync"
)

// ListingCache holds successful listings for the lifetime of the process.
// Empty listings are never stored. Reads return copies.
type ListingCache struct {
	mu     sync.RWMutex
	albums []string
	tracks map[string][]string
}

// NewListingCache creates an empty cache.
func NewListingCache() *ListingCache {
	return &ListingCache{tracks: make(map[string][]string)}
}

// Albums returns the cached album list.
func (c *ListingCache) Albums() ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.albums == nil {
		return nil, false
	}
	return slices.Clone(c.albums), true
}

// SetAlbums stores names unless empty.
func (c *ListingCache) SetAlbums(names []string) {
	if len(names) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.albums = slices.Clone(names)
}

// Tracks returns the cached track list of album.
func (c *ListingCache) Tracks(album string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names, ok := c.tracks[album]
	if !ok {
		return nil, false
	}
	return slices.Clone(names), true
}

// SetTracks stores the track list of album unless empty.
func (c *ListingCache) SetTracks(album string, names []string) {
	if len(names) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracks[album] = slices.Clone(names)
}
