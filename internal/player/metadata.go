package player

import (
	"io"

	"github.com/dhowden/tag"
)

// readTags fills title, artist and album from embedded tags and rewinds r.
// Files without tags leave info unchanged.
func readTags(r io.ReadSeeker, info *TrackInfo) error {
	if m, err := tag.ReadFrom(r); err == nil {
		info.Title = m.Title()
		info.Artist = m.Artist()
		if m.AlbumArtist() != "" && info.Artist == "" {
			info.Artist = m.AlbumArtist()
		}
		info.Album = m.Album()
	}
	_, err := r.Seek(0, io.SeekStart)
	return err
}
