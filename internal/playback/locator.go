package playback

import (
	"path"
	"strings"

	"github.com/llehouerou/tapedeck/internal/media"
	"github.com/llehouerou/tapedeck/internal/player"
)

// Locator lists where a track can be loaded from, in the order to try.
type Locator struct {
	// MirrorBase is the remote base URL. Empty disables the mirror.
	MirrorBase string
}

// Locations returns the co-located path, then the mirror URL when configured.
func (l Locator) Locations(ref media.TrackRef) []player.Location {
	locs := []player.Location{{
		Origin: player.CoLocated,
		Path:   path.Join(ref.Album, ref.Track),
		Name:   ref.Track,
	}}
	if base := strings.TrimRight(l.MirrorBase, "/"); base != "" {
		locs = append(locs, player.Location{
			Origin: player.Mirror,
			Path:   base + "/" + media.EscapeSegment(ref.Album) + "/" + media.EscapeSegment(ref.Track),
			Name:   ref.Track,
		})
	}
	return locs
}
