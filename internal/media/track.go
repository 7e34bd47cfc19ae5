package media

// TrackRef identifies a track inside an album.
type TrackRef struct {
	Album string
	Track string
}

// Validate checks both names.
func (r TrackRef) Validate() error {
	if err := ValidateAlbum(r.Album); err != nil {
		return err
	}
	return ValidateTrack(r.Track)
}

// String returns "album/track".
func (r TrackRef) String() string {
	return r.Album + "/" + r.Track
}
