package player

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/tapedeck/internal/media"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// decode picks a decoder from the file extension of name. The reader is closed on error
// and owned by the decoder otherwise.
func decode(name string, rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, string, error) {
	var (
		decoder beep.StreamSeekCloser
		format  beep.Format
		label   string
		err     error
	)
	switch ext := media.Ext(name); ext {
	case ".mp3":
		label = "MP3"
		decoder, format, err = decodeMP3(rc)
	case ".wav":
		label = "WAV"
		decoder, format, err = wav.Decode(rc)
	case ".ogg":
		label = "OGG"
		decoder, format, err = vorbis.Decode(rc)
	case ".m4a":
		var codec string
		decoder, format, codec, err = decodeM4A(rc)
		label = "M4A"
		if err == nil {
			label = codec
		}
	case ".aac":
		label = "AAC"
		decoder, format, err = decodeAAC(rc)
	default:
		_ = rc.Close()
		return nil, beep.Format{}, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		_ = rc.Close()
		return nil, beep.Format{}, "", fmt.Errorf("decode %s: %w", label, err)
	}
	return decoder, format, label, nil
}
