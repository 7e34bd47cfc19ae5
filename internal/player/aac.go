package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-faad2"
)

// aacDecoder adapts the go-faad2 MP4 reader to beep.StreamSeekCloser.
type aacDecoder struct {
	reader   *faad2.M4AReader
	closer   io.Closer
	err      error
	readBuf  []int16
	totalLen int
}

// decodeAAC decodes .aac files, which the content host serves as AAC in an MP4 container.
func decodeAAC(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	reader, err := faad2.OpenM4A(context.Background(), rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := reader.SampleRate()
	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return &aacDecoder{
		reader:   reader,
		closer:   rc,
		readBuf:  make([]int16, 8192),
		totalLen: int(reader.Duration().Seconds() * float64(sampleRate)),
	}, format, nil
}

func (d *aacDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	channels := max(int(d.reader.Channels()), 1)
	need := len(samples) * channels
	if len(d.readBuf) < need {
		d.readBuf = make([]int16, need)
	}

	read, err := d.reader.Read(context.Background(), d.readBuf[:need])
	if err != nil && !errors.Is(err, io.EOF) {
		d.err = err
		return 0, false
	}
	if read == 0 {
		return 0, false
	}

	frames := int16Frames(samples, d.readBuf[:read], channels)
	return frames, frames > 0
}

func (d *aacDecoder) Err() error { return d.err }

func (d *aacDecoder) Len() int { return d.totalLen }

func (d *aacDecoder) Position() int {
	return int(d.reader.Position().Seconds() * float64(d.reader.SampleRate()))
}

func (d *aacDecoder) Seek(p int) error {
	p = max(0, min(p, d.totalLen))
	pos := time.Duration(float64(p) / float64(d.reader.SampleRate()) * float64(time.Second))
	if err := d.reader.Seek(pos); err != nil {
		return err
	}
	d.err = nil
	return nil
}

func (d *aacDecoder) Close() error {
	if err := d.reader.Close(context.Background()); err != nil {
		return err
	}
	return d.closer.Close()
}
