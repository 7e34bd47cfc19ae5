package player

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// frameDecoder turns one container sample into stereo frames.
type frameDecoder interface {
	decode(sample []byte) ([][2]float64, error)
	close()
}

// m4aDecoder reads an MP4 container sample by sample and hands each one to the codec.
type m4aDecoder struct {
	container *m4a.Reader
	codec     frameDecoder
	closer    io.Closer
	err       error
	next      int
	totalLen  int

	pending [][2]float64
}

// decodeM4A opens an MP4 container holding AAC or ALAC audio.
func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, string, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	rate := container.SampleRate()
	channels := int(container.Channels())
	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   2,
	}

	var codec frameDecoder
	switch container.Codec() {
	case m4a.CodecAAC:
		codec, err = newAACFrames(container.CodecConfig(), channels)
	case m4a.CodecALAC:
		bits := int(container.SampleSize())
		if bits == 24 {
			format.Precision = 3
		}
		codec, err = newALACFrames(int(rate), bits, channels)
	default:
		err = errors.New("unsupported codec in M4A container")
	}
	if err != nil {
		return nil, beep.Format{}, "", err
	}

	return &m4aDecoder{
		container: container,
		codec:     codec,
		closer:    rc,
		totalLen:  int(container.Duration().Seconds() * float64(rate)),
	}, format, container.Codec().String(), nil
}

func (d *m4aDecoder) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}
	for n < len(samples) {
		if len(d.pending) > 0 {
			c := copy(samples[n:], d.pending)
			d.pending = d.pending[c:]
			n += c
			continue
		}
		if d.next >= d.container.SampleCount() {
			break
		}
		data, err := d.container.ReadSample(d.next)
		if err != nil {
			d.err = err
			break
		}
		d.next++
		frames, err := d.codec.decode(data)
		if err != nil {
			d.err = err
			break
		}
		d.pending = frames
	}
	return n, n > 0
}

func (d *m4aDecoder) Err() error { return d.err }

func (d *m4aDecoder) Len() int { return d.totalLen }

func (d *m4aDecoder) Position() int {
	return int(d.container.SampleTime(d.next).Seconds() * float64(d.container.SampleRate()))
}

func (d *m4aDecoder) Seek(p int) error {
	p = max(0, min(p, d.totalLen))
	pos := time.Duration(float64(p) / float64(d.container.SampleRate()) * float64(time.Second))
	d.next = d.container.SeekToTime(pos)
	d.pending = nil
	d.err = nil
	return nil
}

func (d *m4aDecoder) Close() error {
	d.codec.close()
	return d.closer.Close()
}

type aacFrames struct {
	decoder  *faad2.Decoder
	channels int
}

func newAACFrames(config []byte, channels int) (*aacFrames, error) {
	ctx := context.Background()
	decoder, err := faad2.NewDecoder(ctx)
	if err != nil {
		return nil, err
	}
	if err := decoder.Init(ctx, config); err != nil {
		decoder.Close(ctx)
		return nil, err
	}
	return &aacFrames{decoder: decoder, channels: max(channels, 1)}, nil
}

func (a *aacFrames) decode(sample []byte) ([][2]float64, error) {
	pcm, err := a.decoder.Decode(context.Background(), sample)
	if err != nil {
		return nil, err
	}
	frames := make([][2]float64, len(pcm)/a.channels)
	return frames[:int16Frames(frames, pcm, a.channels)], nil
}

func (a *aacFrames) close() { a.decoder.Close(context.Background()) }

type alacFrames struct {
	decoder  *alac.Alac
	bits     int
	channels int
}

func newALACFrames(rate, bits, channels int) (*alacFrames, error) {
	decoder, err := alac.NewWithConfig(alac.Config{
		SampleRate:  rate,
		SampleSize:  bits,
		NumChannels: channels,
		FrameSize:   4096,
	})
	if err != nil {
		return nil, err
	}
	return &alacFrames{decoder: decoder, bits: bits, channels: channels}, nil
}

// decode converts little-endian interleaved PCM of 16 or 24 bits.
func (a *alacFrames) decode(sample []byte) ([][2]float64, error) {
	raw := a.decoder.Decode(sample)
	stride := a.bits / 8 * a.channels
	if stride <= 0 {
		return nil, errors.New("alac: invalid sample layout")
	}
	frames := make([][2]float64, len(raw)/stride)
	return frames[:leFrames(frames, raw, a.bits/8, a.channels)], nil
}

func (*alacFrames) close() {}
