package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt16Frames(t *testing.T) {
	tests := []struct {
		name     string
		pcm      []int16
		channels int
		dst      int
		want     [][2]float64
	}{
		{
			name:     "stereo",
			pcm:      []int16{16384, -16384, 0, 32767},
			channels: 2,
			dst:      4,
			want:     [][2]float64{{0.5, -0.5}, {0, 32767.0 / 32768.0}},
		},
		{
			name:     "mono is duplicated",
			pcm:      []int16{-32768, 8192},
			channels: 1,
			dst:      4,
			want:     [][2]float64{{-1, -1}, {0.25, 0.25}},
		},
		{
			name:     "extra channels dropped",
			pcm:      []int16{16384, 8192, 1, 2, 3, 4},
			channels: 6,
			dst:      4,
			want:     [][2]float64{{0.5, 0.25}},
		},
		{
			name:     "limited by dst",
			pcm:      []int16{1, 1, 2, 2, 3, 3},
			channels: 2,
			dst:      1,
			want:     [][2]float64{{1.0 / 32768.0, 1.0 / 32768.0}},
		},
		{
			name:     "partial frame ignored",
			pcm:      []int16{16384, 16384, 5},
			channels: 2,
			dst:      4,
			want:     [][2]float64{{0.5, 0.5}},
		},
		{name: "no channels", pcm: []int16{1, 2}, channels: 0, dst: 4, want: [][2]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([][2]float64, tt.dst)
			n := int16Frames(dst, tt.pcm, tt.channels)
			assert.Equal(t, tt.want, dst[:n])
		})
	}
}

func TestLEFrames(t *testing.T) {
	t.Run("16-bit stereo", func(t *testing.T) {
		raw := []byte{0x00, 0x40, 0x00, 0xC0, 0xFF, 0x7F, 0x00, 0x80}
		dst := make([][2]float64, 4)
		n := leFrames(dst, raw, 2, 2)
		assert.Equal(t, [][2]float64{{0.5, -0.5}, {32767.0 / 32768.0, -1}}, dst[:n])
	})

	t.Run("24-bit mono sign-extends", func(t *testing.T) {
		raw := []byte{0x00, 0x00, 0x40, 0x00, 0x00, 0xC0, 0xFF, 0xFF, 0xFF}
		dst := make([][2]float64, 4)
		n := leFrames(dst, raw, 3, 1)
		assert.Equal(t, [][2]float64{{0.5, 0.5}, {-0.5, -0.5}, {-1.0 / 8388608.0, -1.0 / 8388608.0}}, dst[:n])
	})

	t.Run("trailing bytes ignored", func(t *testing.T) {
		raw := []byte{0x00, 0x40, 0x00, 0x40, 0x01}
		dst := make([][2]float64, 4)
		assert.Equal(t, 1, leFrames(dst, raw, 2, 2))
	})

	t.Run("invalid layout", func(t *testing.T) {
		assert.Zero(t, leFrames(make([][2]float64, 4), []byte{1, 2, 3, 4}, 0, 2))
	})
}
