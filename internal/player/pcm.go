package player

// Codec adapters hand interleaved PCM to these helpers. Output is always stereo: mono is
// duplicated to both channels and channels past the second are dropped.

// int16Frames fills dst from interleaved 16-bit PCM and returns the frames written.
func int16Frames(dst [][2]float64, pcm []int16, channels int) int {
	if channels <= 0 {
		return 0
	}
	frames := min(len(pcm)/channels, len(dst))
	for i := range frames {
		left := float64(pcm[i*channels]) / 32768.0
		right := left
		if channels > 1 {
			right = float64(pcm[i*channels+1]) / 32768.0
		}
		dst[i] = [2]float64{left, right}
	}
	return frames
}

// leFrames fills dst from interleaved little-endian PCM of width 2 or 3 bytes and returns
// the frames written. A trailing partial frame is ignored.
func leFrames(dst [][2]float64, raw []byte, width, channels int) int {
	stride := width * channels
	if stride <= 0 {
		return 0
	}
	frames := min(len(raw)/stride, len(dst))
	for i := range frames {
		left := pcmLE(raw[i*stride:], width)
		right := left
		if channels > 1 {
			right = pcmLE(raw[i*stride+width:], width)
		}
		dst[i] = [2]float64{left, right}
	}
	return frames
}

// pcmLE reads one signed little-endian sample of 2 or 3 bytes.
func pcmLE(b []byte, width int) float64 {
	if width == 3 {
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16 //nolint:gosec // sign extension
		return float64(v) / 8388608.0
	}
	return float64(int16(uint16(b[0])|uint16(b[1])<<8)) / 32768.0 //nolint:gosec // audio samples
}
