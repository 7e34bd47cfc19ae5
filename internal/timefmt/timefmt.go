// Package timefmt formats playback positions and converts between positions and fractions.
package timefmt

import (
	"fmt"
	"math"
	"time"
)

// Format renders d as m:ss, or h:mm:ss from one hour up. Negative values render as 0:00.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Pair renders "pos / dur".
func Pair(pos, dur time.Duration) string {
	return Format(pos) + " / " + Format(dur)
}

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}

// Progress returns pos/dur clamped to [0,1]; 0 when dur is unknown.
func Progress(pos, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return Clamp01(float64(pos) / float64(dur))
}

// At returns the position at fraction of dur, with fraction clamped to [0,1].
func At(fraction float64, dur time.Duration) time.Duration {
	if dur <= 0 {
		return 0
	}
	return time.Duration(Clamp01(fraction) * float64(dur))
}

// ClampPosition limits pos to [0,dur].
func ClampPosition(pos, dur time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if dur > 0 && pos > dur {
		return dur
	}
	return pos
}
