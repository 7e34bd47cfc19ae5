package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the sink sources play into.
type Output interface {
	Play(s beep.Streamer, format beep.Format) error
	// Clear drops every playing streamer without running its callbacks.
	Clear()
	// Locked runs fn while the output is not reading streamers.
	Locked(fn func())
}

// speakerOutput is the process-wide beep speaker. It is initialised with the sample rate
// of the first track played; later tracks are resampled to it.
type speakerOutput struct {
	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
}

var defaultSpeaker = &speakerOutput{}

// Speaker returns the default output.
func Speaker() Output { return defaultSpeaker }

func (o *speakerOutput) Play(s beep.Streamer, format beep.Format) error {
	o.mu.Lock()
	if !o.initialized {
		err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		if err != nil {
			o.mu.Unlock()
			return fmt.Errorf("init speaker: %w", err)
		}
		o.sampleRate = format.SampleRate
		o.initialized = true
	}
	rate := o.sampleRate
	o.mu.Unlock()

	// Resample if the track's sample rate differs from the speaker's
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, s)
	}
	speaker.Play(s)
	return nil
}

func (o *speakerOutput) Clear() {
	if o.ready() {
		speaker.Clear()
	}
}

func (o *speakerOutput) Locked(fn func()) {
	if !o.ready() {
		fn()
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}

func (o *speakerOutput) ready() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initialized
}
