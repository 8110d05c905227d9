package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	bounceTone = 660.0
	settleTone = 220.0
)

type audio struct {
	rate    beep.SampleRate
	enabled bool
}

func newAudio() (*audio, error) {
	a := &audio{rate: beep.SampleRate(44100)}
	if err := speaker.Init(a.rate, a.rate.N(time.Second/10)); err != nil {
		return a, err
	}
	a.enabled = true
	return a, nil
}

// tone plays a short sine beep. Safe to call from any goroutine.
func (a *audio) tone(freq float64, d time.Duration) {
	if a == nil || !a.enabled {
		return
	}
	sine, err := generators.SineTone(a.rate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(a.rate.N(d), sine))
}

func (a *audio) close() {
	if a != nil && a.enabled {
		speaker.Close()
	}
}
