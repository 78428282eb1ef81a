package audio

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/soundstage/common"
)

const (
	DefaultMinDistance = 1.0
	DefaultMaxDistance = 500.0
)

// EmitterOptions configures a point-source voice. Zero distances fall back
// to the manager settings.
type EmitterOptions struct {
	Volume      float64
	MinDistance float64
	MaxDistance float64
}

// Emitter is a voice placed in world space. Its output follows the distance
// to the manager's listener.
type Emitter struct {
	playback    Playback
	position    cp.Vector
	volume      float64
	minDistance float64
	maxDistance float64

	// remaining counts down for one-shot emitters; zero means no expiry.
	remaining time.Duration
	oneShot   bool
	closed    bool
}

func (e *Emitter) Position() cp.Vector {
	return e.position
}

// SetPosition moves the emitter. The gain is refreshed on the next Tick.
func (e *Emitter) SetPosition(pos cp.Vector) {
	e.position = pos
}

func (e *Emitter) Volume() float64 {
	return e.volume
}

func (e *Emitter) SetVolume(v float64) {
	e.volume = common.Clamp01(v)
}

func (e *Emitter) Playback() Playback {
	return e.playback
}

// Close stops the emitter; the manager releases it on its next Tick.
func (e *Emitter) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.playback.Stop()
}

func (e *Emitter) Closed() bool {
	return e.closed
}

// Gain is the emitter volume after distance rolloff from listener.
func (e *Emitter) Gain(listener cp.Vector) float64 {
	return e.volume * Rolloff(e.position.Distance(listener), e.minDistance, e.maxDistance)
}

func (e *Emitter) refresh(listener cp.Vector) {
	e.playback.SetVolume(e.Gain(listener))
}

// Rolloff is full volume inside min, silent beyond max and linear between.
func Rolloff(distance, min, max float64) float64 {
	if distance <= min {
		return 1
	}
	if distance >= max || max <= min {
		return 0
	}
	return (max - distance) / (max - min)
}
