package component

import "github.com/milk9111/soundstage/audio"

// Emitter is a positional sound source. The emitter system starts it on the
// first update and keeps it at the entity's transform.
type Emitter struct {
	Music       string
	SFX         string
	Volume      float64
	Loop        bool
	MinDistance float64
	MaxDistance float64

	// Source is set by the emitter system once playback has started.
	Source *audio.Emitter
	// Failed marks emitters whose clip could not be resolved so they are not retried.
	Failed bool
}

var EmitterComponent = NewComponent[Emitter]("emitter")
