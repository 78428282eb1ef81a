package component

// SoundRequest plays a one-shot sound effect. With Positional set the sound
// is emitted from (X, Y) and attenuated by distance to the listener.
type SoundRequest struct {
	SFX        string
	Volume     float64
	Positional bool
	X, Y       float64
}

var SoundRequestComponent = NewComponent[SoundRequest]("sound_request")
