// Package audio plays music and sound effects on top of a Mixer. Music runs
// on two looping channels so one track can cross-fade into the next; all
// timing is driven by Tick from the game's update loop.
package audio

import "github.com/milk9111/soundstage/assets"

// Playback is a single playable voice. Implementations treat Play on a nil
// clip as a no-op, and SetClip stops whatever was playing before.
type Playback interface {
	SetVolume(v float64)
	Volume() float64
	SetClip(clip *assets.Clip)
	Clip() *assets.Clip
	Play()
	Stop()
	Pause()
	Unpause()
	IsPlaying() bool
	SetMuted(muted bool)
	Close() error
}

// Mixer creates voices and applies the master volume to all of them.
type Mixer interface {
	NewPlayback(loop bool) Playback
	SetMasterVolume(v float64)
	MasterVolume() float64
}

// MusicResolver maps a music key to a clip.
type MusicResolver interface {
	Music(id assets.MusicID) (*assets.Clip, error)
}

// SFXResolver maps a sound-effect key to a clip.
type SFXResolver interface {
	SFX(id assets.SFXID) (*assets.Clip, error)
}
