package system

import (
	"time"

	"github.com/milk9111/soundstage/cue"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
)

// CueSystem advances cue tracks by the frame delta and turns due cues into
// music and sound requests. It should run before the systems that consume
// them so a cue is heard on the frame it fires.
type CueSystem struct{}

func NewCueSystem() *CueSystem {
	return &CueSystem{}
}

func (c *CueSystem) Update(w *ecs.World, dt time.Duration) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.CueTrackComponent.Kind(), func(_ ecs.Entity, track *component.CueTrack) {
		if track.Done() {
			return
		}
		if dt > 0 {
			track.Elapsed += dt
		}
		for !track.Done() && track.Cues[track.Next].At <= track.Elapsed {
			fire(w, track.Cues[track.Next])
			track.Next++
		}
	})
}

func fire(w *ecs.World, c cue.Cue) {
	switch c.Op {
	case cue.OpPlay:
		RequestMusicWithOptions(w, &component.MusicRequest{Op: component.MusicPlay, Track: c.Track, Volume: c.Volume})
	case cue.OpTransition:
		TransitionMusic(w, c.Track, c.Volume, c.Fade)
	case cue.OpStop:
		StopMusic(w)
	case cue.OpPause:
		PauseMusic(w)
	case cue.OpResume:
		ResumeMusic(w)
	case cue.OpSFX:
		PlaySound(w, c.SFX, c.Volume)
	}
}
