package component

import (
	"time"

	"github.com/milk9111/soundstage/cue"
)

// CueTrack is a scheduled list of audio cues played back against the frame
// clock. Cues must be sorted by time.
type CueTrack struct {
	Cues    []cue.Cue
	Elapsed time.Duration
	Next    int
	Loop    bool
}

func (t *CueTrack) Done() bool {
	return t == nil || t.Next >= len(t.Cues)
}

var CueTrackComponent = NewComponent[CueTrack]("cue_track")
