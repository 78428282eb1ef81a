package component

import "time"

type MusicOp string

const (
	MusicPlay       MusicOp = "play"
	MusicTransition MusicOp = "transition"
	MusicStop       MusicOp = "stop"
	MusicPause      MusicOp = "pause"
	MusicResume     MusicOp = "resume"
)

// MusicRequest asks the music system to change global music. Requests live
// on their own entities and are consumed on the next update; when several
// arrive in one frame only the latest is applied.
type MusicRequest struct {
	Op     MusicOp
	Track  string
	Volume float64
	// Fade only applies to transitions; zero uses the manager default.
	Fade time.Duration
}

var MusicRequestComponent = NewComponent[MusicRequest]("music_request")
