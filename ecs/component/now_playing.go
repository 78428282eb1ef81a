package component

// NowPlaying mirrors the music controller for overlays. The music system
// rewrites it every update.
type NowPlaying struct {
	Track   string
	Title   string
	Channel string
	Volume  float64
	Fading  bool
	Paused  bool
	Muted   bool
}

var NowPlayingComponent = NewComponent[NowPlaying]("now_playing")
