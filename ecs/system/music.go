package system

import (
	"strings"
	"time"

	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/common"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/rs/zerolog"
)

// MusicSystem applies music requests to the audio manager and advances it
// by the frame delta. It should run after every system that makes requests.
type MusicSystem struct {
	manager *audio.Manager
	logger  zerolog.Logger
}

func NewMusicSystem(m *audio.Manager, logger zerolog.Logger) *MusicSystem {
	return &MusicSystem{
		manager: m,
		logger:  logger.With().Str("system", "music").Logger(),
	}
}

func RequestMusic(w *ecs.World, track string) {
	RequestMusicWithOptions(w, &component.MusicRequest{Op: component.MusicPlay, Track: track})
}

func TransitionMusic(w *ecs.World, track string, volume float64, fade time.Duration) {
	RequestMusicWithOptions(w, &component.MusicRequest{Op: component.MusicTransition, Track: track, Volume: volume, Fade: fade})
}

func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{Op: component.MusicStop})
}

func PauseMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{Op: component.MusicPause})
}

func ResumeMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{Op: component.MusicResume})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

func (m *MusicSystem) Update(w *ecs.World, dt time.Duration) {
	if w == nil || m.manager == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	for _, ent := range requestEntities {
		ecs.DestroyEntity(w, ent)
	}
	if latest != nil {
		m.applyRequest(*latest)
	}

	m.manager.Tick(dt)
	m.syncNowPlaying(w)
}

// consumeLatestRequest returns the last queued request. Earlier ones in the
// same frame are dropped with a warning.
func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	requestEntities := make([]ecs.Entity, 0)

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		if req == nil {
			return
		}
		if latest != nil {
			m.logger.Warn().
				Str("dropped", string(latest.Op)).
				Str("track", latest.Track).
				Str("kept", string(req.Op)).
				Msg("music request superseded in the same frame")
		}
		r := *req
		latest = &r
	})

	return latest, requestEntities
}

// applyRequest forwards one request. Missing tracks are already reported by
// the asset registry, so their errors are dropped here.
func (m *MusicSystem) applyRequest(req component.MusicRequest) {
	track := assets.MusicID(strings.TrimSpace(req.Track))
	volume := req.Volume
	if volume <= 0 {
		volume = m.manager.Settings().DefaultVolume
	}
	volume = common.Clamp(volume, 0, 1)

	switch req.Op {
	case component.MusicPlay:
		_ = m.manager.PlayMusic(track, volume)
	case component.MusicTransition:
		_ = m.manager.TransitionMusicOver(track, volume, req.Fade)
	case component.MusicStop:
		m.manager.StopMusic()
	case component.MusicPause:
		m.manager.PauseMusic()
	case component.MusicResume:
		m.manager.ResumeMusic()
	default:
		m.logger.Warn().Str("op", string(req.Op)).Msg("unknown music request")
	}
}

func (m *MusicSystem) syncNowPlaying(w *ecs.World) {
	ent, ok := ecs.First(w, component.NowPlayingComponent.Kind())
	if !ok {
		return
	}
	np, ok := ecs.Get(w, ent, component.NowPlayingComponent.Kind())
	if !ok || np == nil {
		return
	}

	snap := m.manager.Music().Snapshot()
	*np = component.NowPlaying{
		Fading: snap.FadeIn != nil || snap.FadeOut != nil,
		Paused: snap.Paused,
		Muted:  m.manager.MusicMuted(),
	}
	if ch, ok := snap.Current(); ok && ch.Clip != nil {
		np.Track = string(ch.Track)
		np.Title = ch.Clip.DisplayName()
		np.Channel = ch.Channel.String()
		np.Volume = ch.Volume
	}
}
