package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
)

// SoundSystem plays every pending sound request once and removes it.
type SoundSystem struct {
	manager *audio.Manager
}

func NewSoundSystem(m *audio.Manager) *SoundSystem {
	return &SoundSystem{manager: m}
}

func PlaySound(w *ecs.World, sfx string, volume float64) {
	requestSound(w, &component.SoundRequest{SFX: sfx, Volume: volume})
}

func PlaySoundAt(w *ecs.World, sfx string, volume, x, y float64) {
	requestSound(w, &component.SoundRequest{SFX: sfx, Volume: volume, Positional: true, X: x, Y: y})
}

func requestSound(w *ecs.World, req *component.SoundRequest) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SoundRequestComponent.Kind(), req)
}

func (s *SoundSystem) Update(w *ecs.World, _ time.Duration) {
	if w == nil || s.manager == nil {
		return
	}

	ecs.ForEach(w, component.SoundRequestComponent.Kind(), func(ent ecs.Entity, req *component.SoundRequest) {
		defer ecs.DestroyEntity(w, ent)

		volume := req.Volume
		if volume <= 0 {
			volume = s.manager.Settings().DefaultVolume
		}
		id := assets.SFXID(req.SFX)
		if req.Positional {
			_ = s.manager.PlaySFXAtPoint(id, cp.Vector{X: req.X, Y: req.Y}, audio.EmitterOptions{Volume: volume})
			return
		}
		_ = s.manager.PlaySFX(id, volume)
	})
}
