package system

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/milk9111/soundstage/prefabs"
)

// EmitterSystem starts emitter components, keeps them at their entity's
// transform and feeds the listener position to the manager. Entities whose
// one-shot emitter has finished are destroyed.
type EmitterSystem struct {
	manager *audio.Manager
	sources map[ecs.Entity]*audio.Emitter
}

func NewEmitterSystem(m *audio.Manager) *EmitterSystem {
	return &EmitterSystem{
		manager: m,
		sources: make(map[ecs.Entity]*audio.Emitter),
	}
}

func (s *EmitterSystem) Update(w *ecs.World, _ time.Duration) {
	if w == nil || s.manager == nil {
		return
	}

	s.updateListener(w)

	ecs.ForEach2(w, component.EmitterComponent.Kind(), component.TransformComponent.Kind(), func(ent ecs.Entity, em *component.Emitter, t *component.Transform) {
		pos := cp.Vector{X: t.X, Y: t.Y}
		if em.Source == nil {
			if em.Failed {
				return
			}
			src, err := s.manager.StartEmitter(prefabs.EmitterComponentSpec{
				Music:       em.Music,
				SFX:         em.SFX,
				Volume:      em.Volume,
				Loop:        em.Loop,
				MinDistance: em.MinDistance,
				MaxDistance: em.MaxDistance,
			}, pos)
			if err != nil {
				em.Failed = true
				return
			}
			em.Source = src
			s.sources[ent] = src
			return
		}

		if em.Source.Closed() {
			delete(s.sources, ent)
			ecs.DestroyEntity(w, ent)
			return
		}
		em.Source.SetPosition(pos)
	})

	// Sources whose entity went away without finishing are stopped.
	for ent, src := range s.sources {
		em, ok := ecs.Get(w, ent, component.EmitterComponent.Kind())
		if ok && em.Source == src {
			continue
		}
		src.Close()
		delete(s.sources, ent)
	}
}

func (s *EmitterSystem) updateListener(w *ecs.World) {
	found := false
	ecs.ForEach2(w, component.ListenerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, l *component.Listener, t *component.Transform) {
		if found || !l.Active {
			return
		}
		found = true
		s.manager.SetListener(cp.Vector{X: t.X, Y: t.Y})
	})
}
