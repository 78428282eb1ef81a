package entity

import (
	"fmt"

	"github.com/milk9111/soundstage/cue"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
)

// NewListener creates the active listener at (x, y).
func NewListener(w *ecs.World, x, y float64) (ecs.Entity, error) {
	ent, err := BuildEntity(w, "listener.yaml")
	if err != nil {
		return 0, fmt.Errorf("listener: %w", err)
	}
	if err := SetEntityTransform(w, ent, x, y); err != nil {
		return 0, fmt.Errorf("listener: %w", err)
	}
	return ent, nil
}

// NewEmitter builds an emitter prefab and moves it to (x, y).
func NewEmitter(w *ecs.World, prefabPath string, x, y float64) (ecs.Entity, error) {
	ent, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("emitter: %w", err)
	}
	if !ecs.Has(w, ent, component.EmitterComponent.Kind()) {
		ecs.DestroyEntity(w, ent)
		return 0, fmt.Errorf("emitter: prefab %q has no emitter component", prefabPath)
	}
	if err := SetEntityTransform(w, ent, x, y); err != nil {
		return 0, fmt.Errorf("emitter: %w", err)
	}
	return ent, nil
}

// NewJukebox creates the entity that carries the now-playing state. When
// cues is not empty it also schedules them.
func NewJukebox(w *ecs.World, cues []cue.Cue) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("jukebox: world is nil")
	}
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.NowPlayingComponent.Kind(), &component.NowPlaying{}); err != nil {
		return 0, fmt.Errorf("jukebox: %w", err)
	}
	if len(cues) == 0 {
		return ent, nil
	}
	if err := ecs.Add(w, ent, component.CueTrackComponent.Kind(), &component.CueTrack{Cues: cues}); err != nil {
		return 0, fmt.Errorf("jukebox: %w", err)
	}
	return ent, nil
}
