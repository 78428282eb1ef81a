package entity

import (
	"context"
	"fmt"
	"sort"

	"github.com/milk9111/soundstage/cue"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/milk9111/soundstage/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"transform":   addTransform,
	"emitter":     addEmitter,
	"listener":    addListener,
	"cues":        addCues,
	"now_playing": addNowPlaying,
}

// Transforms go first so later builders can rely on a position.
var componentBuildOrder = []string{
	"transform",
	"listener",
	"emitter",
	"now_playing",
	"cues",
}

// BuildEntity loads a prefab by path and builds it into w.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return buildFromSpec(w, spec, &buildContext{PrefabPath: prefabPath})
}

// BuildEntityFromSpec builds an already decoded prefab, e.g. one held by the
// asset registry.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec) (ecs.Entity, error) {
	return buildFromSpec(w, spec, &buildContext{PrefabPath: spec.Name})
}

func buildFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, ctx *buildContext) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", ctx.PrefabPath)
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	// Unknown names are rejected before anything is created.
	unknown := make([]string, 0)
	for name := range remaining {
		if _, ok := componentRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, unknown[0])
	}

	e := ecs.CreateEntity(w)
	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
}

func addEmitter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.EmitterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode emitter spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return err
	}
	return ecs.Add(w, e, component.EmitterComponent.Kind(), &component.Emitter{
		Music:       spec.Music,
		SFX:         spec.SFX,
		Volume:      spec.Volume,
		Loop:        spec.Loop,
		MinDistance: spec.MinDistance,
		MaxDistance: spec.MaxDistance,
	})
}

func addListener(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ListenerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode listener spec: %w", err)
	}
	return ecs.Add(w, e, component.ListenerComponent.Kind(), &component.Listener{Active: spec.Active})
}

func addCues(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CuesComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode cues spec: %w", err)
	}
	if spec.Script == "" {
		return fmt.Errorf("cues: script is required")
	}
	cues, err := cue.Load(context.Background(), spec.Script, nil)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CueTrackComponent.Kind(), &component.CueTrack{Cues: cues})
}

func addNowPlaying(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.NowPlayingComponent.Kind(), &component.NowPlaying{})
}
