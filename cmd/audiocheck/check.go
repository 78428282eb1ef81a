package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/cue"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/milk9111/soundstage/ecs/entity"
	"github.com/milk9111/soundstage/ecs/system"
	"github.com/milk9111/soundstage/prefabs"
	"github.com/rs/zerolog"
)

type checkOptions struct {
	Manifest string
	Cues     []string
	Simulate time.Duration
	TPS      int
	Logger   zerolog.Logger
}

// check writes a report to out and returns how many problems it found. The
// error is reserved for a manifest that cannot be loaded at all.
func check(ctx context.Context, opts checkOptions, out io.Writer) (int, error) {
	reg, err := assets.LoadRegistry(ctx, opts.Manifest, assets.BuildOptions{Logger: opts.Logger})
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(out, "music: %d  sfx: %d  textures: %d  prefabs: %d\n",
		len(reg.MusicIDs()), len(reg.SFXIDs()), len(reg.TextureIDs()), len(reg.PrefabIDs()))

	problems := 0
	for _, id := range reg.MusicIDs() {
		if _, err := reg.Cover(id); err != nil {
			fmt.Fprintf(out, "warn: music %s has no cover\n", id)
		}
	}

	world := ecs.NewWorld()
	for _, id := range reg.PrefabIDs() {
		spec, err := reg.Prefab(id)
		if err != nil {
			problems++
			continue
		}
		if _, err := entity.BuildEntityFromSpec(world, *spec); err != nil {
			fmt.Fprintf(out, "error: prefab %s: %v\n", id, err)
			problems++
			continue
		}
		problems += checkPrefabClips(out, reg, id, spec.Components["emitter"] != nil, world)
	}
	problems += checkBundledPrefabs(out, reg)

	for _, name := range opts.Cues {
		cues, err := cue.Load(ctx, name, cue.Vars(reg))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			problems++
			continue
		}
		fmt.Fprintf(out, "cue %s: %d cues\n", name, len(cues))
		problems += checkCueRefs(out, reg, name, cues)

		if opts.Simulate > 0 {
			simulate(out, reg, cues, opts.Simulate, opts.TPS)
		}
	}

	if problems == 0 {
		fmt.Fprintln(out, "ok")
	}
	return problems, nil
}

// checkBundledPrefabs builds the bundled prefab files the manifest does not
// list, so a broken file is caught before a game spawns it by path.
func checkBundledPrefabs(out io.Writer, reg *assets.Registry) int {
	listed := make(map[string]bool)
	for _, id := range reg.PrefabIDs() {
		if spec, err := reg.Prefab(id); err == nil {
			listed[spec.Name] = true
		}
	}

	problems := 0
	w := ecs.NewWorld()
	for _, name := range prefabs.Names() {
		spec, err := prefabs.LoadEntityBuildSpec(name)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			problems++
			continue
		}
		if listed[spec.Name] {
			continue
		}
		if _, err := entity.BuildEntityFromSpec(w, spec); err != nil {
			fmt.Fprintf(out, "error: prefab file %s: %v\n", name, err)
			problems++
		}
	}
	return problems
}

func checkPrefabClips(out io.Writer, reg *assets.Registry, id assets.PrefabID, hasEmitter bool, w *ecs.World) int {
	if !hasEmitter {
		return 0
	}
	problems := 0
	ecs.ForEach(w, component.EmitterComponent.Kind(), func(e ecs.Entity, em *component.Emitter) {
		defer ecs.DestroyEntity(w, e)
		if em.Music != "" && !slices.Contains(reg.MusicIDs(), assets.MusicID(em.Music)) {
			fmt.Fprintf(out, "error: prefab %s: unknown music %q\n", id, em.Music)
			problems++
		}
		if em.SFX != "" && !slices.Contains(reg.SFXIDs(), assets.SFXID(em.SFX)) {
			fmt.Fprintf(out, "error: prefab %s: unknown sfx %q\n", id, em.SFX)
			problems++
		}
	})
	return problems
}

func checkCueRefs(out io.Writer, reg *assets.Registry, name string, cues []cue.Cue) int {
	problems := 0
	for i, c := range cues {
		switch {
		case c.Track != "" && !slices.Contains(reg.MusicIDs(), assets.MusicID(c.Track)):
			fmt.Fprintf(out, "error: cue %s[%d] at %s: unknown music %q\n", name, i, c.At, c.Track)
			problems++
		case c.SFX != "" && !slices.Contains(reg.SFXIDs(), assets.SFXID(c.SFX)):
			fmt.Fprintf(out, "error: cue %s[%d] at %s: unknown sfx %q\n", name, i, c.At, c.SFX)
			problems++
		}
	}
	return problems
}

// simulate runs cues against a headless mixer and prints every change of
// the now-playing state.
func simulate(out io.Writer, reg *assets.Registry, cues []cue.Cue, total time.Duration, tps int) {
	if tps <= 0 {
		tps = 60
	}
	dt := time.Second / time.Duration(tps)

	manager := audio.NewManager(reg, audio.NewHeadlessMixer(), audio.Settings{})
	defer manager.Close()

	w := ecs.NewWorld()
	jukebox, err := entity.NewJukebox(w, cues)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	sched := ecs.NewScheduler(
		system.NewCueSystem(),
		system.NewSoundSystem(manager),
		system.NewMusicSystem(manager, zerolog.Nop()),
	)

	var last string
	for elapsed := time.Duration(0); elapsed <= total; elapsed += dt {
		sched.Update(w, dt)
		np, ok := ecs.Get(w, jukebox, component.NowPlayingComponent.Kind())
		if !ok {
			return
		}
		line := describe(*np)
		if line != last {
			fmt.Fprintf(out, "  %8s  %s\n", elapsed.Round(time.Millisecond), line)
			last = line
		}
	}
}

func describe(np component.NowPlaying) string {
	switch {
	case np.Track == "":
		return "silence"
	case np.Paused:
		return fmt.Sprintf("%s paused", np.Track)
	case np.Fading:
		return fmt.Sprintf("%s fading on %s", np.Track, np.Channel)
	}
	return fmt.Sprintf("%s on %s at %.2f", np.Track, np.Channel, np.Volume)
}
