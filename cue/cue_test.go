package cue

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/soundstage/assets"
)

func TestCompileSortsAndConverts(t *testing.T) {
	src := []byte(`
cues := [
	{at: 4, op: "transition", track: "field", volume: 0.5, fade: 1.5},
	{at: 0.0, op: "play", track: "title", volume: 0.8},
	{at: 4, op: "sfx", sfx: "jump"},
	{at: 10, op: "stop"},
]
`)
	cues, err := Compile(context.Background(), src, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := []Cue{
		{At: 0, Op: OpPlay, Track: "title", Volume: 0.8},
		{At: 4 * time.Second, Op: OpTransition, Track: "field", Volume: 0.5, Fade: 1500 * time.Millisecond},
		{At: 4 * time.Second, Op: OpSFX, SFX: "jump"},
		{At: 10 * time.Second, Op: OpStop},
	}
	if len(cues) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(cues))
	}
	for i := range want {
		if cues[i] != want[i] {
			t.Fatalf("cue %d: expected %+v, got %+v", i, want[i], cues[i])
		}
	}
}

func TestCompileWithVars(t *testing.T) {
	src := []byte(`
cues := []
for i, track in tracks {
	cues = append(cues, {at: i * spacing, op: i == 0 ? "play" : "transition", track: track})
}
`)
	vars := map[string]any{
		"tracks":  []any{"title", "field", "boss"},
		"spacing": 5,
	}
	cues, err := Compile(context.Background(), src, vars)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(cues) != 3 || cues[2].At != 10*time.Second || cues[2].Track != "boss" || cues[0].Op != OpPlay {
		t.Fatalf("unexpected cues %+v", cues)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `cues := [`, "run"},
		{"undefined", `x := 1`, "does not define cues"},
		{"not_array", `cues := 3`, "must be an array"},
		{"not_map", `cues := [1]`, "expected a map"},
		{"unknown_op", `cues := [{at: 0, op: "rewind"}]`, "unknown op"},
		{"negative_time", `cues := [{at: -1, op: "stop"}]`, "negative"},
		{"loud", `cues := [{at: 0, op: "play", track: "a", volume: 2}]`, "out of range"},
		{"negative_fade", `cues := [{at: 0, op: "transition", track: "a", fade: -1}]`, "negative"},
		{"missing_track", `cues := [{at: 0, op: "transition"}]`, "requires a track"},
		{"missing_sfx", `cues := [{at: 0, op: "sfx"}]`, "requires an sfx"},
		{"bad_type", `cues := [{at: "soon", op: "stop"}]`, "expected a number"},
		{"same_time_music", `cues := [{at: 0, op: "play", track: "a"}, {at: 0, op: "transition", track: "b"}]`, "both at"},
		{"same_time_unsorted", `cues := [{at: 2, op: "stop"}, {at: 1, op: "play", track: "a"}, {at: 2, op: "resume"}]`, "stop and resume"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(context.Background(), []byte(tc.src), nil)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Compile(ctx, []byte(`x := 0; for { x++ }; cues := []`), nil); err == nil {
		t.Fatalf("expected cancelled script to fail")
	}
}

func TestLoadEmbeddedIntro(t *testing.T) {
	cues, err := Load(context.Background(), "intro.tengo", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cues) != 4 || cues[0].Op != OpPlay || cues[0].Track != "title" {
		t.Fatalf("unexpected intro cues %+v", cues)
	}
	for i := 1; i < len(cues); i++ {
		if cues[i].At < cues[i-1].At {
			t.Fatalf("cues out of order at %d", i)
		}
	}
}

func TestVarsFromRegistry(t *testing.T) {
	reg := assets.NewRegistry(assets.Entries{
		Music: []assets.Entry[assets.MusicID, assets.Clip]{{Key: "title", Asset: &assets.Clip{}}},
		SFX:   []assets.Entry[assets.SFXID, assets.Clip]{{Key: "jump", Asset: &assets.Clip{}}},
	})
	src := []byte(`cues := [{at: 0, op: "play", track: music[0]}, {at: 1, op: "sfx", sfx: sfx[0]}]`)
	cues, err := Compile(context.Background(), src, Vars(reg))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if cues[0].Track != "title" || cues[1].SFX != "jump" {
		t.Fatalf("unexpected cues %+v", cues)
	}
}
