package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/milk9111/soundstage/prefabs"
)

func TestParseManifestRequiresKeys(t *testing.T) {
	_, err := ParseManifest([]byte("sfx:\n  - file: audio/jump.wav\n"))
	if err == nil || !strings.Contains(err.Error(), "sfx[0]") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestBuildRegistryFromEmbeddedManifest(t *testing.T) {
	m, err := LoadManifest(FS(), DefaultManifest)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	r, err := BuildRegistry(context.Background(), FS(), m, BuildOptions{})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	if got := len(r.MusicIDs()); got != len(m.Music) {
		t.Fatalf("expected %d music entries, got %d", len(m.Music), got)
	}
	if ids := r.MusicIDs(); ids[0] != MusicID(m.Music[0].Key) {
		t.Fatalf("registry should keep manifest order, got %v", ids)
	}
	clip, err := r.Music("title")
	if err != nil {
		t.Fatalf("music title: %v", err)
	}
	if clip.Length() == 0 {
		t.Fatalf("expected decoded PCM for title")
	}
	cover, err := r.Cover("title")
	if err != nil {
		t.Fatalf("cover: %v", err)
	}
	if w, h := cover.Size(); w != 16 || h != 16 {
		t.Fatalf("expected 16x16 cover, got %dx%d", w, h)
	}
	spec, err := r.Prefab("campfire")
	if err != nil {
		t.Fatalf("prefab: %v", err)
	}
	emitter, err := spec.Emitter()
	if err != nil || emitter == nil {
		t.Fatalf("campfire should carry an emitter: %v", err)
	}
	if emitter.SFX != "crackle" {
		t.Fatalf("unexpected emitter clip %q", emitter.SFX)
	}
}

func TestBuildRegistrySkipsEmptySlots(t *testing.T) {
	wav, err := LoadFile("audio/hit.wav")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fsys := fstest.MapFS{"sfx/hit.wav": &fstest.MapFile{Data: wav}}
	m := &Manifest{
		SFX: []EntrySpec{
			{Key: "hit", File: "sfx/hit.wav"},
			{Key: "unassigned"},
		},
	}

	r, err := BuildRegistry(context.Background(), fsys, m, BuildOptions{})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	if _, err := r.SFX("hit"); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if _, err := r.SFX("unassigned"); !errors.Is(err, ErrMissingAsset) {
		t.Fatalf("empty slot should be missing, got %v", err)
	}
}

func TestBuildRegistryErrors(t *testing.T) {
	fsys := fstest.MapFS{"bad.png": &fstest.MapFile{Data: []byte("nope")}}

	tests := []struct {
		name string
		m    *Manifest
		opts BuildOptions
		want string
	}{
		{"nil_manifest", nil, BuildOptions{}, "manifest is nil"},
		{"missing_file", &Manifest{Music: []MusicEntrySpec{{Key: "x", File: "gone.wav"}}}, BuildOptions{}, `music "x"`},
		{"bad_texture", &Manifest{Textures: []EntrySpec{{Key: "bad", File: "bad.png"}}}, BuildOptions{}, `texture "bad"`},
		{
			"bad_prefab",
			&Manifest{Prefabs: []EntrySpec{{Key: "p", File: "p.yaml"}}},
			BuildOptions{LoadPrefab: func(string) (prefabs.EntityBuildSpec, error) {
				return prefabs.EntityBuildSpec{Name: "p", Components: map[string]any{"emitter": map[string]any{"volume": 0.5}}}, nil
			}},
			`prefab "p"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildRegistry(context.Background(), fsys, tc.m, tc.opts)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRegistry(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		r, err := LoadRegistry(context.Background(), "", BuildOptions{})
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !r.music.Has("boss") || r.PrefabIDs()[0] != "campfire" {
			t.Fatalf("expected the bundled assets")
		}
	})

	t.Run("disk", func(t *testing.T) {
		dir := t.TempDir()
		manifest := "sfx:\n  - key: blip\n    file: sounds/blip.pcm\n"
		if err := os.MkdirAll(filepath.Join(dir, "sounds"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "sounds", "blip.pcm"), make([]byte, 400), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "manifest.yaml"), []byte(manifest), 0o644); err != nil {
			t.Fatal(err)
		}

		r, err := LoadRegistry(context.Background(), filepath.Join(dir, "manifest.yaml"), BuildOptions{SampleRate: 1000})
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		clip, err := r.SFX("blip")
		if err != nil {
			t.Fatalf("sfx: %v", err)
		}
		if clip.Length() != 100*time.Millisecond {
			t.Fatalf("expected 100ms of raw pcm, got %v", clip.Length())
		}
	})
}
