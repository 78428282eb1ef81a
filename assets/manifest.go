package assets

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/soundstage/prefabs"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Manifest lists every asset the registry should load, by file.
type Manifest struct {
	Music    []MusicEntrySpec `yaml:"music"`
	SFX      []EntrySpec      `yaml:"sfx"`
	Textures []EntrySpec      `yaml:"textures"`
	Prefabs  []EntrySpec      `yaml:"prefabs"`
}

type EntrySpec struct {
	Key  string `yaml:"key"`
	File string `yaml:"file"`
}

type MusicEntrySpec struct {
	Key   string `yaml:"key"`
	File  string `yaml:"file"`
	Cover string `yaml:"cover"`
}

func LoadManifest(fsys fs.FS, path string) (*Manifest, error) {
	data, err := ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("assets: load %s: %w", path, err)
	}
	return ParseManifest(data)
}

func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("assets: unmarshal manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate rejects entries without a key. Entries without a file are allowed
// and later skipped as empty slots.
func (m *Manifest) Validate() error {
	check := func(category string, i int, key string) error {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("assets: manifest %s[%d]: key is required", category, i)
		}
		return nil
	}
	for i, e := range m.Music {
		if err := check("music", i, e.Key); err != nil {
			return err
		}
	}
	for i, e := range m.SFX {
		if err := check("sfx", i, e.Key); err != nil {
			return err
		}
	}
	for i, e := range m.Textures {
		if err := check("textures", i, e.Key); err != nil {
			return err
		}
	}
	for i, e := range m.Prefabs {
		if err := check("prefabs", i, e.Key); err != nil {
			return err
		}
	}
	return nil
}

type BuildOptions struct {
	SampleRate  int
	Concurrency int
	Logger      zerolog.Logger
	// LoadPrefab defaults to prefabs.LoadEntityBuildSpec.
	LoadPrefab func(file string) (prefabs.EntityBuildSpec, error)
}

// BuildRegistry loads and decodes every manifest entry from fsys. Clips and
// textures are decoded concurrently; the resulting registry keeps manifest order.
func BuildRegistry(ctx context.Context, fsys fs.FS, m *Manifest, opts BuildOptions) (*Registry, error) {
	if m == nil {
		return nil, fmt.Errorf("assets: manifest is nil")
	}
	if fsys == nil {
		fsys = assetsFS
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.LoadPrefab == nil {
		opts.LoadPrefab = prefabs.LoadEntityBuildSpec
	}

	entries := Entries{
		Music:    make([]Entry[MusicID, Clip], len(m.Music)),
		SFX:      make([]Entry[SFXID, Clip], len(m.SFX)),
		Textures: make([]Entry[TextureID, Texture], len(m.Textures)),
		Prefabs:  make([]Entry[PrefabID, prefabs.EntityBuildSpec], len(m.Prefabs)),
		Covers:   make(map[MusicID]TextureID),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	loadClip := func(file string) (*Clip, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := ReadFile(fsys, file)
		if err != nil {
			return nil, err
		}
		return DecodeClip(file, data, opts.SampleRate)
	}

	for i, spec := range m.Music {
		entries.Music[i].Key = MusicID(spec.Key)
		if spec.Cover != "" {
			entries.Covers[MusicID(spec.Key)] = TextureID(spec.Cover)
		}
		if spec.File == "" {
			continue
		}
		g.Go(func() error {
			clip, err := loadClip(spec.File)
			if err != nil {
				return fmt.Errorf("assets: music %q: %w", spec.Key, err)
			}
			entries.Music[i].Asset = clip
			return nil
		})
	}

	for i, spec := range m.SFX {
		entries.SFX[i].Key = SFXID(spec.Key)
		if spec.File == "" {
			continue
		}
		g.Go(func() error {
			clip, err := loadClip(spec.File)
			if err != nil {
				return fmt.Errorf("assets: sfx %q: %w", spec.Key, err)
			}
			entries.SFX[i].Asset = clip
			return nil
		})
	}

	for i, spec := range m.Textures {
		entries.Textures[i].Key = TextureID(spec.Key)
		if spec.File == "" {
			continue
		}
		g.Go(func() error {
			data, err := ReadFile(fsys, spec.File)
			if err != nil {
				return fmt.Errorf("assets: texture %q: %w", spec.Key, err)
			}
			tex, err := DecodeTexture(spec.File, data)
			if err != nil {
				return fmt.Errorf("assets: texture %q: %w", spec.Key, err)
			}
			entries.Textures[i].Asset = tex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, spec := range m.Prefabs {
		entries.Prefabs[i].Key = PrefabID(spec.Key)
		if spec.File == "" {
			continue
		}
		p, err := opts.LoadPrefab(spec.File)
		if err != nil {
			return nil, fmt.Errorf("assets: prefab %q: %w", spec.Key, err)
		}
		if _, err := p.Emitter(); err != nil {
			return nil, fmt.Errorf("assets: prefab %q: %w", spec.Key, err)
		}
		entries.Prefabs[i].Asset = &p
	}

	return NewRegistry(entries, WithLogger(opts.Logger)), nil
}

// LoadRegistry builds a registry from the manifest at path. A manifest on
// disk resolves its files relative to its own directory; otherwise path is
// looked up in the embedded asset tree.
func LoadRegistry(ctx context.Context, path string, opts BuildOptions) (*Registry, error) {
	if path == "" {
		path = DefaultManifest
	}

	fsys := FS()
	name := path
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		fsys = os.DirFS(filepath.Dir(path))
		name = filepath.Base(path)
	}

	m, err := LoadManifest(fsys, name)
	if err != nil {
		return nil, err
	}
	return BuildRegistry(ctx, fsys, m, opts)
}
