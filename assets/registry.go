package assets

import (
	"errors"
	"fmt"
	"slices"

	"github.com/milk9111/soundstage/prefabs"
	"github.com/rs/zerolog"
)

// ErrMissingAsset is returned when a key has no registered resource.
var ErrMissingAsset = errors.New("assets: missing asset")

type (
	MusicID   string
	SFXID     string
	TextureID string
	PrefabID  string
)

// Entry pairs a key with its resource. Entries with a nil Asset are skipped.
type Entry[K comparable, V any] struct {
	Key   K
	Asset *V
}

// Catalog is one immutable category of the registry.
type Catalog[K comparable, V any] struct {
	category string
	items    map[K]*V
	order    []K
	logger   zerolog.Logger
}

func NewCatalog[K comparable, V any](category string, entries []Entry[K, V], logger zerolog.Logger) *Catalog[K, V] {
	c := &Catalog[K, V]{
		category: category,
		items:    make(map[K]*V, len(entries)),
		logger:   logger,
	}
	for _, e := range entries {
		if e.Asset == nil {
			logger.Warn().Str("category", category).Any("key", e.Key).Msg("skipping entry without asset")
			continue
		}
		if _, dup := c.items[e.Key]; dup {
			logger.Warn().Str("category", category).Any("key", e.Key).Msg("skipping duplicate entry")
			continue
		}
		c.items[e.Key] = e.Asset
		c.order = append(c.order, e.Key)
	}
	return c
}

// Get returns the resource for key or an error wrapping ErrMissingAsset.
func (c *Catalog[K, V]) Get(key K) (*V, error) {
	if c != nil {
		if v, ok := c.items[key]; ok {
			return v, nil
		}
	}
	category := "unknown"
	if c != nil {
		category = c.category
		c.logger.Error().Str("category", category).Any("key", key).Msg("missing asset")
	}
	return nil, fmt.Errorf("%w: %s %v", ErrMissingAsset, category, key)
}

func (c *Catalog[K, V]) Has(key K) bool {
	if c == nil {
		return false
	}
	_, ok := c.items[key]
	return ok
}

func (c *Catalog[K, V]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Keys returns keys in registration order.
func (c *Catalog[K, V]) Keys() []K {
	if c == nil {
		return nil
	}
	return slices.Clone(c.order)
}

// Entries groups the construction input of every category.
type Entries struct {
	Music    []Entry[MusicID, Clip]
	SFX      []Entry[SFXID, Clip]
	Textures []Entry[TextureID, Texture]
	Prefabs  []Entry[PrefabID, prefabs.EntityBuildSpec]

	// Covers links a music track to the texture shown while it plays.
	Covers map[MusicID]TextureID
}

// Registry maps enumerated keys to loaded assets. It is built once and never
// mutated afterwards.
type Registry struct {
	music    *Catalog[MusicID, Clip]
	sfx      *Catalog[SFXID, Clip]
	textures *Catalog[TextureID, Texture]
	prefabs  *Catalog[PrefabID, prefabs.EntityBuildSpec]
	covers   map[MusicID]TextureID
}

type Option func(*registryOptions)

type registryOptions struct {
	logger zerolog.Logger
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *registryOptions) {
		o.logger = logger
	}
}

func NewRegistry(entries Entries, opts ...Option) *Registry {
	o := registryOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With().Str("component", "assets").Logger()

	covers := make(map[MusicID]TextureID, len(entries.Covers))
	for k, v := range entries.Covers {
		covers[k] = v
	}

	return &Registry{
		music:    NewCatalog("music", entries.Music, logger),
		sfx:      NewCatalog("sfx", entries.SFX, logger),
		textures: NewCatalog("texture", entries.Textures, logger),
		prefabs:  NewCatalog("prefab", entries.Prefabs, logger),
		covers:   covers,
	}
}

func (r *Registry) Music(id MusicID) (*Clip, error) {
	return r.music.Get(id)
}

func (r *Registry) SFX(id SFXID) (*Clip, error) {
	return r.sfx.Get(id)
}

func (r *Registry) Texture(id TextureID) (*Texture, error) {
	return r.textures.Get(id)
}

func (r *Registry) Prefab(id PrefabID) (*prefabs.EntityBuildSpec, error) {
	return r.prefabs.Get(id)
}

// Cover returns the texture linked to a music track.
func (r *Registry) Cover(id MusicID) (*Texture, error) {
	tex, ok := r.covers[id]
	if !ok {
		return nil, fmt.Errorf("%w: cover %v", ErrMissingAsset, id)
	}
	return r.textures.Get(tex)
}

func (r *Registry) MusicIDs() []MusicID {
	return r.music.Keys()
}

func (r *Registry) SFXIDs() []SFXID {
	return r.sfx.Keys()
}

func (r *Registry) TextureIDs() []TextureID {
	return r.textures.Keys()
}

func (r *Registry) PrefabIDs() []PrefabID {
	return r.prefabs.Keys()
}
