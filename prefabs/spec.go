package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EntityBuildSpec is the on-disk shape of every prefab: a name plus raw
// component specs keyed by component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec converts one raw entry of EntityBuildSpec.Components
// into its typed spec.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// EmitterComponentSpec describes a point-source sound. Exactly one of Music
// or SFX names the clip.
type EmitterComponentSpec struct {
	Music       string  `yaml:"music"`
	SFX         string  `yaml:"sfx"`
	Volume      float64 `yaml:"volume"`
	Loop        bool    `yaml:"loop"`
	MinDistance float64 `yaml:"min_distance"`
	MaxDistance float64 `yaml:"max_distance"`
}

func (s EmitterComponentSpec) Validate() error {
	switch {
	case s.Music == "" && s.SFX == "":
		return fmt.Errorf("emitter: one of music or sfx is required")
	case s.Music != "" && s.SFX != "":
		return fmt.Errorf("emitter: music %q and sfx %q are mutually exclusive", s.Music, s.SFX)
	case s.Volume < 0 || s.Volume > 1:
		return fmt.Errorf("emitter: volume %v out of range [0,1]", s.Volume)
	case s.MaxDistance != 0 && s.MaxDistance < s.MinDistance:
		return fmt.Errorf("emitter: max_distance %v below min_distance %v", s.MaxDistance, s.MinDistance)
	}
	return nil
}

type ListenerComponentSpec struct {
	Active bool `yaml:"active"`
}

// Emitter returns the decoded emitter component of a prefab, if it has one.
func (s EntityBuildSpec) Emitter() (*EmitterComponentSpec, error) {
	raw, ok := s.Components["emitter"]
	if !ok {
		return nil, nil
	}
	spec, err := DecodeComponentSpec[EmitterComponentSpec](raw)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: decode emitter: %w", s.Name, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", s.Name, err)
	}
	return &spec, nil
}

// CuesComponentSpec attaches a compiled cue script to an entity.
type CuesComponentSpec struct {
	Script string `yaml:"script"`
}

// NowPlayingComponentSpec marks the entity that mirrors the music state.
type NowPlayingComponentSpec struct{}
