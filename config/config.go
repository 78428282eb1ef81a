package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/milk9111/soundstage/audio"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the jukebox. Zero fields are filled
// from Default; environment variables override the file.
type Config struct {
	Manifest  string `yaml:"manifest"`
	CueScript string `yaml:"cue_script"`

	SampleRate  int `yaml:"sample_rate"`
	TPS         int `yaml:"tps"`
	Concurrency int `yaml:"concurrency"`

	FadeDuration  time.Duration `yaml:"fade_duration"`
	DefaultVolume float64       `yaml:"default_volume"`
	MasterVolume  float64       `yaml:"master_volume"`
	MinDistance   float64       `yaml:"min_distance"`
	MaxDistance   float64       `yaml:"max_distance"`

	Debug bool `yaml:"debug"`
}

func Default() Config {
	return Config{
		Manifest:      "manifest.yaml",
		SampleRate:    44100,
		TPS:           60,
		Concurrency:   4,
		FadeDuration:  audio.DefaultFadeDuration,
		DefaultVolume: audio.DefaultVolume,
		MasterVolume:  1,
		MinDistance:   audio.DefaultMinDistance,
		MaxDistance:   audio.DefaultMaxDistance,
	}
}

// Load reads path, applies defaults and env overrides, and validates. A
// missing file is not an error; the defaults are used.
func Load(path string) (Config, error) {
	cfg := Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if cfg, err = Parse(data); err != nil {
				return Config{}, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}

	cfg = cfg.withDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes yaml without applying defaults.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	d := Default()
	if c.Manifest == "" {
		c.Manifest = d.Manifest
	}
	if c.SampleRate == 0 {
		c.SampleRate = d.SampleRate
	}
	if c.TPS == 0 {
		c.TPS = d.TPS
	}
	if c.Concurrency == 0 {
		c.Concurrency = d.Concurrency
	}
	if c.FadeDuration == 0 {
		c.FadeDuration = d.FadeDuration
	}
	if c.DefaultVolume == 0 {
		c.DefaultVolume = d.DefaultVolume
	}
	if c.MasterVolume == 0 {
		c.MasterVolume = d.MasterVolume
	}
	if c.MinDistance == 0 {
		c.MinDistance = d.MinDistance
	}
	if c.MaxDistance == 0 {
		c.MaxDistance = d.MaxDistance
	}
	return c
}

func (c *Config) applyEnv() {
	c.Manifest = envStr("SOUNDSTAGE_MANIFEST", c.Manifest)
	c.CueScript = envStr("SOUNDSTAGE_CUES", c.CueScript)
	c.FadeDuration = envDuration("SOUNDSTAGE_FADE", c.FadeDuration)
	c.MasterVolume = envFloat("SOUNDSTAGE_MASTER_VOLUME", c.MasterVolume)
	c.Debug = envBool("SOUNDSTAGE_DEBUG", c.Debug)
}

func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.SampleRate)
	case c.TPS <= 0:
		return fmt.Errorf("config: tps must be positive, got %d", c.TPS)
	case c.Concurrency < 0:
		return fmt.Errorf("config: concurrency must not be negative, got %d", c.Concurrency)
	case c.FadeDuration < 0:
		return fmt.Errorf("config: fade_duration must not be negative, got %s", c.FadeDuration)
	case c.DefaultVolume < 0 || c.DefaultVolume > 1:
		return fmt.Errorf("config: default_volume %v out of range [0,1]", c.DefaultVolume)
	case c.MasterVolume < 0 || c.MasterVolume > 1:
		return fmt.Errorf("config: master_volume %v out of range [0,1]", c.MasterVolume)
	case c.MinDistance < 0:
		return fmt.Errorf("config: min_distance must not be negative, got %v", c.MinDistance)
	case c.MaxDistance <= c.MinDistance:
		return fmt.Errorf("config: max_distance %v must exceed min_distance %v", c.MaxDistance, c.MinDistance)
	}
	return nil
}

// AudioSettings converts the config into manager settings.
func (c Config) AudioSettings() audio.Settings {
	return audio.Settings{
		FadeDuration:  c.FadeDuration,
		DefaultVolume: c.DefaultVolume,
		MinDistance:   c.MinDistance,
		MaxDistance:   c.MaxDistance,
	}
}

// FrameDelta is the fixed tick length at the configured TPS.
func (c Config) FrameDelta() time.Duration {
	if c.TPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TPS)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
