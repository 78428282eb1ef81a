package audio

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/prefabs"
	"github.com/rs/zerolog"
)

// Resolver is the asset lookup the manager needs; *assets.Registry satisfies it.
type Resolver interface {
	MusicResolver
	SFXResolver
	Prefab(id assets.PrefabID) (*prefabs.EntityBuildSpec, error)
}

// Settings are fixed at construction.
type Settings struct {
	FadeDuration  time.Duration
	DefaultVolume float64
	MinDistance   float64
	MaxDistance   float64
}

func DefaultSettings() Settings {
	return Settings{
		FadeDuration:  DefaultFadeDuration,
		DefaultVolume: DefaultVolume,
		MinDistance:   DefaultMinDistance,
		MaxDistance:   DefaultMaxDistance,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.FadeDuration <= 0 {
		s.FadeDuration = d.FadeDuration
	}
	if s.DefaultVolume <= 0 {
		s.DefaultVolume = d.DefaultVolume
	}
	if s.MinDistance <= 0 {
		s.MinDistance = d.MinDistance
	}
	if s.MaxDistance <= s.MinDistance {
		s.MaxDistance = d.MaxDistance
	}
	return s
}

// Manager is the game-facing audio API: cross-faded music, one-shot sound
// effects and point-source emitters.
type Manager struct {
	settings Settings
	assets   Resolver
	mixer    Mixer
	music    *Controller

	oneShots []*Emitter
	emitters []*Emitter
	listener cp.Vector

	sfxMuted   bool
	musicMuted bool

	rng    *rand.Rand
	logger zerolog.Logger
}

type ManagerOption func(*Manager)

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithRand makes RandomSFX deterministic.
func WithRand(rng *rand.Rand) ManagerOption {
	return func(m *Manager) {
		m.rng = rng
	}
}

func NewManager(res Resolver, mixer Mixer, settings Settings, opts ...ManagerOption) *Manager {
	m := &Manager{
		settings: settings.withDefaults(),
		assets:   res,
		mixer:    mixer,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m.music = NewController(res, mixer.NewPlayback(true), mixer.NewPlayback(true),
		WithFadeDuration(m.settings.FadeDuration),
		WithControllerLogger(m.logger),
	)
	m.logger = m.logger.With().Str("component", "audio").Logger()
	return m
}

func (m *Manager) Settings() Settings {
	return m.settings
}

// Music exposes the crossfade controller.
func (m *Manager) Music() *Controller {
	return m.music
}

func (m *Manager) PlayMusic(id assets.MusicID, volume float64) error {
	return m.music.PlayImmediate(id, volume)
}

func (m *Manager) StopMusic() {
	m.music.Stop()
}

func (m *Manager) PauseMusic() {
	m.music.Pause()
}

func (m *Manager) ResumeMusic() {
	m.music.Resume()
}

// TransitionMusic cross-fades to id over the configured fade duration.
func (m *Manager) TransitionMusic(id assets.MusicID, volume float64) error {
	return m.music.Transition(id, volume, m.settings.FadeDuration)
}

func (m *Manager) TransitionMusicOver(id assets.MusicID, volume float64, d time.Duration) error {
	return m.music.Transition(id, volume, d)
}

// PlaySFX plays a non-positional one-shot. Overlapping calls each get a voice.
func (m *Manager) PlaySFX(id assets.SFXID, volume float64) error {
	clip, err := m.assets.SFX(id)
	if err != nil {
		return err
	}
	p := m.mixer.NewPlayback(false)
	p.SetMuted(m.sfxMuted)
	p.SetVolume(volume)
	p.SetClip(clip)
	p.Play()

	m.oneShots = append(m.oneShots, &Emitter{
		playback:  p,
		volume:    volume,
		remaining: clip.Length(),
		oneShot:   true,
	})
	return nil
}

// PlaySFXAtPoint plays a one-shot from pos. The voice is released once the
// clip length has elapsed.
func (m *Manager) PlaySFXAtPoint(id assets.SFXID, pos cp.Vector, opts EmitterOptions) error {
	clip, err := m.assets.SFX(id)
	if err != nil {
		return err
	}
	e := m.newEmitter(clip, pos, opts, false)
	e.oneShot = true
	e.remaining = clip.Length()
	e.playback.SetMuted(m.sfxMuted)
	return nil
}

// CreateMusicSource starts a looping music emitter at pos. The caller owns it
// and ends it with Close.
func (m *Manager) CreateMusicSource(id assets.MusicID, pos cp.Vector, opts EmitterOptions) (*Emitter, error) {
	clip, err := m.assets.Music(id)
	if err != nil {
		return nil, err
	}
	return m.newEmitter(clip, pos, opts, true), nil
}

// SpawnPrefab starts the emitter described by a prefab at pos.
func (m *Manager) SpawnPrefab(id assets.PrefabID, pos cp.Vector) (*Emitter, error) {
	spec, err := m.assets.Prefab(id)
	if err != nil {
		return nil, err
	}
	return m.SpawnSpec(spec, pos)
}

// SpawnSpec starts the emitter component of a prefab spec at pos.
func (m *Manager) SpawnSpec(spec *prefabs.EntityBuildSpec, pos cp.Vector) (*Emitter, error) {
	if spec == nil {
		return nil, fmt.Errorf("audio: prefab spec is nil")
	}
	es, err := spec.Emitter()
	if err != nil {
		return nil, err
	}
	if es == nil {
		return nil, fmt.Errorf("audio: prefab %q has no emitter", spec.Name)
	}
	return m.StartEmitter(*es, pos)
}

// StartEmitter starts a point source from an emitter spec. Looping emitters
// live until closed; the others are released after one play of the clip.
func (m *Manager) StartEmitter(es prefabs.EmitterComponentSpec, pos cp.Vector) (*Emitter, error) {
	if err := es.Validate(); err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	var (
		clip *assets.Clip
		err  error
	)
	if es.Music != "" {
		clip, err = m.assets.Music(assets.MusicID(es.Music))
	} else {
		clip, err = m.assets.SFX(assets.SFXID(es.SFX))
	}
	if err != nil {
		return nil, err
	}

	e := m.newEmitter(clip, pos, EmitterOptions{
		Volume:      es.Volume,
		MinDistance: es.MinDistance,
		MaxDistance: es.MaxDistance,
	}, es.Loop)
	if !es.Loop {
		e.oneShot = true
		e.remaining = clip.Length()
		if es.SFX != "" {
			e.playback.SetMuted(m.sfxMuted)
		}
	}
	return e, nil
}

func (m *Manager) newEmitter(clip *assets.Clip, pos cp.Vector, opts EmitterOptions, loop bool) *Emitter {
	if opts.Volume <= 0 {
		opts.Volume = m.settings.DefaultVolume
	}
	if opts.MinDistance <= 0 {
		opts.MinDistance = m.settings.MinDistance
	}
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = m.settings.MaxDistance
	}

	e := &Emitter{
		playback:    m.mixer.NewPlayback(loop),
		position:    pos,
		volume:      opts.Volume,
		minDistance: opts.MinDistance,
		maxDistance: opts.MaxDistance,
	}
	e.refresh(m.listener)
	e.playback.SetClip(clip)
	e.playback.Play()
	m.emitters = append(m.emitters, e)
	return e
}

// SetListener moves the point emitters are heard from.
func (m *Manager) SetListener(pos cp.Vector) {
	m.listener = pos
}

func (m *Manager) Listener() cp.Vector {
	return m.listener
}

// Emitters returns the live positional emitters.
func (m *Manager) Emitters() []*Emitter {
	return slices.Clone(m.emitters)
}

// RandomSFX picks one of ids uniformly. It returns "" when ids is empty.
func (m *Manager) RandomSFX(ids ...assets.SFXID) assets.SFXID {
	if len(ids) == 0 {
		return ""
	}
	return ids[m.rng.IntN(len(ids))]
}

func (m *Manager) SetMasterVolume(v float64) {
	m.mixer.SetMasterVolume(v)
}

func (m *Manager) MasterVolume() float64 {
	return m.mixer.MasterVolume()
}

// ToggleSFX flips the mute state of sound-effect one-shots and returns it.
func (m *Manager) ToggleSFX() bool {
	m.sfxMuted = !m.sfxMuted
	for _, e := range m.oneShots {
		e.playback.SetMuted(m.sfxMuted)
	}
	for _, e := range m.emitters {
		if e.oneShot {
			e.playback.SetMuted(m.sfxMuted)
		}
	}
	return m.sfxMuted
}

// ToggleMusic flips the mute state of both music channels and returns it.
func (m *Manager) ToggleMusic() bool {
	m.musicMuted = !m.musicMuted
	m.music.SetMuted(m.musicMuted)
	return m.musicMuted
}

func (m *Manager) SFXMuted() bool {
	return m.sfxMuted
}

func (m *Manager) MusicMuted() bool {
	return m.musicMuted
}

// Tick advances music fades, refreshes emitter gains and releases finished
// one-shots. Call it once per frame with the frame's delta.
func (m *Manager) Tick(dt time.Duration) {
	m.music.Tick(dt)
	m.oneShots = m.reap(m.oneShots, dt, false)
	m.emitters = m.reap(m.emitters, dt, true)
}

func (m *Manager) reap(list []*Emitter, dt time.Duration, positional bool) []*Emitter {
	kept := list[:0]
	for _, e := range list {
		if e.oneShot && !e.closed {
			e.remaining -= dt
			if e.remaining <= 0 {
				e.Close()
			}
		}
		if e.closed {
			if err := e.playback.Close(); err != nil {
				m.logger.Warn().Err(err).Msg("release voice")
			}
			continue
		}
		if positional {
			e.refresh(m.listener)
		}
		kept = append(kept, e)
	}
	clear(list[len(kept):])
	return kept
}

// Close stops all music and releases every voice.
func (m *Manager) Close() {
	m.music.Stop()
	for _, e := range append(m.oneShots, m.emitters...) {
		e.Close()
		_ = e.playback.Close()
	}
	m.oneShots = nil
	m.emitters = nil
}
