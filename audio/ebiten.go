package audio

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/common"
	"github.com/rs/zerolog"
)

// EbitenMixer plays voices through an ebiten audio context.
type EbitenMixer struct {
	ctx    *audio.Context
	master float64
	voices map[*ebitenPlayback]struct{}
	logger zerolog.Logger
}

// NewEbitenMixer wraps ctx. ebiten allows one context per process, so the
// caller owns its creation.
func NewEbitenMixer(ctx *audio.Context, logger zerolog.Logger) *EbitenMixer {
	return &EbitenMixer{
		ctx:    ctx,
		master: 1,
		voices: make(map[*ebitenPlayback]struct{}),
		logger: logger.With().Str("component", "mixer").Logger(),
	}
}

func (m *EbitenMixer) NewPlayback(loop bool) Playback {
	p := &ebitenPlayback{mixer: m, loop: loop, volume: 1}
	m.voices[p] = struct{}{}
	return p
}

func (m *EbitenMixer) SetMasterVolume(v float64) {
	m.master = common.Clamp01(v)
	for p := range m.voices {
		p.apply()
	}
}

func (m *EbitenMixer) MasterVolume() float64 {
	return m.master
}

type ebitenPlayback struct {
	mixer  *EbitenMixer
	loop   bool
	clip   *assets.Clip
	player *audio.Player
	volume float64
	muted  bool
}

func (p *ebitenPlayback) SetVolume(v float64) {
	p.volume = common.Clamp01(v)
	p.apply()
}

func (p *ebitenPlayback) Volume() float64 {
	return p.volume
}

func (p *ebitenPlayback) Clip() *assets.Clip {
	return p.clip
}

func (p *ebitenPlayback) SetClip(clip *assets.Clip) {
	if p.clip == clip {
		return
	}
	p.release()
	p.clip = clip
	if clip == nil {
		return
	}

	if p.loop {
		loop := audio.NewInfiniteLoop(bytes.NewReader(clip.PCM), int64(len(clip.PCM)))
		player, err := p.mixer.ctx.NewPlayer(loop)
		if err != nil {
			p.mixer.logger.Error().Err(err).Str("clip", clip.Name).Msg("create looping player")
			return
		}
		p.player = player
	} else {
		p.player = p.mixer.ctx.NewPlayerFromBytes(clip.PCM)
	}
	p.apply()
}

func (p *ebitenPlayback) Play() {
	if p.player == nil || p.player.IsPlaying() {
		return
	}
	p.player.Play()
}

func (p *ebitenPlayback) Stop() {
	if p.player == nil {
		return
	}
	p.player.Pause()
	p.player.Rewind()
}

func (p *ebitenPlayback) Pause() {
	if p.player == nil {
		return
	}
	p.player.Pause()
}

func (p *ebitenPlayback) Unpause() {
	p.Play()
}

func (p *ebitenPlayback) IsPlaying() bool {
	return p.player != nil && p.player.IsPlaying()
}

func (p *ebitenPlayback) SetMuted(muted bool) {
	p.muted = muted
	p.apply()
}

func (p *ebitenPlayback) Close() error {
	delete(p.mixer.voices, p)
	return p.release()
}

func (p *ebitenPlayback) release() error {
	if p.player == nil {
		return nil
	}
	player := p.player
	p.player = nil
	player.Pause()
	return player.Close()
}

func (p *ebitenPlayback) apply() {
	if p.player == nil {
		return
	}
	gain := p.volume * p.mixer.master
	if p.muted {
		gain = 0
	}
	p.player.SetVolume(gain)
}
