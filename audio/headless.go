package audio

import (
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/common"
)

// HeadlessMixer tracks playback state without producing sound. It backs
// tests and tools that run without an audio device.
type HeadlessMixer struct {
	master float64
	voices []*HeadlessPlayback
}

func NewHeadlessMixer() *HeadlessMixer {
	return &HeadlessMixer{master: 1}
}

func (m *HeadlessMixer) NewPlayback(loop bool) Playback {
	return m.NewHeadlessPlayback(loop)
}

func (m *HeadlessMixer) NewHeadlessPlayback(loop bool) *HeadlessPlayback {
	p := &HeadlessPlayback{mixer: m, Loop: loop, volume: 1}
	m.voices = append(m.voices, p)
	return p
}

func (m *HeadlessMixer) SetMasterVolume(v float64) {
	m.master = common.Clamp01(v)
}

func (m *HeadlessMixer) MasterVolume() float64 {
	return m.master
}

// Voices returns every voice created so far, closed ones included.
func (m *HeadlessMixer) Voices() []*HeadlessPlayback {
	return append([]*HeadlessPlayback(nil), m.voices...)
}

// Live returns voices that have not been closed.
func (m *HeadlessMixer) Live() []*HeadlessPlayback {
	out := make([]*HeadlessPlayback, 0, len(m.voices))
	for _, v := range m.voices {
		if !v.closed {
			out = append(out, v)
		}
	}
	return out
}

type HeadlessPlayback struct {
	mixer *HeadlessMixer
	Loop  bool

	clip    *assets.Clip
	volume  float64
	muted   bool
	playing bool
	paused  bool
	closed  bool

	// Plays counts successful Play/Unpause transitions into the playing state.
	Plays int
}

func (p *HeadlessPlayback) SetVolume(v float64) { p.volume = common.Clamp01(v) }
func (p *HeadlessPlayback) Volume() float64     { return p.volume }
func (p *HeadlessPlayback) Clip() *assets.Clip  { return p.clip }
func (p *HeadlessPlayback) IsPlaying() bool     { return p.playing }
func (p *HeadlessPlayback) SetMuted(muted bool) { p.muted = muted }
func (p *HeadlessPlayback) Muted() bool         { return p.muted }
func (p *HeadlessPlayback) Paused() bool        { return p.paused }
func (p *HeadlessPlayback) Closed() bool        { return p.closed }

func (p *HeadlessPlayback) SetClip(clip *assets.Clip) {
	if p.clip == clip {
		return
	}
	p.playing = false
	p.paused = false
	p.clip = clip
}

func (p *HeadlessPlayback) Play() {
	if p.closed || p.clip == nil || p.playing {
		return
	}
	p.playing = true
	p.paused = false
	p.Plays++
}

func (p *HeadlessPlayback) Stop() {
	p.playing = false
	p.paused = false
}

func (p *HeadlessPlayback) Pause() {
	if !p.playing {
		return
	}
	p.playing = false
	p.paused = true
}

func (p *HeadlessPlayback) Unpause() {
	p.Play()
}

func (p *HeadlessPlayback) Close() error {
	p.playing = false
	p.closed = true
	return nil
}

// Output is the gain that would reach the speakers.
func (p *HeadlessPlayback) Output() float64 {
	if p.muted || !p.playing {
		return 0
	}
	master := 1.0
	if p.mixer != nil {
		master = p.mixer.master
	}
	return p.volume * master
}
