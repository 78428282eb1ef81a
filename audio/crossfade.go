package audio

import (
	"time"

	"github.com/milk9111/soundstage/assets"
	"github.com/rs/zerolog"
)

const (
	DefaultFadeDuration = 2 * time.Second
	DefaultVolume       = 1.0
)

// Controller owns the two music channels and the fade tasks moving between
// them. At most one fade-in and one fade-out are active; any direct channel
// operation cancels both before touching a channel.
type Controller struct {
	resolver MusicResolver
	channels [2]Playback
	tracks   [2]assets.MusicID

	fadeIn  *FadeTask
	fadeOut *FadeTask
	paused  bool

	fadeDuration time.Duration
	logger       zerolog.Logger
}

type ControllerOption func(*Controller)

// WithFadeDuration sets the fade used when Transition gets a non-positive duration.
func WithFadeDuration(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.fadeDuration = d
		}
	}
}

func WithControllerLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(resolver MusicResolver, a, b Playback, opts ...ControllerOption) *Controller {
	c := &Controller{
		resolver:     resolver,
		channels:     [2]Playback{a, b},
		fadeDuration: DefaultFadeDuration,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("component", "music").Logger()
	return c
}

// PlayImmediate plays id on channel A at volume with no fade. Channel B is
// stopped and emptied.
func (c *Controller) PlayImmediate(id assets.MusicID, volume float64) error {
	c.cancelFades()
	c.paused = false

	a, b := c.channels[ChannelA], c.channels[ChannelB]
	b.Stop()
	b.SetClip(nil)
	c.tracks[ChannelB] = ""
	a.Stop()

	clip, err := c.resolve(id)
	a.SetVolume(volume)
	a.SetClip(clip)
	a.Play()
	c.tracks[ChannelA] = trackOf(id, clip)

	c.logger.Debug().Str("track", string(id)).Float64("volume", volume).Msg("play")
	return err
}

// Stop halts both channels. Loaded clips stay in place so Resume can pick
// them up again.
func (c *Controller) Stop() {
	c.cancelFades()
	c.paused = false
	for _, ch := range c.channels {
		ch.Stop()
	}
}

// Pause suspends both channels and freezes any fade in progress.
func (c *Controller) Pause() {
	for _, ch := range c.channels {
		ch.Pause()
	}
	c.paused = true
}

// Resume restarts every channel that still has a clip, leaving volumes as they are.
func (c *Controller) Resume() {
	for _, ch := range c.channels {
		if ch.Clip() != nil {
			ch.Unpause()
		}
	}
	c.paused = false
}

// Transition fades the playing channel out and id in on the other one over
// duration. When nothing is playing, channel A fades in, channel B is emptied
// and no fade-out is scheduled. Fades already in flight are discarded first.
func (c *Controller) Transition(id assets.MusicID, volume float64, duration time.Duration) error {
	c.cancelFades()
	c.paused = false
	if duration <= 0 {
		duration = c.fadeDuration
	}

	target := ChannelA
	if from, ok := c.playingChannel(); ok {
		target = from.Other()
		c.fadeOut = &FadeTask{
			Channel:   from,
			Direction: FadeOut,
			From:      c.channels[from].Volume(),
			To:        0,
			Duration:  duration,
		}
	} else {
		// A stopped or paused channel keeps its clip; drop it so a later
		// Resume cannot bring it back next to the new track.
		idle := c.channels[target.Other()]
		idle.Stop()
		idle.SetClip(nil)
		c.tracks[target.Other()] = ""
	}

	clip, err := c.resolve(id)

	ch := c.channels[target]
	ch.Stop()
	ch.SetVolume(0)
	ch.SetClip(clip)
	ch.Play()
	c.tracks[target] = trackOf(id, clip)
	if clip != nil {
		c.fadeIn = &FadeTask{
			Channel:   target,
			Direction: FadeIn,
			From:      0,
			To:        volume,
			Duration:  duration,
		}
	}

	c.logger.Debug().
		Str("track", string(id)).
		Stringer("channel", target).
		Float64("volume", volume).
		Dur("duration", duration).
		Bool("crossfade", c.fadeOut != nil).
		Msg("transition")
	return err
}

// Tick advances both fades by dt. Fade-out runs first so a finished channel
// is stopped before the same frame's fade-in.
func (c *Controller) Tick(dt time.Duration) {
	if c.paused || dt <= 0 {
		return
	}

	if c.fadeOut != nil {
		ch := c.channels[c.fadeOut.Channel]
		v, done := c.fadeOut.Advance(dt)
		ch.SetVolume(v)
		if done {
			ch.Stop()
			ch.SetClip(nil)
			c.tracks[c.fadeOut.Channel] = ""
			c.fadeOut = nil
		}
	}

	if c.fadeIn != nil {
		ch := c.channels[c.fadeIn.Channel]
		v, done := c.fadeIn.Advance(dt)
		ch.SetVolume(v)
		if done {
			c.fadeIn = nil
		}
	}
}

// Fading reports whether any fade task is active.
func (c *Controller) Fading() bool {
	return c.fadeIn != nil || c.fadeOut != nil
}

func (c *Controller) Paused() bool {
	return c.paused
}

func (c *Controller) SetMuted(muted bool) {
	for _, ch := range c.channels {
		ch.SetMuted(muted)
	}
}

// Snapshot is a copy of the controller state for overlays and tests.
type Snapshot struct {
	Channels [2]ChannelState
	FadeIn   *FadeTask
	FadeOut  *FadeTask
	Paused   bool
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{Paused: c.paused}
	for i, ch := range c.channels {
		s.Channels[i] = ChannelState{
			Channel: Channel(i),
			Track:   c.tracks[i],
			Clip:    ch.Clip(),
			Volume:  ch.Volume(),
			Playing: ch.IsPlaying(),
		}
	}
	if c.fadeIn != nil {
		f := *c.fadeIn
		s.FadeIn = &f
	}
	if c.fadeOut != nil {
		f := *c.fadeOut
		s.FadeOut = &f
	}
	return s
}

// Current returns the channel carrying the most recently requested track.
func (s Snapshot) Current() (ChannelState, bool) {
	if s.FadeIn != nil {
		return s.Channels[s.FadeIn.Channel], true
	}
	for _, ch := range s.Channels {
		if ch.Playing {
			return ch, true
		}
	}
	return ChannelState{}, false
}

func (c *Controller) cancelFades() {
	c.fadeIn = nil
	c.fadeOut = nil
}

// playingChannel picks the channel to fade out. After an interrupted
// transition both may be playing; the louder one wins.
func (c *Controller) playingChannel() (Channel, bool) {
	a, b := c.channels[ChannelA], c.channels[ChannelB]
	switch {
	case a.IsPlaying() && b.IsPlaying():
		if b.Volume() > a.Volume() {
			return ChannelB, true
		}
		return ChannelA, true
	case a.IsPlaying():
		return ChannelA, true
	case b.IsPlaying():
		return ChannelB, true
	}
	return ChannelA, false
}

func (c *Controller) resolve(id assets.MusicID) (*assets.Clip, error) {
	if c.resolver == nil {
		return nil, assets.ErrMissingAsset
	}
	clip, err := c.resolver.Music(id)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

func trackOf(id assets.MusicID, clip *assets.Clip) assets.MusicID {
	if clip == nil {
		return ""
	}
	return id
}
