package audio

import (
	"time"

	"github.com/milk9111/soundstage/common"
)

type FadeDirection int

const (
	FadeIn FadeDirection = iota
	FadeOut
)

func (d FadeDirection) String() string {
	if d == FadeOut {
		return "out"
	}
	return "in"
}

// FadeTask is a linear volume ramp on one channel. It is plain data: the
// controller advances it from Tick and drops it to cancel.
type FadeTask struct {
	Channel   Channel
	Direction FadeDirection
	From      float64
	To        float64
	Elapsed   time.Duration
	Duration  time.Duration
}

// Progress is the elapsed fraction clamped to [0,1].
func (f FadeTask) Progress() float64 {
	if f.Duration <= 0 {
		return 1
	}
	return common.Clamp01(f.Elapsed.Seconds() / f.Duration.Seconds())
}

func (f FadeTask) Volume() float64 {
	return common.Lerp(f.From, f.To, f.Progress())
}

// Advance moves the ramp forward by dt. Once the duration is reached the
// returned volume is exactly To.
func (f *FadeTask) Advance(dt time.Duration) (volume float64, done bool) {
	if dt > 0 {
		f.Elapsed += dt
	}
	if f.Elapsed >= f.Duration {
		f.Elapsed = f.Duration
		return f.To, true
	}
	return f.Volume(), false
}
