package audio

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/prefabs"
	"github.com/rs/zerolog"
)

const tolerance = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}

// clipOf builds a silent clip lasting d at a 1 kHz sample rate.
func clipOf(name string, d time.Duration) *assets.Clip {
	frames := int(d / time.Millisecond)
	return &assets.Clip{Name: name, SampleRate: 1000, PCM: make([]byte, frames*4)}
}

func testRegistry(logs *bytes.Buffer) *assets.Registry {
	logger := zerolog.Nop()
	if logs != nil {
		logger = zerolog.New(logs)
	}
	return assets.NewRegistry(assets.Entries{
		Music: []assets.Entry[assets.MusicID, assets.Clip]{
			{Key: "a", Asset: clipOf("a.wav", 30*time.Second)},
			{Key: "b", Asset: clipOf("b.wav", 30*time.Second)},
			{Key: "x", Asset: clipOf("x.wav", 30*time.Second)},
		},
		SFX: []assets.Entry[assets.SFXID, assets.Clip]{
			{Key: "jump", Asset: clipOf("jump.wav", 100*time.Millisecond)},
			{Key: "hit", Asset: clipOf("hit.wav", 50*time.Millisecond)},
			{Key: "loop", Asset: clipOf("loop.wav", time.Second)},
		},
		Prefabs: []assets.Entry[assets.PrefabID, prefabs.EntityBuildSpec]{
			{Key: "campfire", Asset: &prefabs.EntityBuildSpec{
				Name: "campfire",
				Components: map[string]any{
					"emitter": map[string]any{"sfx": "loop", "volume": 0.5, "loop": true, "min_distance": 10.0, "max_distance": 110.0},
				},
			}},
			{Key: "pop", Asset: &prefabs.EntityBuildSpec{
				Name:       "pop",
				Components: map[string]any{"emitter": map[string]any{"sfx": "hit"}},
			}},
			{Key: "silent", Asset: &prefabs.EntityBuildSpec{Name: "silent", Components: map[string]any{}}},
		},
	}, assets.WithLogger(logger))
}

type controllerFixture struct {
	ctrl *Controller
	a, b *HeadlessPlayback
	reg  *assets.Registry
}

func newControllerFixture(t *testing.T, logs *bytes.Buffer) *controllerFixture {
	t.Helper()
	mixer := NewHeadlessMixer()
	f := &controllerFixture{
		a:   mixer.NewHeadlessPlayback(true),
		b:   mixer.NewHeadlessPlayback(true),
		reg: testRegistry(logs),
	}
	f.ctrl = NewController(f.reg, f.a, f.b)
	return f
}

func (f *controllerFixture) clip(t *testing.T, id assets.MusicID) *assets.Clip {
	t.Helper()
	c, err := f.reg.Music(id)
	if err != nil {
		t.Fatalf("music %s: %v", id, err)
	}
	return c
}

// advance ticks total in steps equal frames.
func advance(c interface{ Tick(time.Duration) }, total time.Duration, steps int) {
	dt := total / time.Duration(steps)
	for i := 0; i < steps; i++ {
		c.Tick(dt)
	}
}
