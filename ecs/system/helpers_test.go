package system

import (
	"testing"
	"time"

	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/ecs"
)

func clipOf(name string, d time.Duration) *assets.Clip {
	return &assets.Clip{Name: name, SampleRate: 1000, PCM: make([]byte, int(d/time.Millisecond)*4)}
}

type fixture struct {
	world   *ecs.World
	mixer   *audio.HeadlessMixer
	manager *audio.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := assets.NewRegistry(assets.Entries{
		Music: []assets.Entry[assets.MusicID, assets.Clip]{
			{Key: "title", Asset: clipOf("title.wav", 10*time.Second)},
			{Key: "field", Asset: clipOf("field.wav", 10*time.Second)},
		},
		SFX: []assets.Entry[assets.SFXID, assets.Clip]{
			{Key: "jump", Asset: clipOf("jump.wav", 100*time.Millisecond)},
			{Key: "crackle", Asset: clipOf("crackle.wav", time.Second)},
		},
	})
	mixer := audio.NewHeadlessMixer()
	return &fixture{
		world:   ecs.NewWorld(),
		mixer:   mixer,
		manager: audio.NewManager(reg, mixer, audio.Settings{}),
	}
}

func (f *fixture) channel(i int) *audio.HeadlessPlayback {
	return f.mixer.Voices()[i]
}

func run(w *ecs.World, s ecs.System, total time.Duration, steps int) {
	dt := total / time.Duration(steps)
	for i := 0; i < steps; i++ {
		s.Update(w, dt)
	}
}
