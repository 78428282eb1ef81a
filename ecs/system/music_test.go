package system

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/rs/zerolog"
)

func TestMusicSystemLatestRequestWins(t *testing.T) {
	f := newFixture(t)
	var logs bytes.Buffer
	sys := NewMusicSystem(f.manager, zerolog.New(&logs))

	RequestMusic(f.world, "title")
	RequestMusic(f.world, "field")
	sys.Update(f.world, 0)

	if n := strings.Count(logs.String(), "superseded"); n != 1 {
		t.Fatalf("expected one warning for the dropped request, got %d: %s", n, logs.String())
	}
	if !strings.Contains(logs.String(), `"track":"title"`) {
		t.Fatalf("warning should name the dropped track: %s", logs.String())
	}

	a := f.channel(0)
	if a.Clip() == nil || a.Clip().Name != "field.wav" || !a.IsPlaying() {
		t.Fatalf("expected field on channel A")
	}
	if a.Volume() != 1 {
		t.Fatalf("zero request volume should use the default, got %v", a.Volume())
	}
	if n := ecs.Count(f.world, component.MusicRequestComponent.Kind()); n != 0 {
		t.Fatalf("requests should be consumed, %d left", n)
	}
	if len(ecs.Entities(f.world)) != 0 {
		t.Fatalf("request entities should be destroyed")
	}
}

func TestMusicSystemTransitionTicksManager(t *testing.T) {
	f := newFixture(t)
	sys := NewMusicSystem(f.manager, zerolog.Nop())

	RequestMusic(f.world, "title")
	sys.Update(f.world, 0)

	TransitionMusic(f.world, "field", 0.5, time.Second)
	run(f.world, sys, time.Second, 10)

	a, b := f.channel(0), f.channel(1)
	if a.IsPlaying() || a.Clip() != nil {
		t.Fatalf("A should be stopped and cleared")
	}
	if !b.IsPlaying() || b.Volume() != 0.5 {
		t.Fatalf("B should play at 0.5, got playing=%v volume=%v", b.IsPlaying(), b.Volume())
	}
}

func TestMusicSystemOps(t *testing.T) {
	f := newFixture(t)
	sys := NewMusicSystem(f.manager, zerolog.Nop())
	a := f.channel(0)

	RequestMusic(f.world, "title")
	sys.Update(f.world, 0)

	tests := []struct {
		name    string
		request func(w *ecs.World)
		playing bool
	}{
		{"pause", PauseMusic, false},
		{"resume", ResumeMusic, true},
		{"stop", StopMusic, false},
		{"resume_after_stop", ResumeMusic, true},
		{"unknown_op_ignored", func(w *ecs.World) {
			RequestMusicWithOptions(w, &component.MusicRequest{Op: "rewind"})
		}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.request(f.world)
			sys.Update(f.world, 16*time.Millisecond)
			if a.IsPlaying() != tc.playing {
				t.Fatalf("expected playing=%v", tc.playing)
			}
		})
	}
}

func TestMusicSystemNowPlaying(t *testing.T) {
	f := newFixture(t)
	sys := NewMusicSystem(f.manager, zerolog.Nop())

	ent := ecs.CreateEntity(f.world)
	if err := ecs.Add(f.world, ent, component.NowPlayingComponent.Kind(), &component.NowPlaying{}); err != nil {
		t.Fatal(err)
	}

	RequestMusic(f.world, "title")
	sys.Update(f.world, 0)
	TransitionMusic(f.world, "field", 0.8, 2*time.Second)
	sys.Update(f.world, time.Second)

	np, _ := ecs.Get(f.world, ent, component.NowPlayingComponent.Kind())
	if np.Track != "field" || np.Title != "field.wav" || np.Channel != "B" || !np.Fading {
		t.Fatalf("unexpected now playing %+v", np)
	}
	if np.Volume < 0.39 || np.Volume > 0.41 {
		t.Fatalf("expected volume near 0.4, got %v", np.Volume)
	}

	f.manager.ToggleMusic()
	sys.Update(f.world, 0)
	if np, _ = ecs.Get(f.world, ent, component.NowPlayingComponent.Kind()); !np.Muted {
		t.Fatalf("expected muted flag")
	}
}
