package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/config"
	"github.com/milk9111/soundstage/cue"
	"github.com/milk9111/soundstage/ecs"
	"github.com/milk9111/soundstage/ecs/component"
	"github.com/milk9111/soundstage/ecs/entity"
	"github.com/milk9111/soundstage/ecs/system"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	listenerSpeed = 6.0
	volumeStep    = 0.1
)

var (
	emitterColor  = color.RGBA{R: 0xf0, G: 0x90, B: 0x30, A: 0xff}
	listenerColor = color.RGBA{R: 0x40, G: 0xc0, B: 0xf0, A: 0xff}
	rangeColor    = color.RGBA{R: 0xf0, G: 0x90, B: 0x30, A: 0x40}
)

var trackKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type Game struct {
	frames int
	debug  bool

	cfg       config.Config
	registry  *assets.Registry
	manager   *audio.Manager
	world     *ecs.World
	scheduler *ecs.Scheduler

	jukebox  ecs.Entity
	listener ecs.Entity

	tracks   []assets.MusicID
	selected int

	mixer *MixerUI

	clipboardOK bool
	status      string
	logger      zerolog.Logger
}

func NewGame(cfg config.Config, registry *assets.Registry, manager *audio.Manager, cues []cue.Cue, logger zerolog.Logger) (*Game, error) {
	w := ecs.NewWorld()

	jukebox, err := entity.NewJukebox(w, cues)
	if err != nil {
		return nil, err
	}
	listener, err := entity.NewListener(w, baseWidth/2, baseHeight/2)
	if err != nil {
		return nil, err
	}

	g := &Game{
		debug:    cfg.Debug,
		cfg:      cfg,
		registry: registry,
		manager:  manager,
		world:    w,
		scheduler: ecs.NewScheduler(
			system.NewCueSystem(),
			system.NewSoundSystem(manager),
			system.NewEmitterSystem(manager),
			system.NewMusicSystem(manager, logger),
		),
		jukebox:  jukebox,
		listener: listener,
		tracks:   registry.MusicIDs(),
		logger:   logger.With().Str("component", "game").Logger(),
	}
	g.mixer = NewMixerUI(g)

	if err := clipboard.Init(); err != nil {
		g.logger.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboardOK = true
	}

	// Without a cue script the first track starts right away.
	if len(cues) == 0 && len(g.tracks) > 0 {
		system.RequestMusic(w, string(g.tracks[0]))
	}
	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	g.mixer.Update()
	g.handleMusicKeys()
	g.handleSoundKeys()
	g.moveListener()

	g.scheduler.Update(g.world, g.cfg.FrameDelta())
	g.mixer.Sync(g, g.nowPlaying())
	return nil
}

func (g *Game) handleMusicKeys() {
	for i, key := range trackKeys {
		if i >= len(g.tracks) || !inpututil.IsKeyJustPressed(key) {
			continue
		}
		g.selected = i
		system.TransitionMusic(g.world, string(g.tracks[i]), 0, 0)
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab) && len(g.tracks) > 0:
		g.selected = (g.selected + 1) % len(g.tracks)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) && len(g.tracks) > 0:
		system.RequestMusic(g.world, string(g.tracks[g.selected]))
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		system.StopMusic(g.world)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if g.manager.Music().Paused() {
			system.ResumeMusic(g.world)
		} else {
			system.PauseMusic(g.world)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		system.ResumeMusic(g.world)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.manager.ToggleMusic()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.manager.SetMasterVolume(g.manager.MasterVolume() + volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.manager.SetMasterVolume(g.manager.MasterVolume() - volumeStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyNowPlaying()
	}
}

func (g *Game) handleSoundKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if id := g.manager.RandomSFX(g.registry.SFXIDs()...); id != "" {
			system.PlaySound(g.world, string(id), 0)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyX):
		g.manager.ToggleSFX()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if x, y := ebiten.CursorPosition(); !g.mixer.Contains(x, y) {
			g.spawnPrefab("campfire", float64(x), float64(y))
		}
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		if x, y := ebiten.CursorPosition(); !g.mixer.Contains(x, y) {
			g.spawnPrefab("shrine", float64(x), float64(y))
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		ecs.ForEach(g.world, component.EmitterComponent.Kind(), func(e ecs.Entity, _ *component.Emitter) {
			ecs.DestroyEntity(g.world, e)
		})
	}
}

func (g *Game) spawnPrefab(id assets.PrefabID, x, y float64) {
	spec, err := g.registry.Prefab(id)
	if err != nil {
		return
	}
	e, err := entity.BuildEntityFromSpec(g.world, *spec)
	if err != nil {
		g.logger.Error().Err(err).Str("prefab", string(id)).Msg("spawn prefab")
		return
	}
	if err := entity.SetEntityTransform(g.world, e, x, y); err != nil {
		g.logger.Error().Err(err).Str("prefab", string(id)).Msg("place prefab")
	}
}

func (g *Game) moveListener() {
	t, ok := ecs.Get(g.world, g.listener, component.TransformComponent.Kind())
	if !ok {
		return
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		t.X -= listenerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		t.X += listenerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		t.Y -= listenerSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		t.Y += listenerSpeed
	}
}

func (g *Game) nowPlaying() component.NowPlaying {
	np, ok := ecs.Get(g.world, g.jukebox, component.NowPlayingComponent.Kind())
	if !ok {
		return component.NowPlaying{}
	}
	return *np
}

func (g *Game) copyNowPlaying() {
	np := g.nowPlaying()
	if np.Track == "" {
		g.status = "nothing playing"
		return
	}
	line := fmt.Sprintf("%s (%s)", np.Title, np.Track)
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(line))
	g.status = "copied: " + line
}

func (g *Game) Draw(screen *ebiten.Image) {
	np := g.nowPlaying()

	if np.Track != "" {
		if cover, err := g.registry.Cover(assets.MusicID(np.Track)); err == nil {
			g.drawCover(screen, cover, np.Volume)
		}
	}

	ecs.ForEach2(g.world, component.EmitterComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, em *component.Emitter, t *component.Transform) {
		if em.MaxDistance > 0 {
			vector.StrokeCircle(screen, float32(t.X), float32(t.Y), float32(em.MaxDistance), 1, rangeColor, true)
		}
		vector.DrawFilledRect(screen, float32(t.X-4), float32(t.Y-4), 8, 8, emitterColor, false)
	})
	if t, ok := ecs.Get(g.world, g.listener, component.TransformComponent.Kind()); ok {
		vector.DrawFilledCircle(screen, float32(t.X), float32(t.Y), 5, listenerColor, true)
	}

	ebitenutil.DebugPrint(screen, g.overlay(np))
	g.mixer.Draw(screen)
}

func (g *Game) drawCover(screen *ebiten.Image, cover *assets.Texture, volume float64) {
	img := cover.EbitenImage()
	if img == nil {
		return
	}
	w, h := cover.Size()
	const size = 256.0
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size/float64(w), size/float64(h))
	op.GeoM.Translate((baseWidth-mixerPanelWidth-size)/2, (baseHeight-size)/2)
	op.ColorScale.ScaleAlpha(float32(0.25 + 0.75*volume))
	screen.DrawImage(img, op)
}

func (g *Game) overlay(np component.NowPlaying) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f\n", ebiten.ActualFPS())

	state := "stopped"
	switch {
	case np.Paused:
		state = "paused"
	case np.Fading:
		state = "fading"
	case np.Track != "":
		state = "playing"
	}
	fmt.Fprintf(&b, "music: %s %s [%s] vol=%.2f muted=%v\n", state, np.Track, np.Channel, np.Volume, np.Muted)
	fmt.Fprintf(&b, "master=%.1f sfx muted=%v emitters=%d\n", g.manager.MasterVolume(), g.manager.SFXMuted(), len(g.manager.Emitters()))

	if len(g.tracks) > 0 {
		fmt.Fprintf(&b, "selected: %s\n", g.tracks[g.selected])
	}
	if g.status != "" {
		fmt.Fprintf(&b, "%s\n", g.status)
	}

	if g.debug {
		snap := g.manager.Music().Snapshot()
		for _, ch := range snap.Channels {
			fmt.Fprintf(&b, "  %s: track=%q vol=%.3f playing=%v\n", ch.Channel, ch.Track, ch.Volume, ch.Playing)
		}
		if snap.FadeIn != nil {
			fmt.Fprintf(&b, "  fade in  %s %.0f%%\n", snap.FadeIn.Channel, snap.FadeIn.Progress()*100)
		}
		if snap.FadeOut != nil {
			fmt.Fprintf(&b, "  fade out %s %.0f%%\n", snap.FadeOut.Channel, snap.FadeOut.Progress()*100)
		}
	}

	b.WriteString("\n1-9 crossfade  Tab/Enter select+play  S stop  P pause  M/X mute  Space sfx\n")
	b.WriteString("click campfire  right-click shrine  Backspace clear  arrows move  +/- master  C copy")
	return b.String()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
