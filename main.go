package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/soundstage/assets"
	"github.com/milk9111/soundstage/audio"
	"github.com/milk9111/soundstage/config"
	"github.com/milk9111/soundstage/cue"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "soundstage.yaml", "path to the yaml config")
	manifestPath := flag.String("manifest", "", "asset manifest (overrides the config)")
	cuePath := flag.String("cue", "", "tengo cue script in prefabs/scripts (overrides the config)")
	debug := flag.Bool("debug", false, "enable debug logging and the overlay")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *manifestPath != "" {
		cfg.Manifest = *manifestPath
	}
	if *cuePath != "" {
		cfg.CueScript = *cuePath
	}
	if *debug {
		cfg.Debug = true
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	ctx := context.Background()
	registry, err := assets.LoadRegistry(ctx, cfg.Manifest, assets.BuildOptions{
		SampleRate:  cfg.SampleRate,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	var cues []cue.Cue
	if cfg.CueScript != "" {
		cues, err = cue.Load(ctx, cfg.CueScript, cue.Vars(registry))
		if err != nil {
			log.Fatal(err)
		}
	}

	mixer := audio.NewEbitenMixer(ebaudio.NewContext(cfg.SampleRate), logger)
	manager := audio.NewManager(registry, mixer, cfg.AudioSettings(), audio.WithLogger(logger))
	manager.SetMasterVolume(cfg.MasterVolume)
	audio.SetDefault(manager)
	defer manager.Close()

	game, err := NewGame(cfg, registry, manager, cues, logger)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("soundstage")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
