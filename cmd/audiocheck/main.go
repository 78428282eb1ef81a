// Command audiocheck validates an asset manifest, its prefabs and cue
// scripts, and can dry-run a cue script against a silent mixer.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	manifest := flag.String("manifest", "", "asset manifest; empty uses the bundled one")
	cues := flag.String("cue", "", "comma separated cue scripts to check")
	simulate := flag.Duration("simulate", 0, "dry-run each cue script for this long")
	tps := flag.Int("tps", 60, "ticks per second used by -simulate")
	jsonLogs := flag.Bool("json", false, "log as json instead of console text")
	flag.Parse()

	var logger zerolog.Logger
	if *jsonLogs {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	}

	opts := checkOptions{
		Manifest: *manifest,
		Simulate: *simulate,
		TPS:      *tps,
		Logger:   logger,
	}
	for _, name := range strings.Split(*cues, ",") {
		if name = strings.TrimSpace(name); name != "" {
			opts.Cues = append(opts.Cues, name)
		}
	}

	problems, err := check(context.Background(), opts, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if problems > 0 {
		os.Exit(1)
	}
}
