// Package cue compiles tengo scripts into timed audio cues.
//
// A script defines a global array named cues:
//
//	cues := [
//		{at: 0.0, op: "play", track: "title", volume: 0.8},
//		{at: 6.0, op: "transition", track: "field", fade: 2.0},
//		{at: 9.5, op: "sfx", sfx: "jump"},
//	]
//
// Times are seconds from the start of the track.
package cue

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/soundstage/prefabs"
)

type Op string

const (
	OpPlay       Op = "play"
	OpTransition Op = "transition"
	OpStop       Op = "stop"
	OpPause      Op = "pause"
	OpResume     Op = "resume"
	OpSFX        Op = "sfx"
)

func (o Op) valid() bool {
	switch o {
	case OpPlay, OpTransition, OpStop, OpPause, OpResume, OpSFX:
		return true
	}
	return false
}

// music reports whether o is handled by the music system rather than as a
// sound effect.
func (o Op) music() bool {
	return o != OpSFX
}

type Cue struct {
	At     time.Duration
	Op     Op
	Track  string
	SFX    string
	Volume float64
	Fade   time.Duration
}

// Load reads a script through prefabs.LoadScript and compiles it.
func Load(ctx context.Context, name string, vars map[string]any) ([]Cue, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("cue: load %s: %w", name, err)
	}
	cues, err := Compile(ctx, src, vars)
	if err != nil {
		return nil, fmt.Errorf("cue: %s: %w", name, err)
	}
	return cues, nil
}

// Compile runs src with vars defined as globals and returns its cues sorted
// by time. Cues sharing a time keep script order. Var values must be types
// tengo can convert; pass lists as []any.
func Compile(ctx context.Context, src []byte, vars map[string]any) ([]Cue, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "text", "times", "enum"))
	for name, v := range vars {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("cue: define %s: %w", name, err)
		}
	}

	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("cue: run: %w", err)
	}
	if !compiled.IsDefined("cues") {
		return nil, fmt.Errorf("cue: script does not define cues")
	}

	v := compiled.Get("cues")
	if v.ValueType() != "array" && v.ValueType() != "immutable-array" {
		return nil, fmt.Errorf("cue: cues must be an array, got %s", v.ValueType())
	}

	raw := v.Array()
	cues := make([]Cue, 0, len(raw))
	for i, item := range raw {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("cue: cues[%d]: expected a map, got %T", i, item)
		}
		c, err := parseCue(fields)
		if err != nil {
			return nil, fmt.Errorf("cue: cues[%d]: %w", i, err)
		}
		cues = append(cues, c)
	}

	slices.SortStableFunc(cues, func(a, b Cue) int {
		return cmp.Compare(a.At, b.At)
	})
	if err := checkMusicTimes(cues); err != nil {
		return nil, err
	}
	return cues, nil
}

// checkMusicTimes rejects two music cues at the same time. The music system
// applies one request per frame, so the earlier one would never be heard.
func checkMusicTimes(sorted []Cue) error {
	var last *Cue
	for i := range sorted {
		c := &sorted[i]
		if !c.Op.music() {
			continue
		}
		if last != nil && last.At == c.At {
			return fmt.Errorf("cue: %s and %s both at %v", last.Op, c.Op, c.At)
		}
		last = c
	}
	return nil
}

func parseCue(fields map[string]any) (Cue, error) {
	var c Cue

	op, err := stringField(fields, "op")
	if err != nil {
		return c, err
	}
	c.Op = Op(strings.ToLower(strings.TrimSpace(op)))
	if !c.Op.valid() {
		return c, fmt.Errorf("unknown op %q", op)
	}

	at, err := numberField(fields, "at")
	if err != nil {
		return c, err
	}
	if at < 0 {
		return c, fmt.Errorf("at %v is negative", at)
	}
	c.At = seconds(at)

	if c.Track, err = stringField(fields, "track"); err != nil {
		return c, err
	}
	if c.SFX, err = stringField(fields, "sfx"); err != nil {
		return c, err
	}

	if c.Volume, err = numberField(fields, "volume"); err != nil {
		return c, err
	}
	if c.Volume < 0 || c.Volume > 1 {
		return c, fmt.Errorf("volume %v out of range [0,1]", c.Volume)
	}

	fade, err := numberField(fields, "fade")
	if err != nil {
		return c, err
	}
	if fade < 0 {
		return c, fmt.Errorf("fade %v is negative", fade)
	}
	c.Fade = seconds(fade)

	switch c.Op {
	case OpPlay, OpTransition:
		if c.Track == "" {
			return c, fmt.Errorf("%s requires a track", c.Op)
		}
	case OpSFX:
		if c.SFX == "" {
			return c, fmt.Errorf("sfx requires an sfx key")
		}
	}
	return c, nil
}

func stringField(fields map[string]any, key string) (string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

func numberField(fields map[string]any, key string) (float64, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%s: not a finite number", key)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%s: expected a number, got %T", key, v)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
