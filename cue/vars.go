package cue

import "github.com/milk9111/soundstage/assets"

// Vars exposes the registry keys to scripts as the globals music and sfx.
func Vars(reg *assets.Registry) map[string]any {
	music := make([]any, 0, len(reg.MusicIDs()))
	for _, id := range reg.MusicIDs() {
		music = append(music, string(id))
	}
	sfx := make([]any, 0, len(reg.SFXIDs()))
	for _, id := range reg.SFXIDs() {
		sfx = append(sfx, string(id))
	}
	return map[string]any{"music": music, "sfx": sfx}
}
