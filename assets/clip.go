package assets

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate matches the audio context the game creates.
const DefaultSampleRate = 44100

// 16-bit little endian, 2 channels.
const bytesPerFrame = 4

// Clip is a fully decoded audio asset in ebiten's native PCM format.
type Clip struct {
	Name       string
	Title      string
	SampleRate int
	PCM        []byte
}

// Length reports how long the clip plays once.
func (c *Clip) Length() time.Duration {
	if c == nil || c.SampleRate <= 0 {
		return 0
	}
	frames := len(c.PCM) / bytesPerFrame
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// DisplayName prefers the embedded title over the asset name.
func (c *Clip) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// DecodeClip decodes wav, mp3 and ogg data by extension. Anything else is
// treated as already-decoded PCM.
func DecodeClip(name string, data []byte, sampleRate int) (*Clip, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	clip := &Clip{Name: name, SampleRate: sampleRate}
	reader := bytes.NewReader(data)

	var (
		stream io.Reader
		err    error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, reader)
	case ".mp3":
		clip.Title = readID3Title(data)
		stream, err = mp3.DecodeWithSampleRate(sampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, reader)
	default:
		clip.PCM = data
		return clip, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	clip.PCM = pcm
	return clip, nil
}

func readID3Title(data []byte) string {
	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true, ParseFrames: []string{"Title"}})
	if err != nil || tag == nil {
		return ""
	}
	defer tag.Close()
	return strings.TrimSpace(tag.Title())
}
