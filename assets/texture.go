package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Texture holds a decoded image. The GPU copy is made on first use so the
// registry can be built before the game loop starts.
type Texture struct {
	Name   string
	Format string
	Image  image.Image

	once  sync.Once
	ebimg *ebiten.Image
}

func DecodeTexture(name string, data []byte) (*Texture, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", name, err)
	}
	return &Texture{Name: name, Format: format, Image: img}, nil
}

func (t *Texture) Size() (int, int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// EbitenImage returns the texture as an *ebiten.Image.
func (t *Texture) EbitenImage() *ebiten.Image {
	if t == nil || t.Image == nil {
		return nil
	}
	t.once.Do(func() {
		t.ebimg = ebiten.NewImageFromImage(t.Image)
	})
	return t.ebimg
}
