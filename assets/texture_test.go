package assets

import "testing"

func TestDecodeTextureEmbedded(t *testing.T) {
	data, err := ReadFile(nil, "textures/title.png")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tex, err := DecodeTexture("textures/title.png", data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tex.Format != "png" {
		t.Fatalf("format = %q, want png", tex.Format)
	}
	if w, h := tex.Size(); w <= 0 || h <= 0 {
		t.Fatalf("size = %dx%d, want non-empty", w, h)
	}
}

func TestDecodeTextureInvalid(t *testing.T) {
	if _, err := DecodeTexture("bad.png", []byte("nope")); err == nil {
		t.Fatalf("expected error for invalid image")
	}
}

func TestTextureSizeNil(t *testing.T) {
	var tex *Texture
	if w, h := tex.Size(); w != 0 || h != 0 {
		t.Fatalf("size = %dx%d, want 0x0", w, h)
	}
	if tex.EbitenImage() != nil {
		t.Fatalf("nil texture should have no image")
	}
}
