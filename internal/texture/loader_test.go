package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func twoColour(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{R: 0x20, G: 0x90, B: 0x30, A: 0xff}
			if x < size/2 {
				c = color.NRGBA{A: 0x10}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestBuildIndex(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "ground")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"3.png", "3.gif", "12.png", "readme.txt", "water.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(sub, "40.gif"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (ids %v)", idx.Len(), idx.IDs())
	}
	if p, _ := idx.Path(3); filepath.Ext(p) != ".png" {
		t.Errorf("id 3 resolved to %s, want the png", p)
	}
	if _, ok := idx.Path(40); !ok {
		t.Error("subdirectory texture 40 not indexed")
	}
	ids := idx.IDs()
	if ids[0] != 3 || ids[1] != 12 || ids[2] != 40 {
		t.Errorf("IDs() = %v, want [3 12 40]", ids)
	}
}

func TestBuildIndexMissingDir(t *testing.T) {
	if _, err := BuildIndex(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "7.png"), twoColour(8))
	if err := os.WriteFile(filepath.Join(dir, "8.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != 1 {
		t.Fatalf("loaded %d textures, want 1 (the corrupt one is skipped)", len(p))
	}
	src, err := p.Source(7)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(src.Image.Palette); got != 2 {
		t.Errorf("palette has %d entries, want 2 exact colours", got)
	}
	left := src.Original[src.Image.ColorIndexAt(0, 0)]
	right := src.Original[src.Image.ColorIndexAt(7, 0)]
	if left != 0 {
		t.Errorf("translucent pixel packed as %06x, want transparent", left)
	}
	if right != 0x209030 {
		t.Errorf("opaque pixel packed as %06x, want 209030", right)
	}
}

func TestToPalettedDithersManyColours(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0x40, A: 0xff})
		}
	}
	p := toPaletted(img)
	if len(p.Palette) > 256 {
		t.Fatalf("palette has %d entries", len(p.Palette))
	}
	if p.Bounds() != img.Bounds() {
		t.Errorf("bounds %v, want %v", p.Bounds(), img.Bounds())
	}
}

func TestLoadImageErrors(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.tga")); err == nil {
		t.Error("expected read error")
	}
}
