package texture

import (
	"image"
	"image/color"
	"testing"
)

func TestNewDecodedLayout(t *testing.T) {
	tests := []struct {
		size   int
		levels int
		texels int
	}{
		{HighDetailSize, 8, (128*128 + 64*64 + 32*32 + 16*16 + 8*8 + 4*4 + 2*2 + 1) * Shades},
		{LowDetailSize, 7, (64*64 + 32*32 + 16*16 + 8*8 + 4*4 + 2*2 + 1) * Shades},
	}
	for _, tc := range tests {
		d := newDecoded(tc.size)
		if d.Levels() != tc.levels {
			t.Errorf("size %d: Levels() = %d, want %d", tc.size, d.Levels(), tc.levels)
		}
		if len(d.texels) != tc.texels {
			t.Errorf("size %d: slab = %d texels, want %d", tc.size, len(d.texels), tc.texels)
		}
		for l := 0; l < d.Levels(); l++ {
			px, s := d.Level(l, Shades-1)
			if s != tc.size>>l || len(px) != s*s {
				t.Errorf("size %d level %d: edge %d len %d", tc.size, l, s, len(px))
			}
		}
	}
}

func TestLevelClamps(t *testing.T) {
	d := newDecoded(LowDetailSize)
	_, s := d.Level(99, 99)
	if s != 1 {
		t.Errorf("Level(99, 99) edge = %d, want 1", s)
	}
	_, s = d.Level(-3, -1)
	if s != LowDetailSize {
		t.Errorf("Level(-3, -1) edge = %d, want %d", s, LowDetailSize)
	}
}

// checker builds a 2×2-cell checkerboard of transparent and red.
func checker(t *testing.T, size int) *Source {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{
		color.NRGBA{},
		color.NRGBA{R: 0xf0, G: 0x10, B: 0x10, A: 0xff},
	})
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/2+y/2)%2 == 0 {
				img.Pix[y*img.Stride+x] = 1
			}
		}
	}
	s, err := NewSource(9, img)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDecodeTransparencyAndShades(t *testing.T) {
	p := MapProvider{9: checker(t, 64)}
	cfg := smallConfig(2, 0)
	cfg.Gamma = 1.0
	c := NewCache(p, cfg)
	d := c.Pixels(9)
	if d == nil {
		t.Fatal("Pixels(9) = nil")
	}
	if d.Opaque() {
		t.Error("checkerboard with transparent cells reported opaque")
	}

	base, size := d.Level(0, 0)
	if size != 64 {
		t.Fatalf("level 0 edge = %d", size)
	}
	if base[0] != 0xf01010 {
		t.Errorf("texel (0,0) = %06x, want f01010", base[0])
	}
	if base[2] != 0 {
		t.Errorf("texel (2,0) = %06x, want transparent 0", base[2])
	}

	prev := base
	for shade := 1; shade < Shades; shade++ {
		cur, _ := d.Level(0, shade)
		if cur[2] != 0 {
			t.Errorf("shade %d turned the transparent texel into %06x", shade, cur[2])
		}
		if cur[0] == 0 || cur[0]>>16 >= prev[0]>>16 {
			t.Errorf("shade %d texel %06x not darker than %06x", shade, cur[0], prev[0])
		}
		prev = cur
	}
}

func TestDecodeScalesToPoolSize(t *testing.T) {
	p := MapProvider{4: solidSource(t, 4, 16, color.NRGBA{G: 0xc0, A: 0xff})}
	cfg := smallConfig(2, 0)
	cfg.HighDetail = true
	cfg.Gamma = 1.0
	c := NewCache(p, cfg)
	d := c.Pixels(4)
	if d.Size() != HighDetailSize {
		t.Fatalf("Size() = %d", d.Size())
	}
	if !d.Opaque() {
		t.Error("solid texture should be opaque")
	}
	for l := 0; l < d.Levels(); l++ {
		px, _ := d.Level(l, 0)
		for i, v := range px {
			if v != 0x00c000 {
				t.Fatalf("level %d texel %d = %06x, want 00c000", l, i, v)
			}
		}
	}
}

func TestOpaqueBlackIsNotTransparent(t *testing.T) {
	p := MapProvider{2: solidSource(t, 2, 8, color.NRGBA{A: 0xff})}
	cfg := smallConfig(1, 0)
	cfg.Gamma = 1.0
	c := NewCache(p, cfg)
	px, _ := c.Pixels(2).Level(0, 0)
	if px[0] == 0 {
		t.Error("opaque black decoded to the transparent sentinel")
	}
}
