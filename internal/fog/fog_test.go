package fog

import (
	"math"
	"testing"
)

const far = 1 << 24

func params(begin, end float32) Params {
	return Params{Color: 0xffffff, Sky: 0x102030, Begin: begin, End: end, Far: far}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name   string
		c1, c2 uint32
		f      float32
		want   uint32
	}{
		{"zero factor", 0x123456, 0xffffff, 0, 0x123456},
		{"negative factor", 0x123456, 0xffffff, -1, 0x123456},
		{"full factor", 0x123456, 0xabcdef, 1, 0xabcdef},
		{"above one", 0x123456, 0xabcdef, 2, 0xabcdef},
		{"half", 0x000000, 0xc8c8c8, 0.5, 0x646464},
		{"per channel", 0xff0000, 0x0000ff, 0.25, 0xbf003f},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Blend(tc.c1, tc.c2, tc.f); got != tc.want {
				t.Errorf("Blend(%06x, %06x, %v) = %06x, want %06x", tc.c1, tc.c2, tc.f, got, tc.want)
			}
		})
	}
}

func TestDrawSkipsInvalidDepth(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	ninf := float32(math.Inf(-1))
	depth := []float32{nan, -1, inf, ninf}
	pixels := []uint32{0x102030, 0x102030, 0x102030, 0x102030}
	Draw(pixels, depth, params(0, 100))
	for i, px := range pixels {
		if px != 0x102030 {
			t.Errorf("pixel %d with depth %v changed to %06x", i, depth[i], px)
		}
	}
}

func TestDrawFarSentinel(t *testing.T) {
	p := params(100, 200)
	depth := []float32{far, far, far + 10}
	pixels := []uint32{p.Sky, 0x00ff00, p.Sky}
	Draw(pixels, depth, p)
	if pixels[0] != p.Color {
		t.Errorf("sky pixel at far depth = %06x, want fog colour", pixels[0])
	}
	if pixels[1] != 0x00ff00 {
		t.Errorf("non-sky pixel at far depth was fogged: %06x", pixels[1])
	}
	if pixels[2] != p.Color {
		t.Errorf("sky pixel beyond far depth = %06x, want fog colour", pixels[2])
	}
}

func TestDrawRamp(t *testing.T) {
	p := Params{Color: 0xc8c8c8, Sky: 0x123456, Begin: 100, End: 200, Far: far}
	tests := []struct {
		name  string
		depth float32
		want  uint32
	}{
		{"near", 50, 0x000000},
		{"at begin", 100, 0x000000},
		{"midway", 150, 0x646464},
		{"past max factor", 195, Blend(0, 0xc8c8c8, MaxFactor)},
		{"beyond end", 1000, Blend(0, 0xc8c8c8, MaxFactor)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pixels := []uint32{0}
			Draw(pixels, []float32{tc.depth}, p)
			if pixels[0] != tc.want {
				t.Errorf("depth %v: got %06x, want %06x", tc.depth, pixels[0], tc.want)
			}
		})
	}
}

func TestDrawBeginEqualsEnd(t *testing.T) {
	p := Params{Color: 0xc8c8c8, Sky: 0x123456, Begin: 100, End: 100, Far: far}
	depth := []float32{99.9, 100, 5000}
	pixels := []uint32{0, 0, 0}
	Draw(pixels, depth, p)

	want := Blend(0, 0xc8c8c8, MaxFactor)
	if pixels[0] != 0 {
		t.Errorf("depth below begin fogged: %06x", pixels[0])
	}
	if pixels[1] != want || pixels[2] != want {
		t.Errorf("step fog = %06x, %06x, want %06x", pixels[1], pixels[2], want)
	}
	for _, d := range depth {
		f := Factor(d, p)
		if f != f {
			t.Fatalf("Factor(%v) is NaN", d)
		}
	}
}

func TestFactorNeverReachesOne(t *testing.T) {
	p := params(0, 10)
	for d := float32(0); d < 1000; d += 7 {
		if f := Factor(d, p); f > MaxFactor {
			t.Fatalf("Factor(%v) = %v exceeds MaxFactor", d, f)
		}
	}
}

func TestDrawMismatchedLengths(t *testing.T) {
	pixels := []uint32{0, 0, 0}
	Draw(pixels, []float32{150}, params(100, 200))
	if pixels[1] != 0 || pixels[2] != 0 {
		t.Error("pixels without a depth entry must not be touched")
	}
}
