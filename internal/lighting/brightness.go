// Package lighting builds the colour lookup tables used by the rasterizer:
// the HSL→RGB table for shaded fills and gamma-adjusted texture palettes.
package lighting

import "math"

// DefaultGamma is the brightness curve exponent used until the caller
// picks another one. Lower values brighten.
const DefaultGamma = 0.8

// AdjustBrightness applies adjusted = 256*(c/256)^gamma to each channel of
// a packed 0xRRGGBB colour. The result is never 0: 0 is the transparent
// texel sentinel, so a black result is nudged to 1.
func AdjustBrightness(rgb uint32, gamma float64) uint32 {
	r := adjustChannel(rgb>>16&0xff, gamma)
	g := adjustChannel(rgb>>8&0xff, gamma)
	b := adjustChannel(rgb&0xff, gamma)
	out := r<<16 | g<<8 | b
	if out == 0 {
		out = 1
	}
	return out
}

func adjustChannel(c uint32, gamma float64) uint32 {
	v := math.Pow(float64(c)/256, gamma) * 256
	if v >= 255 {
		return 255
	}
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return uint32(v)
}

// AdjustPalette writes the gamma-adjusted form of src into dst. Entries that
// are exactly 0 mark transparent texels and stay 0.
func AdjustPalette(dst, src []uint32, gamma float64) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		if src[i] == 0 {
			dst[i] = 0
			continue
		}
		dst[i] = AdjustBrightness(src[i], gamma)
	}
}
