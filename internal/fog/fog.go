// Package fog composites distance fog over a finished frame using its depth
// buffer.
package fog

import "math"

// MaxFactor caps the fog contribution for geometry so distant objects stay
// faintly visible.
const MaxFactor = 0.85

// Params configures one fog pass.
type Params struct {
	Color uint32 // fog colour, packed 0xRRGGBB
	Sky   uint32 // colour the frame was cleared to
	Begin float32
	End   float32
	// Far is the depth the buffer was cleared to. Pixels at or beyond it are
	// treated as sky.
	Far float32
}

// Draw blends every pixel toward p.Color according to its depth.
//
// Invalid depths (NaN, negative, infinite) are skipped. Pixels at or beyond
// p.Far are fogged fully only if they still hold the sky colour; anything
// else there is assumed to be geometry that never wrote a depth and is left
// alone. Between Begin and End the factor rises linearly up to MaxFactor.
// When Begin == End the ramp collapses to a step at Begin.
//
// pixels and depth must have the same length; the shorter one bounds the pass.
func Draw(pixels []uint32, depth []float32, p Params) {
	n := min(len(pixels), len(depth))
	for i := 0; i < n; i++ {
		d := depth[i]
		if d < 0 || d != d || math.IsInf(float64(d), 0) {
			continue
		}
		if d >= p.Far {
			if pixels[i] == p.Sky {
				pixels[i] = p.Color
			}
			continue
		}
		if f := Factor(d, p); f > 0 {
			pixels[i] = Blend(pixels[i], p.Color, f)
		}
	}
}

// Factor returns the fog factor Draw would apply to a geometry pixel at
// depth d (0 when none applies). Sky handling is not included.
func Factor(d float32, p Params) float32 {
	if d < 0 || d != d || math.IsInf(float64(d), 0) || d < p.Begin || d >= p.Far {
		return 0
	}
	span := p.End - p.Begin
	if span <= 0 {
		return MaxFactor
	}
	return min((d-p.Begin)/span, MaxFactor)
}

// Blend linearly interpolates each channel from c1 toward c2.
func Blend(c1, c2 uint32, factor float32) uint32 {
	if factor <= 0 {
		return c1
	}
	if factor >= 1 {
		return c2
	}
	inv := 1 - factor
	r := float32(c1>>16&0xff)*inv + float32(c2>>16&0xff)*factor
	g := float32(c1>>8&0xff)*inv + float32(c2>>8&0xff)*factor
	b := float32(c1&0xff)*inv + float32(c2&0xff)*factor
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
