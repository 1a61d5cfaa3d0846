package scene

import (
	"math"

	"scanraster/internal/lighting"
	"scanraster/internal/mathutil"
)

// Light is a directional light with a hemisphere fill, evaluated per face or
// per vertex normal in camera space.
type Light struct {
	Direction mathutil.Vec3 `json:"direction"`
	Ambient   float64       `json:"ambient"`
	Hemi      float64       `json:"hemi"`
	Direct    float64       `json:"direct"`
}

// DefaultLight returns a key light from the upper left.
func DefaultLight() Light {
	return Light{
		Direction: mathutil.Vec3{-0.5, -0.7, -0.5},
		Ambient:   0.35,
		Hemi:      0.25,
		Direct:    0.6,
	}
}

// Shade returns the light intensity, 0..1, for a unit normal. Faces are lit
// from both sides.
func (l *Light) Shade(normal mathutil.Vec3) float64 {
	dir := l.Direction.Normalize()
	ndl := math.Abs(normal.Dot(dir))
	// Up is -y in camera space.
	hemi := (1-normal[1])*0.5*l.Hemi
	return math.Max(0, math.Min(1, l.Ambient+hemi+ndl*l.Direct))
}

// shadeRGB scales each channel of rgb by k.
func shadeRGB(rgb uint32, k float64) uint32 {
	r := uint32(float64(rgb>>16&0xff)*k + 0.5)
	g := uint32(float64(rgb>>8&0xff)*k + 0.5)
	b := uint32(float64(rgb&0xff)*k + 0.5)
	return min(r, 0xff)<<16 | min(g, 0xff)<<8 | min(b, 0xff)
}

// shadeKey converts rgb to an HSL key with its lightness scaled by k.
func shadeKey(rgb uint32, k float64) int32 {
	h, s, l := lighting.UnpackHSL(lighting.RGBToHSL(rgb))
	return lighting.PackHSL(h, s, int(float64(l)*k+0.5))
}

// lightness maps an intensity to the 0–127 range textured fills expect.
func lightness(k float64) int32 {
	return int32(max(0, min(127, int(k*127+0.5))))
}
