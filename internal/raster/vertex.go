package raster

import "scanraster/internal/mathutil"

// Vertex is a projected triangle corner. Color is interpreted by the fill:
// packed 0xRRGGBB for flat fills, an HSL key for Gouraud fills and a 0–127
// lightness for textured fills.
type Vertex struct {
	X, Y  int
	Z     float32
	Color int32
}

// TextureSpace places a texture in camera space: P is where texture
// coordinate (0,0) lies, M is (1,0) and N is (0,1).
type TextureSpace struct {
	P, M, N mathutil.Vec3
}

// TextureSpaceFromUV derives the texture basis from three camera-space
// positions and their texture coordinates. It reports false when the UVs
// are collinear.
func TextureSpaceFromUV(p [3]mathutil.Vec3, uv [3][2]float64) (TextureSpace, bool) {
	du1, dv1 := uv[1][0]-uv[0][0], uv[1][1]-uv[0][1]
	du2, dv2 := uv[2][0]-uv[0][0], uv[2][1]-uv[0][1]
	det := du1*dv2 - du2*dv1
	if det > -1e-12 && det < 1e-12 {
		return TextureSpace{}, false
	}
	inv := 1 / det

	e1 := p[1].Sub(p[0])
	e2 := p[2].Sub(p[0])
	eu := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(inv)
	ev := e2.Scale(du1).Sub(e1.Scale(du2)).Scale(inv)

	origin := p[0].Sub(eu.Scale(uv[0][0])).Sub(ev.Scale(uv[0][1]))
	return TextureSpace{P: origin, M: origin.Add(eu), N: origin.Add(ev)}, true
}
