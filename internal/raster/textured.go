package raster

import (
	"math"
	"math/bits"

	"scanraster/internal/texture"
)

// PerspectiveSpan is the number of pixels between true perspective divides.
// Texture coordinates are stepped linearly in between.
const PerspectiveSpan = 8

// Projected texel coordinates are clamped to this magnitude (in 16.16) so
// grazing rays cannot overflow the linear steps.
const maxTexCoord = 1 << 30

// Denominators smaller than this mean the view ray runs along the texture
// plane; the affected span is left undrawn.
const minDenominator = 1e-9

// DrawTexturedTriangle fills the triangle with a perspective-correct texture.
// ts places the texture in camera space; each vertex's Color is a 0–127
// lightness choosing among the texture's shade variants. Transparent texels
// leave both buffers untouched. A texture the cache cannot provide draws
// nothing.
func (c *Context) DrawTexturedTriangle(a, b, v Vertex, ts TextureSpace, textureID int) {
	t, ok := c.setup(a, b, v)
	if !ok {
		return
	}
	d := c.textures.Pixels(textureID)
	if d == nil {
		c.stats.Skipped++
		return
	}
	c.stats.Drawn++

	level := c.mipLevel(&t, d, textureID)
	var shades [texture.Shades][]uint32
	var size int
	for s := range shades {
		shades[s], size = d.Level(level, s)
	}
	mask := size - 1
	shift := bits.TrailingZeros(uint(size))
	scale := float64(size) * float64(FixedOne)

	for i := range t.v {
		t.attr[i][0] = ToFixed(int(t.v[i].Color))
	}
	t.gradients(1)

	// For view ray r, u = U·r / W·r and v = V·r / W·r.
	ea := ts.M.Sub(ts.P)
	eb := ts.N.Sub(ts.P)
	U := eb.Cross(ts.P)
	V := ts.P.Cross(ea)
	W := ea.Cross(eb)

	cx, cy := float64(c.centerX), float64(c.centerY)
	focal := float64(c.opts.FocalLength)
	dl := t.grad[0]
	dzdx := t.plane.dzdx

	c.walk(&t, func(s *span) {
		dy := float64(s.y) - cy
		row := persp{
			u: U[1]*dy + U[2]*focal - U[0]*cx, ux: U[0],
			v: V[1]*dy + V[2]*focal - V[0]*cx, vx: V[0],
			w: W[1]*dy + W[2]*focal - W[0]*cx, wx: W[0],
			scale: scale,
		}
		l := s.a[0]
		z := s.z
		i := s.off + s.xs

		x := s.xs
		tu, tv, ok := row.at(x)
		for x < s.xe {
			n := min(PerspectiveSpan, s.xe-x)
			nu, nv, nok := row.at(x + n)
			if !ok || !nok {
				l += dl * Fixed(n)
				z += dzdx * float64(n)
				i += n
				x += n
				tu, tv, ok = nu, nv, nok
				continue
			}
			du := (nu - tu) / Fixed(n)
			dv := (nv - tv) / Fixed(n)
			u, w := tu, tv
			for range n {
				shade := texture.Shades - 1 - max(0, min(l.Int()>>5, texture.Shades-1))
				texel := shades[shade][(w.Int()&mask)<<shift|(u.Int()&mask)]
				if texel != 0 {
					c.plot(i, texel)
					if c.SaveDepth {
						c.depth[i] = float32(z)
					}
				}
				u += du
				w += dv
				l += dl
				z += dzdx
				i++
			}
			x += n
			tu, tv, ok = nu, nv, nok
		}
	})
}

// persp holds the perspective numerators and denominator of one scanline at
// x = 0 along with their per-pixel growth.
type persp struct {
	u, ux float64
	v, vx float64
	w, wx float64
	scale float64
}

// at performs the true divide at column x and returns texel coordinates in
// 16.16. It reports false when the ray is parallel to the texture plane.
func (p *persp) at(x int) (Fixed, Fixed, bool) {
	fx := float64(x)
	w := p.w + p.wx*fx
	if math.Abs(w) < minDenominator {
		return 0, 0, false
	}
	return texCoord((p.u + p.ux*fx) / w * p.scale), texCoord((p.v + p.vx*fx) / w * p.scale), true
}

func texCoord(f float64) Fixed {
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxTexCoord:
		return maxTexCoord
	case f < -maxTexCoord:
		return -maxTexCoord
	}
	return Fixed(f)
}
