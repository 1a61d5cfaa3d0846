package raster

// lowPrecisionRun is how many pixels share one table lookup in the fast
// Gouraud fill.
const lowPrecisionRun = 4

// DrawGouraudTriangle fills the triangle interpolating the vertices' HSL
// keys. With SmoothShading each key is looked up once and the RGB channels
// are interpolated per pixel; otherwise the key itself is interpolated and
// looked up once per run of four pixels.
func (c *Context) DrawGouraudTriangle(a, b, v Vertex) {
	t, ok := c.setup(a, b, v)
	if !ok {
		return
	}
	c.stats.Drawn++
	if c.opts.SmoothShading {
		c.gouraudHigh(&t)
	} else {
		c.gouraudLow(&t)
	}
}

func (c *Context) gouraudHigh(t *triangle) {
	for i := range t.v {
		rgb := c.table.RGB(t.v[i].Color)
		t.attr[i][0] = ToFixed(int(rgb >> 16 & 0xff))
		t.attr[i][1] = ToFixed(int(rgb >> 8 & 0xff))
		t.attr[i][2] = ToFixed(int(rgb & 0xff))
	}
	t.gradients(3)

	dr, dg, db := t.grad[0], t.grad[1], t.grad[2]
	dzdx := t.plane.dzdx
	c.walk(t, func(s *span) {
		r, g, b := s.a[0], s.a[1], s.a[2]
		z := s.z
		for i := s.off + s.xs; i < s.off+s.xe; i++ {
			c.plot(i, uint32(channel(r))<<16|uint32(channel(g))<<8|uint32(channel(b)))
			if c.SaveDepth {
				c.depth[i] = float32(z)
			}
			r += dr
			g += dg
			b += db
			z += dzdx
		}
	})
}

func (c *Context) gouraudLow(t *triangle) {
	for i := range t.v {
		t.attr[i][0] = ToFixed(int(t.v[i].Color))
	}
	t.gradients(1)

	dk := t.grad[0]
	dzdx := t.plane.dzdx
	c.walk(t, func(s *span) {
		k := s.a[0]
		z := s.z
		for x := s.xs; x < s.xe; x += lowPrecisionRun {
			rgb := c.table.RGB(int32(max(0, min(k.Int(), 0xffff))))
			end := min(x+lowPrecisionRun, s.xe)
			for i := s.off + x; i < s.off+end; i++ {
				c.plot(i, rgb)
				if c.SaveDepth {
					c.depth[i] = float32(z)
				}
				z += dzdx
			}
			k += dk * lowPrecisionRun
		}
	})
}

// channel clamps an interpolated colour channel to 0..255.
func channel(f Fixed) uint8 {
	return uint8(max(0, min(f.Int(), 0xff)))
}
