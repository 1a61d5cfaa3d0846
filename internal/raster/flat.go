package raster

// DrawFlatTriangle fills the triangle with a single colour, taken from the
// first vertex's Color as 0xRRGGBB.
func (c *Context) DrawFlatTriangle(a, b, v Vertex) {
	rgb := uint32(a.Color) & 0xffffff
	t, ok := c.setup(a, b, v)
	if !ok {
		return
	}
	c.stats.Drawn++

	dzdx := t.plane.dzdx
	c.walk(&t, func(s *span) {
		row := c.pixels[s.off+s.xs : s.off+s.xe]
		if c.Alpha == 0 {
			for i := range row {
				row[i] = rgb
			}
		} else {
			for i := range row {
				row[i] = Blend(rgb, row[i], c.Alpha)
			}
		}
		if c.SaveDepth {
			z := s.z
			for i := s.off + s.xs; i < s.off+s.xe; i++ {
				c.depth[i] = float32(z)
				z += dzdx
			}
		}
	})
}
