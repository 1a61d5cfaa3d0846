package raster

// MaxAlpha is the Alpha value that leaves the destination unchanged.
const MaxAlpha = 256

// Blend mixes src over dst with integer channel arithmetic. alpha is the
// weight of dst in 1/256 units; red and blue are blended in one multiply.
func Blend(src, dst uint32, alpha int) uint32 {
	a := uint32(max(0, min(alpha, MaxAlpha)))
	inv := MaxAlpha - a
	rb := ((src&0xff00ff)*inv + (dst&0xff00ff)*a) >> 8 & 0xff00ff
	g := ((src&0xff00)*inv + (dst&0xff00)*a) >> 8 & 0xff00
	return rb | g
}

// plot writes one pixel honouring the alpha register.
func (c *Context) plot(i int, rgb uint32) {
	if c.Alpha != 0 {
		rgb = Blend(rgb, c.pixels[i], c.Alpha)
	}
	c.pixels[i] = rgb
}
