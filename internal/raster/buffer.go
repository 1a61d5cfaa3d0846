package raster

// FarDepth is the depth a cleared buffer holds. The fog pass treats pixels
// at or beyond it as sky.
const FarDepth float32 = 1 << 24

// FrameBuffer holds a render target as flat slices for cache locality.
// The rasterizer only borrows the slices through Context.Bind.
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []uint32  // packed 0xRRGGBB, len = W*H
	Depth  []float32 // depth per pixel, len = W*H
}

// NewFrameBuffer allocates a black colour buffer and a depth buffer
// cleared to FarDepth.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Pixels: make([]uint32, n),
		Depth:  make([]float32, n),
	}
	fb.Clear(0)
	return fb
}

// Clear fills the colour buffer with rgb and the depth buffer with FarDepth.
func (fb *FrameBuffer) Clear(rgb uint32) {
	fill(fb.Pixels, rgb)
	fill(fb.Depth, FarDepth)
}

// fill sets every element using copy-doubling.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}
