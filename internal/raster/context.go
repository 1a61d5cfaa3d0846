// Package raster is a scanline triangle rasterizer. It fills projected
// triangles into a caller-owned packed RGB buffer with flat, Gouraud or
// perspective-correct textured shading and records depth for the fog pass.
//
// A Context owns every piece of mutable rendering state (lighting table,
// texture cache, clip rectangle, per-draw flags). It is not safe for
// concurrent use; render in parallel by giving each goroutine its own
// Context.
package raster

import (
	"errors"
	"fmt"

	"scanraster/internal/fog"
	"scanraster/internal/lighting"
	"scanraster/internal/logging"
	"scanraster/internal/texture"
)

// ErrBufferMismatch is returned by Bind when the colour and depth buffers do
// not both hold width*height elements.
var ErrBufferMismatch = errors.New("raster: colour and depth buffer sizes differ")

// DefaultFocalLength is the projection distance, in pixels, used to rebuild
// perspective for textured fills.
const DefaultFocalLength = 512

// Options are the settings-level switches of a Context.
type Options struct {
	// SmoothShading selects the per-channel Gouraud variant.
	SmoothShading bool
	// Mipmapping enables area-based mip level selection for textured fills.
	Mipmapping bool
	// Fog enables DrawFog.
	Fog bool
	// SkyColor is the colour the frame is cleared to; DrawFog fogs it fully.
	SkyColor uint32
	// FocalLength is the camera's projection distance in pixels.
	FocalLength int
	// Gamma is the initial brightness curve.
	Gamma float64
	// Textures sizes the texture cache.
	Textures texture.Config
}

// DefaultOptions returns the client defaults.
func DefaultOptions() Options {
	return Options{
		SmoothShading: true,
		Mipmapping:    true,
		Fog:           true,
		FocalLength:   DefaultFocalLength,
		Gamma:         lighting.DefaultGamma,
		Textures:      texture.DefaultConfig(),
	}
}

// Stats counts draw calls since the last ResetStats.
type Stats struct {
	Drawn int
	// Skipped triangles had non-finite depth, zero area, a coordinate
	// beyond ±2^28 or a missing texture.
	Skipped int
	// Culled triangles lay entirely outside the clip rectangle.
	Culled int
}

// Context is a rendering target plus all state the fills consume.
type Context struct {
	opts     Options
	table    *lighting.Table
	textures *texture.Cache

	pixels []uint32
	depth  []float32
	width  int
	height int

	clipLeft, clipTop, clipRight, clipBottom int
	centerX, centerY                         int

	// SaveDepth gates depth writes. When false every input depth is forced
	// to 0 and the depth buffer is left untouched, for overlay geometry.
	SaveDepth bool
	// ClipX requests per-span horizontal clamping. Fills also turn it on
	// for any triangle with a vertex outside the clip rectangle.
	ClipX bool
	// Alpha is the global blend register, 0–256. 0 writes opaque pixels;
	// otherwise each write keeps Alpha/256 of the existing pixel.
	Alpha int

	stats Stats
}

// New creates a Context whose texture cache reads from p.
func New(p texture.Provider, opts Options) *Context {
	if opts.FocalLength <= 0 {
		opts.FocalLength = DefaultFocalLength
	}
	if opts.Gamma == 0 {
		opts.Gamma = lighting.DefaultGamma
	}
	opts.Textures.Gamma = opts.Gamma
	return &Context{
		opts:      opts,
		table:     lighting.NewTable(opts.Gamma),
		textures:  texture.NewCache(p, opts.Textures),
		SaveDepth: true,
	}
}

// Bind attaches caller-owned buffers. Both must hold exactly w*h elements;
// this is the only place the sizes are checked. Binding resets the clip
// rectangle and centres the projection.
func (c *Context) Bind(pixels []uint32, depth []float32, w, h int) error {
	if w < 0 || h < 0 || len(pixels) != w*h || len(depth) != w*h {
		return fmt.Errorf("%w: %dx%d with %d pixels, %d depths", ErrBufferMismatch, w, h, len(pixels), len(depth))
	}
	c.pixels = pixels
	c.depth = depth
	c.width = w
	c.height = h
	c.ResetClip()
	c.centerX = w / 2
	c.centerY = h / 2
	logging.Logger().Debug("raster buffers bound", "width", w, "height", h)
	return nil
}

// BindFrame attaches a FrameBuffer.
func (c *Context) BindFrame(fb *FrameBuffer) error {
	return c.Bind(fb.Pixels, fb.Depth, fb.Width, fb.Height)
}

// Width returns the bound buffer width.
func (c *Context) Width() int { return c.width }

// Height returns the bound buffer height.
func (c *Context) Height() int { return c.height }

// Pixels returns the bound colour buffer.
func (c *Context) Pixels() []uint32 { return c.pixels }

// Depth returns the bound depth buffer.
func (c *Context) Depth() []float32 { return c.depth }

// Options returns the settings the Context was built with.
func (c *Context) Options() Options { return c.opts }

// Lighting returns the HSL table.
func (c *Context) Lighting() *lighting.Table { return c.table }

// Textures returns the texture cache.
func (c *Context) Textures() *texture.Cache { return c.textures }

// Clear fills the bound colour buffer with rgb and the depth buffer with
// FarDepth.
func (c *Context) Clear(rgb uint32) {
	fill(c.pixels, rgb)
	fill(c.depth, FarDepth)
}

// SetClip restricts drawing to [left,right)×[top,bottom), clamped to the
// bound buffer.
func (c *Context) SetClip(left, top, right, bottom int) {
	c.clipLeft = max(0, min(left, c.width))
	c.clipTop = max(0, min(top, c.height))
	c.clipRight = max(c.clipLeft, min(right, c.width))
	c.clipBottom = max(c.clipTop, min(bottom, c.height))
}

// ResetClip restores the full buffer as the drawing area.
func (c *Context) ResetClip() {
	c.SetClip(0, 0, c.width, c.height)
}

// SetCenter moves the projection centre used by textured fills.
func (c *Context) SetCenter(x, y int) {
	c.centerX = x
	c.centerY = y
}

// SetSkyColor changes the colour DrawFog treats as background.
func (c *Context) SetSkyColor(rgb uint32) { c.opts.SkyColor = rgb }

// Center returns the projection centre.
func (c *Context) Center() (x, y int) { return c.centerX, c.centerY }

// SetBrightness rebuilds the HSL table, re-derives every texture palette and
// invalidates all decoded textures. It is a settings-change operation.
func (c *Context) SetBrightness(gamma float64) {
	c.opts.Gamma = gamma
	c.table.Rebuild(gamma)
	c.textures.SetBrightness(gamma)
	logging.Logger().Info("brightness changed", "gamma", gamma)
}

// DrawFog blends the finished frame toward rgb by depth. It does nothing
// when fog is disabled in the Options.
func (c *Context) DrawFog(rgb uint32, begin, end float32) {
	if !c.opts.Fog {
		return
	}
	fog.Draw(c.pixels, c.depth, fog.Params{
		Color: rgb,
		Sky:   c.opts.SkyColor,
		Begin: begin,
		End:   end,
		Far:   FarDepth,
	})
}

// Stats returns the draw counters.
func (c *Context) Stats() Stats { return c.stats }

// ResetStats zeroes the draw counters.
func (c *Context) ResetStats() { c.stats = Stats{} }
