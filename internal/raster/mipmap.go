package raster

import "scanraster/internal/texture"

// mipThresholds are the minimum screen areas, in pixels, for mip levels
// 0..6 of a high-detail texture. Anything smaller uses level 7.
var mipThresholds = [...]float64{8192, 2048, 512, 128, 32, 8, 2}

// MipLevel maps a triangle's screen-space area to a mip level of a
// 128×128 texture. Larger triangles get larger levels.
func MipLevel(area float64) int {
	for i, floor := range mipThresholds {
		if area >= floor {
			return i
		}
	}
	return len(mipThresholds)
}

// mipLevel picks the level to sample for one textured triangle.
func (c *Context) mipLevel(t *triangle, d *texture.Decoded, id int) int {
	if !c.opts.Mipmapping || c.textures.Unmipped(id) {
		return 0
	}
	level := MipLevel(t.area())
	// A low-detail texture's level 0 is a high-detail level 1.
	for s := d.Size(); s > 0 && s < texture.HighDetailSize; s <<= 1 {
		level--
	}
	return max(0, min(level, d.Levels()-1))
}
