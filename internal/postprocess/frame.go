// Package postprocess turns finished rasterizer frames into images.
package postprocess

import (
	"image"
	"image/color"
	"math"
)

// Image converts a packed 0xRRGGBB buffer of w×h pixels to an opaque NRGBA
// image.
func Image(pixels []uint32, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, p := range pixels[:w*h] {
		o := i * 4
		img.Pix[o] = uint8(p >> 16)
		img.Pix[o+1] = uint8(p >> 8)
		img.Pix[o+2] = uint8(p)
		img.Pix[o+3] = 0xff
	}
	return img
}

// DepthImage renders a depth buffer as greyscale, near white and far black.
// Depths outside [0, far) are black.
func DepthImage(depth []float32, w, h int, far float32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	var hi float32
	for _, d := range depth[:w*h] {
		if d >= 0 && d < far && d > hi {
			hi = d
		}
	}
	if hi == 0 {
		return img
	}
	for i, d := range depth[:w*h] {
		if d < 0 || d >= far || math.IsNaN(float64(d)) {
			continue
		}
		img.Pix[i] = uint8(255 - d/hi*223)
	}
	return img
}

// TexelImage lays texels out as a size×size image. Texel 0, the transparent
// sentinel, becomes a fully transparent pixel.
func TexelImage(texels []uint32, size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i, t := range texels[:size*size] {
		if t == 0 {
			continue
		}
		img.SetNRGBA(i%size, i/size, color.NRGBA{R: uint8(t >> 16), G: uint8(t >> 8), B: uint8(t), A: 0xff})
	}
	return img
}
