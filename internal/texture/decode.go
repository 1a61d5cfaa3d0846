package texture

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// paletteSize covers every index a uint8 pixel can hold.
const paletteSize = 256

// decoder holds the scratch images reused across decodes, one per level.
type decoder struct {
	scratch []*image.RGBA
	palette color.Palette
}

func (dec *decoder) level(l, size int) *image.RGBA {
	for len(dec.scratch) <= l {
		dec.scratch = append(dec.scratch, nil)
	}
	if dec.scratch[l] == nil || dec.scratch[l].Rect.Dx() != size {
		dec.scratch[l] = image.NewRGBA(image.Rect(0, 0, size, size))
	}
	return dec.scratch[l]
}

// decode renders src through the adjusted palette pal into d: level 0 is the
// source scaled to d.Size() with nearest-neighbour sampling, every further
// level is a bilinear reduction of the one above.
func (dec *decoder) decode(d *Decoded, src *Source, pal []uint32) error {
	if src == nil || src.Image == nil {
		return fmt.Errorf("texture: decode: nil source")
	}
	b := src.Image.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return fmt.Errorf("texture: decode %d: empty bounds %v", src.ID, b)
	}
	if src.Image.Stride < b.Dx() || len(src.Image.Pix) <= src.Image.PixOffset(b.Max.X-1, b.Max.Y-1) {
		return fmt.Errorf("texture: decode %d: %d pixel bytes with stride %d do not cover %v", src.ID, len(src.Image.Pix), src.Image.Stride, b)
	}

	dec.palette = dec.palette[:0]
	for _, rgb := range pal {
		if rgb == 0 {
			dec.palette = append(dec.palette, color.RGBA{})
			continue
		}
		dec.palette = append(dec.palette, color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff})
	}
	// Indices past the palette read as transparent.
	for len(dec.palette) < paletteSize {
		dec.palette = append(dec.palette, color.RGBA{})
	}
	shaded := &image.Paletted{
		Pix:     src.Image.Pix,
		Stride:  src.Image.Stride,
		Rect:    src.Image.Rect,
		Palette: dec.palette,
	}

	top := dec.level(0, d.size)
	draw.NearestNeighbor.Scale(top, top.Bounds(), shaded, b, draw.Src, nil)
	d.opaque = pack(d, 0, top)

	prev := top
	for l := 1; l < d.levels; l++ {
		img := dec.level(l, d.size>>l)
		draw.BiLinear.Scale(img, img.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		pack(d, l, img)
		prev = img
	}

	for l := 0; l < d.levels; l++ {
		d.shadeLevel(l)
	}
	return nil
}

// pack copies a premultiplied RGBA level into shade variant 0 of d and
// reports whether every texel is opaque.
func pack(d *Decoded, level int, img *image.RGBA) bool {
	texels, size := d.Level(level, 0)
	opaque := true
	for y := 0; y < size; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < size; x++ {
			p := row[x*4 : x*4+4]
			a := uint32(p[3])
			if a < 128 {
				texels[y*size+x] = 0
				opaque = false
				continue
			}
			r, g, b := uint32(p[0]), uint32(p[1]), uint32(p[2])
			if a < 255 {
				r = min(r*255/a, 255)
				g = min(g*255/a, 255)
				b = min(b*255/a, 255)
			}
			t := r<<16 | g<<8 | b
			if t == 0 {
				t = 1
			}
			texels[y*size+x] = t
		}
	}
	return opaque
}
