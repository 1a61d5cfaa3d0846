package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	_ "image/gif"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"

	"scanraster/internal/logging"
)

// LoadImage reads a TGA, PNG or GIF file and returns it palette-indexed.
func LoadImage(path string) (*image.Paletted, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}

	return toPaletted(img), nil
}

// LoadDir loads every texture indexed under dir into a MapProvider.
// Files that fail to load are logged and skipped.
func LoadDir(dir string) (MapProvider, error) {
	idx, err := BuildIndex(dir)
	if err != nil {
		return nil, err
	}

	m := make(MapProvider, idx.Len())
	for _, id := range idx.IDs() {
		path, _ := idx.Path(id)
		img, err := LoadImage(path)
		if err != nil {
			logging.Logger().Warn("texture skipped", "id", id, "path", path, "err", err)
			continue
		}
		if err := m.Add(id, img); err != nil {
			logging.Logger().Warn("texture skipped", "id", id, "path", path, "err", err)
		}
	}
	return m, nil
}

// toPaletted converts any image to a paletted one. Images with at most 256
// distinct colours keep them exactly; others are dithered onto Plan9.
// Pixels with alpha below 128 map to a fully transparent entry.
func toPaletted(src image.Image) *image.Paletted {
	if p, ok := src.(*image.Paletted); ok {
		return p
	}
	b := src.Bounds()

	if pal := exactPalette(src); pal != nil {
		dst := image.NewPaletted(b, pal)
		draw.Draw(dst, b, opaqueOrClear{src}, b.Min, draw.Src)
		return dst
	}

	pal := make(color.Palette, 0, 256)
	pal = append(pal, color.NRGBA{})
	pal = append(pal, palette.Plan9[:255]...)
	dst := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(dst, b, opaqueOrClear{src}, b.Min)
	return dst
}

func exactPalette(src image.Image) color.Palette {
	b := src.Bounds()
	seen := make(map[color.NRGBA]struct{}, 256)
	pal := make(color.Palette, 0, 256)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := threshold(src.At(x, y))
			if _, ok := seen[c]; ok {
				continue
			}
			if len(pal) == 256 {
				return nil
			}
			seen[c] = struct{}{}
			pal = append(pal, c)
		}
	}
	return pal
}

// threshold snaps alpha to fully opaque or fully transparent.
func threshold(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 128 {
		return color.NRGBA{}
	}
	n.A = 255
	return n
}

// opaqueOrClear presents an image with thresholded alpha so quantization
// never blends toward the transparent entry.
type opaqueOrClear struct{ image.Image }

func (o opaqueOrClear) ColorModel() color.Model { return color.NRGBAModel }
func (o opaqueOrClear) At(x, y int) color.Color { return threshold(o.Image.At(x, y)) }
