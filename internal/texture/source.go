// Package texture decodes palette-indexed textures into shaded RGB texel
// buffers and keeps a bounded pool of them for the rasterizer.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrNotFound is returned by a Provider that has no source for an id.
var ErrNotFound = errors.New("texture: not found")

// Source is a loaded, palette-indexed texture. It is immutable once built;
// brightness changes derive new palettes from Original without touching it.
type Source struct {
	ID    int
	Image *image.Paletted
	// Original is the palette packed as 0xRRGGBB. Entries with alpha below
	// 128 are 0, the transparent sentinel; opaque black is stored as 1.
	Original []uint32
}

// NewSource wraps img and packs its palette.
func NewSource(id int, img *image.Paletted) (*Source, error) {
	if img == nil {
		return nil, fmt.Errorf("texture: source %d: nil image", id)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("texture: source %d: empty bounds %v", id, b)
	}
	if len(img.Palette) == 0 {
		return nil, fmt.Errorf("texture: source %d: empty palette", id)
	}
	return &Source{ID: id, Image: img, Original: packPalette(img.Palette)}, nil
}

func packPalette(p color.Palette) []uint32 {
	out := make([]uint32, len(p))
	for i, c := range p {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if n.A < 128 {
			continue
		}
		rgb := uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
		if rgb == 0 {
			rgb = 1
		}
		out[i] = rgb
	}
	return out
}

// Provider supplies texture sources by id.
type Provider interface {
	Source(id int) (*Source, error)
}

// MapProvider is an in-memory Provider. It is read-only once populated and
// may be shared between rasterizer contexts.
type MapProvider map[int]*Source

// Source implements Provider.
func (m MapProvider) Source(id int) (*Source, error) {
	s, ok := m[id]
	if !ok || s == nil {
		return nil, fmt.Errorf("texture %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// Add builds a Source from img and stores it under id.
func (m MapProvider) Add(id int, img *image.Paletted) error {
	s, err := NewSource(id, img)
	if err != nil {
		return err
	}
	m[id] = s
	return nil
}
