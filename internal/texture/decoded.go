package texture

// Texture edge lengths at mip level 0.
const (
	HighDetailSize = 128
	LowDetailSize  = 64

	// MaxLevels is the mip chain length of a high-detail texture (128 down to 1).
	MaxLevels = 8

	// Shades is the number of brightness variants stored per level: the
	// decoded texels plus three successively darker copies.
	Shades = 4
)

// Decoded is a texture decoded against the current palette: every mip level
// with its shade variants packed into one slab. Texel value 0 is
// transparent.
//
// A Decoded belongs to the Cache that produced it. It can be reclaimed for
// another texture at the next cache miss, so callers must not hold on to it
// across frames.
type Decoded struct {
	id      int
	size    int
	levels  int
	opaque  bool
	texels  []uint32
	offsets [MaxLevels]int

	lastUsed   uint64
	prev, next *Decoded
}

func newDecoded(size int) *Decoded {
	d := &Decoded{id: -1, size: size}
	off := 0
	for s := size; s > 0 && d.levels < MaxLevels; s >>= 1 {
		d.offsets[d.levels] = off
		off += s * s * Shades
		d.levels++
	}
	d.texels = make([]uint32, off)
	return d
}

// ID returns the texture this buffer currently holds, or -1 when it is free.
func (d *Decoded) ID() int { return d.id }

// Size returns the level-0 edge length.
func (d *Decoded) Size() int { return d.size }

// Levels returns the number of mip levels.
func (d *Decoded) Levels() int { return d.levels }

// Opaque reports whether level 0 has no transparent texels.
func (d *Decoded) Opaque() bool { return d.opaque }

// LastUsed returns the cache tick of the most recent access.
func (d *Decoded) LastUsed() uint64 { return d.lastUsed }

// Level returns the texels of one mip level and shade variant along with
// the level's edge length. Out-of-range arguments are clamped.
func (d *Decoded) Level(level, shade int) ([]uint32, int) {
	level = max(0, min(level, d.levels-1))
	shade = max(0, min(shade, Shades-1))
	s := d.size >> level
	n := s * s
	off := d.offsets[level] + shade*n
	return d.texels[off : off+n], s
}

// shadeLevel fills shade variants 1..3 of level from variant 0, each one
// losing 1/8 of every channel. The transparent sentinel stays 0.
func (d *Decoded) shadeLevel(level int) {
	s := d.size >> level
	n := s * s
	base := d.offsets[level]
	for v := 1; v < Shades; v++ {
		prev := d.texels[base+(v-1)*n : base+v*n]
		cur := d.texels[base+v*n : base+(v+1)*n]
		for i, t := range prev {
			cur[i] = t - (t >> 3 & 0x1f1f1f)
		}
	}
}
