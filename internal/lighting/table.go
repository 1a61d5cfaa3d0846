package lighting

import "math"

// HSL keys pack hue (6 bits), saturation (3 bits) and lightness (7 bits)
// into 16 bits: hue<<10 | sat<<7 | light.
const (
	HueBits   = 6
	SatBits   = 3
	LightBits = 7

	TableSize = 1 << (HueBits + SatBits + LightBits)

	hueShift = SatBits + LightBits
	satShift = LightBits
	hueMask  = 1<<HueBits - 1
	satMask  = 1<<SatBits - 1
	lightMax = 1<<LightBits - 1
)

// Table maps every HSL key to a gamma-adjusted packed RGB value.
type Table struct {
	rgb   [TableSize]uint32
	gamma float64
}

// NewTable builds a table for gamma.
func NewTable(gamma float64) *Table {
	t := &Table{}
	t.Rebuild(gamma)
	return t
}

// Rebuild recomputes all entries for a new gamma. It touches every entry and
// is meant for settings changes, not per-frame use.
func (t *Table) Rebuild(gamma float64) {
	for hue := 0; hue <= hueMask; hue++ {
		h := float64(hue)/(hueMask+1) + 1.0/128
		for sat := 0; sat <= satMask; sat++ {
			s := float64(sat)/(satMask+1) + 1.0/16
			base := hue<<hueShift | sat<<satShift
			for light := 0; light <= lightMax; light++ {
				l := float64(light) / (lightMax + 1)
				r, g, b := hslToRGB(h, s, l)
				rgb := uint32(r*256)<<16 | uint32(g*256)<<8 | uint32(b*256)
				t.rgb[base|light] = AdjustBrightness(rgb, gamma)
			}
		}
	}
	t.gamma = gamma
}

// Gamma returns the exponent the table was last built with.
func (t *Table) Gamma() float64 { return t.gamma }

// RGB looks up an HSL key. Only the low 16 bits of key are used.
func (t *Table) RGB(key int32) uint32 {
	return t.rgb[key&(TableSize-1)]
}

// PackHSL builds an HSL key, clamping each component into its bit range.
func PackHSL(hue, sat, light int) int32 {
	hue = clampInt(hue, 0, hueMask)
	sat = clampInt(sat, 0, satMask)
	light = clampInt(light, 0, lightMax)
	return int32(hue<<hueShift | sat<<satShift | light)
}

// UnpackHSL splits an HSL key into its components.
func UnpackHSL(key int32) (hue, sat, light int) {
	k := int(key) & (TableSize - 1)
	return k >> hueShift & hueMask, k >> satShift & satMask, k & lightMax
}

// RGBToHSL converts a packed RGB colour to the nearest HSL key.
func RGBToHSL(rgb uint32) int32 {
	r := float64(rgb>>16&0xff) / 256
	g := float64(rgb>>8&0xff) / 256
	b := float64(rgb&0xff) / 256

	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	l := (mx + mn) / 2

	var h, s float64
	if mx != mn {
		d := mx - mn
		if l < 0.5 {
			s = d / (mx + mn)
		} else {
			s = d / (2 - mx - mn)
		}
		switch mx {
		case r:
			h = (g - b) / d
		case g:
			h = 2 + (b-r)/d
		default:
			h = 4 + (r-g)/d
		}
		h /= 6
		if h < 0 {
			h++
		}
	}

	return PackHSL(int(h*(hueMask+1)), int(s*(satMask+1)), int(l*(lightMax+1)))
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToChannel(p, q, h+1.0/3), hueToChannel(p, q, h), hueToChannel(p, q, h-1.0/3)
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case 6*t < 1:
		return p + (q-p)*6*t
	case 2*t < 1:
		return q
	case 3*t < 2:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
