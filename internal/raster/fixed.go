package raster

// Fixed is a 16.16 fixed-point number: the low FixedShift bits hold the
// fraction. The int64 carrier keeps off-screen coordinates and 16-bit HSL
// keys from overflowing once shifted.
type Fixed int64

const (
	FixedShift = 16
	FixedOne   = Fixed(1) << FixedShift
	fixedMask  = FixedOne - 1
)

// ToFixed promotes an integer.
func ToFixed(i int) Fixed { return Fixed(i) << FixedShift }

// FloatToFixed converts a float64, truncating toward zero.
func FloatToFixed(f float64) Fixed { return Fixed(f * float64(FixedOne)) }

// Int returns the integer part, rounding toward negative infinity.
func (f Fixed) Int() int { return int(f >> FixedShift) }

// Frac returns the fractional bits.
func (f Fixed) Frac() Fixed { return f & fixedMask }

// Float returns f as a float64.
func (f Fixed) Float() float64 { return float64(f) / float64(FixedOne) }

// Mul multiplies two fixed-point values.
func (f Fixed) Mul(g Fixed) Fixed { return f * g >> FixedShift }

// slope returns num/den in 16.16 where num is already fixed-point.
// A zero den yields 0; callers only reach here for non-degenerate edges.
func slope(num Fixed, den int) Fixed {
	if den == 0 {
		return 0
	}
	return num / Fixed(den)
}
