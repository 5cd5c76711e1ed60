// Package color converts CIE XYZ tristimulus values to display sRGB.
//
// Spectral ray colours are computed in linear light and encoded with the
// sRGB transfer function. Encoding to bytes goes through a 12-bit lookup
// table, which is exact for 8-bit output.
package color

import "math"

// XYZ is a CIE 1931/1964 tristimulus value.
type XYZ struct {
	X, Y, Z float64
}

// xyzToLinearSRGB is the XYZ to linear sRGB (D65) matrix.
var xyzToLinearSRGB = [9]float64{
	3.2404542, -1.5371385, -0.4985314,
	-0.9692660, 1.8760108, 0.0415560,
	0.0556434, -0.2040259, 1.0572252,
}

// LinearSRGB returns the linear-light sRGB components of c. Components are
// not clamped; saturated spectral colours fall outside [0, 1].
func (c XYZ) LinearSRGB() (r, g, b float64) {
	m := &xyzToLinearSRGB
	r = m[0]*c.X + m[1]*c.Y + m[2]*c.Z
	g = m[3]*c.X + m[4]*c.Y + m[5]*c.Z
	b = m[6]*c.X + m[7]*c.Y + m[8]*c.Z
	return r, g, b
}

// SRGB8 returns c as 8-bit sRGB, clamping out-of-gamut components.
func (c XYZ) SRGB8() (r, g, b uint8) {
	lr, lg, lb := c.LinearSRGB()
	return LinearToSRGB8(lr), LinearToSRGB8(lg), LinearToSRGB8(lb)
}

// SRGBToLinear applies the sRGB EOTF to s in [0, 1].
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB OETF to l in [0, 1].
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}
