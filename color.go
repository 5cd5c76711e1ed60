package optics

import "math"

// Color is an 8-bit straight-alpha colour. The brightness of a ray is
// carried entirely in its colour.
type Color struct {
	R, G, B, A uint8
}

// Common colours.
var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Black = Color{A: 255}
)

// minAlpha keeps dim rays visible on screen.
const minAlpha = 15

// RGBA implements image/color.Color with premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	a |= a << 8
	r = uint32(c.R)
	r |= r << 8
	r = r * a / 0xffff
	g = uint32(c.G)
	g |= g << 8
	g = g * a / 0xffff
	b = uint32(c.B)
	b |= b << 8
	b = b * a / 0xffff
	return r, g, b, a
}

// Luma returns the Rec. 709 luminance on the 0-255 scale.
func (c Color) Luma() float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// Scale multiplies every channel by f. RGB is clamped to [0, 255] and
// alpha to [15, 255].
func (c Color) Scale(f float64) Color {
	return Color{
		R: uint8(clampRange(float64(c.R)*f, 0, 255)),
		G: uint8(clampRange(float64(c.G)*f, 0, 255)),
		B: uint8(clampRange(float64(c.B)*f, 0, 255)),
		A: uint8(clampRange(float64(c.A)*f, minAlpha, 255)),
	}
}

// RGB creates an opaque colour from components in [0, 1].
func RGB(r, g, b float64) Color {
	return Color{
		R: uint8(clampRange(math.Round(r*255), 0, 255)),
		G: uint8(clampRange(math.Round(g*255), 0, 255)),
		B: uint8(clampRange(math.Round(b*255), 0, 255)),
		A: 255,
	}
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo || math.IsNaN(x) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
