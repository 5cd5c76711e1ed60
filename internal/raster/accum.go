package raster

import (
	"image"
	"image/color"
)

// BlendMode selects how overlapping segments combine.
type BlendMode uint8

const (
	// BlendMax keeps the brightest contribution per channel.
	BlendMax BlendMode = iota
	// BlendAdd sums contributions and saturates on resolve.
	BlendAdd
)

// Accumulator is a linear RGB light buffer. It implements Blitter for the
// colour set by SetColor.
type Accumulator struct {
	width, height int
	mode          BlendMode
	pix           []float32 // 3 floats per pixel, 0..1 per unit coverage
	r, g, b       float32
}

// NewAccumulator creates a black buffer of the given size.
func NewAccumulator(width, height int, mode BlendMode) *Accumulator {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Accumulator{
		width:  width,
		height: height,
		mode:   mode,
		pix:    make([]float32, width*height*3),
	}
}

// Width returns the buffer width in pixels.
func (a *Accumulator) Width() int { return a.width }

// Height returns the buffer height in pixels.
func (a *Accumulator) Height() int { return a.height }

// SetColor sets the colour used by subsequent blits. Alpha scales the
// colour.
func (a *Accumulator) SetColor(c color.NRGBA) {
	alpha := float32(c.A) / 255
	a.r = float32(c.R) / 255 * alpha
	a.g = float32(c.G) / 255 * alpha
	a.b = float32(c.B) / 255 * alpha
}

// Clear resets every pixel to black.
func (a *Accumulator) Clear() {
	clear(a.pix)
}

// At returns the accumulated linear value of a pixel.
func (a *Accumulator) At(x, y int) (r, g, b float32) {
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		return 0, 0, 0
	}
	i := (y*a.width + x) * 3
	return a.pix[i], a.pix[i+1], a.pix[i+2]
}

// BlitAntiH2 implements Blitter.
func (a *Accumulator) BlitAntiH2(x, y int, alpha0, alpha1 uint8) {
	a.plot(x, y, alpha0)
	a.plot(x+1, y, alpha1)
}

// BlitAntiV2 implements Blitter.
func (a *Accumulator) BlitAntiV2(x, y int, alpha0, alpha1 uint8) {
	a.plot(x, y, alpha0)
	a.plot(x, y+1, alpha1)
}

func (a *Accumulator) plot(x, y int, alpha uint8) {
	if alpha == 0 || x < 0 || y < 0 || x >= a.width || y >= a.height {
		return
	}
	k := float32(alpha) / 255
	i := (y*a.width + x) * 3
	p := a.pix[i : i+3 : i+3]
	switch a.mode {
	case BlendAdd:
		p[0] += a.r * k
		p[1] += a.g * k
		p[2] += a.b * k
	default:
		p[0] = max(p[0], a.r*k)
		p[1] = max(p[1], a.g*k)
		p[2] = max(p[2], a.b*k)
	}
}

// Resolve composites the buffer over dst with additive saturation.
// dst must have the same size as the accumulator.
func (a *Accumulator) Resolve(dst *image.RGBA) {
	r := dst.Bounds()
	for y := 0; y < a.height && y < r.Dy(); y++ {
		for x := 0; x < a.width && x < r.Dx(); x++ {
			i := (y*a.width + x) * 3
			o := dst.PixOffset(r.Min.X+x, r.Min.Y+y)
			px := dst.Pix[o : o+4 : o+4]
			px[0] = saturate(px[0], a.pix[i])
			px[1] = saturate(px[1], a.pix[i+1])
			px[2] = saturate(px[2], a.pix[i+2])
			if px[0]|px[1]|px[2] != 0 {
				px[3] = 255
			}
		}
	}
}

//nolint:gosec // clamped to 255
func saturate(base uint8, v float32) uint8 {
	s := float32(base) + v*255
	if s >= 255 {
		return 255
	}
	if s <= 0 {
		return base
	}
	return uint8(s + 0.5)
}
