package optics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gogpu/optics/internal/color"
)

// Visible range used for dispersion events.
const (
	DefaultSpectrumStart   = 380.0 // nm
	DefaultSpectrumEnd     = 730.0 // nm
	DefaultSpectrumSamples = 3000
)

// Spectrum is the table of discrete wavelengths a white ray splits into,
// each with its display colour.
type Spectrum struct {
	wavelengths []float64
	colors      []Color
}

// NewSpectrum samples n evenly spaced wavelengths over [start, end] nm
// inclusive. n below 1 yields an empty spectrum; n == 1 yields start.
func NewSpectrum(start, end float64, n int) *Spectrum {
	if n < 1 {
		return &Spectrum{}
	}
	wl := make([]float64, n)
	if n == 1 {
		wl[0] = start
	} else {
		floats.Span(wl, start, end)
	}
	cs := make([]Color, n)
	for i, w := range wl {
		cs[i] = WavelengthColor(w)
	}
	return &Spectrum{wavelengths: wl, colors: cs}
}

// DefaultSpectrum returns the 3000-sample 380-730nm table.
func DefaultSpectrum() *Spectrum {
	return NewSpectrum(DefaultSpectrumStart, DefaultSpectrumEnd, DefaultSpectrumSamples)
}

// Len returns the number of samples.
func (s *Spectrum) Len() int { return len(s.wavelengths) }

// At returns the i-th wavelength and its colour.
func (s *Spectrum) At(i int) (float64, Color) {
	return s.wavelengths[i], s.colors[i]
}

// Start returns the first wavelength, or 0 for an empty spectrum.
func (s *Spectrum) Start() float64 {
	if len(s.wavelengths) == 0 {
		return 0
	}
	return s.wavelengths[0]
}

// Step returns the spacing between samples.
func (s *Spectrum) Step() float64 {
	if len(s.wavelengths) < 2 {
		return 0
	}
	return s.wavelengths[1] - s.wavelengths[0]
}

// CIE 1964 10-degree colour matching functions, 380-780nm in 5nm steps.
const (
	cieMin  = 380.0
	cieMax  = 780.0
	cieStep = 5.0
)

var cieX = [...]float64{
	0.000160, 0.000662, 0.002362, 0.007242, 0.019110, 0.043400, 0.084736, 0.140638, 0.204492, 0.264737,
	0.314679, 0.357719, 0.383734, 0.386726, 0.370702, 0.342957, 0.302273, 0.254085, 0.195618, 0.132349,
	0.080507, 0.041072, 0.016172, 0.005132, 0.003816, 0.015444, 0.037465, 0.071358, 0.117749, 0.172953,
	0.236491, 0.304213, 0.376772, 0.451584, 0.529826, 0.616053, 0.705224, 0.793832, 0.878655, 0.951162,
	1.014160, 1.074300, 1.118520, 1.134300, 1.123990, 1.089100, 1.030480, 0.950740, 0.856297, 0.754930,
	0.647467, 0.535110, 0.431567, 0.343690, 0.268329, 0.204300, 0.152568, 0.112210, 0.081261, 0.057930,
	0.040851, 0.028623, 0.019941, 0.013842, 0.009577, 0.006605, 0.004553, 0.003145, 0.002175, 0.001506,
	0.001045, 0.000727, 0.000508, 0.000356, 0.000251, 0.000178, 0.000126, 0.000090, 0.000065, 0.000046,
	0.000033,
}

var cieY = [...]float64{
	0.000017, 0.000072, 0.000253, 0.000769, 0.002004, 0.004509, 0.008756, 0.014456, 0.021391, 0.029497,
	0.038676, 0.049602, 0.062077, 0.074704, 0.089456, 0.106256, 0.128201, 0.152761, 0.185190, 0.219940,
	0.253589, 0.297665, 0.339133, 0.395379, 0.460777, 0.531360, 0.606741, 0.685660, 0.761757, 0.823330,
	0.875211, 0.923810, 0.961988, 0.982200, 0.991761, 0.999110, 0.997340, 0.982380, 0.955552, 0.915175,
	0.868934, 0.825623, 0.777405, 0.720353, 0.658341, 0.593878, 0.527963, 0.461834, 0.398057, 0.339554,
	0.283493, 0.228254, 0.179828, 0.140211, 0.107633, 0.081187, 0.060281, 0.044096, 0.031800, 0.022602,
	0.015905, 0.011130, 0.007749, 0.005375, 0.003718, 0.002565, 0.001768, 0.001222, 0.000846, 0.000586,
	0.000407, 0.000284, 0.000199, 0.000140, 0.000098, 0.000070, 0.000050, 0.000036, 0.000025, 0.000018,
	0.000013,
}

// cieZ is zero from 565nm onwards.
var cieZ = [...]float64{
	0.000705, 0.002928, 0.010482, 0.032344, 0.086011, 0.197120, 0.389366, 0.656760, 0.972542, 1.282500,
	1.553480, 1.798500, 1.967280, 2.027300, 1.994800, 1.900700, 1.745370, 1.554900, 1.317560, 1.030200,
	0.772125, 0.570060, 0.415254, 0.302356, 0.218502, 0.159249, 0.112044, 0.082248, 0.060709, 0.043050,
	0.030451, 0.020584, 0.013676, 0.007918, 0.003988, 0.001091, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0,
}

// WavelengthColor returns the opaque sRGB colour of monochromatic light at
// nm. Wavelengths outside 380-780nm are black.
func WavelengthColor(nm float64) Color {
	if nm < cieMin || nm > cieMax || math.IsNaN(nm) {
		return Black
	}
	w := nm - cieMin
	i := int(math.Floor(w / cieStep))
	off := w - cieStep*float64(i)

	xyz := color.XYZ{
		X: cieLerp(cieX[:], i, off),
		Y: cieLerp(cieY[:], i, off),
		Z: cieLerp(cieZ[:], i, off),
	}
	r, g, b := xyz.SRGB8()
	return Color{R: r, G: g, B: b, A: 255}
}

func cieLerp(table []float64, i int, off float64) float64 {
	if off == 0 || i+1 >= len(table) {
		return table[i]
	}
	return table[i] + off*(table[i+1]-table[i])/cieStep
}
