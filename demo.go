package optics

import (
	"errors"
	"math"
)

// Demo prism animation limits.
const (
	DefaultIncidentAngle = math.Pi / 4
	demoBeamBackoff      = 100.0
	demoAlphaMin         = 0.3
	demoAlphaMax         = math.Pi/2 - 0.15
	demoAlphaStep        = 0.01
)

var errNotDemoPrism = errors.New("optics: element is not a demo prism")

// DemoPrismBeam returns a white beam aimed at the left face of a demo prism
// at incident radians from the face normal. The beam starts 100 units
// before the midpoint of the face, in world space.
func DemoPrismBeam(e *Element, incident float64) (Light, error) {
	if e.Shape.Kind != ShapeDemoPrism {
		return Light{}, errNotDemoPrism
	}
	ring := demoPrismRing(e.Shape.Prism)
	if len(ring) < 3 {
		return Light{}, ErrDegenerate
	}
	angle := e.Shape.Prism.Alpha/2 - math.Pi - incident
	sin, cos := math.Sincos(angle)
	dir := Vec2{X: -cos, Y: -sin}
	origin := ring[0].Add(ring[2]).Mul(0.5).Sub(dir.Mul(demoBeamBackoff))

	m := e.Placement.Transform()
	return WhiteBeam(m.Apply(origin), m.ApplyVector(dir).Normalize()), nil
}

// AlphaOscillator sweeps a demo prism apex angle back and forth.
type AlphaOscillator struct {
	Min, Max, Step float64
	dir            float64
}

// NewAlphaOscillator returns an oscillator between 0.3 and pi/2-0.15 rad.
func NewAlphaOscillator() *AlphaOscillator {
	return &AlphaOscillator{Min: demoAlphaMin, Max: demoAlphaMax, Step: demoAlphaStep, dir: 1}
}

// Next returns alpha advanced by one step, reversing at the limits.
func (o *AlphaOscillator) Next(alpha float64) float64 {
	if o.dir == 0 {
		o.dir = 1
	}
	switch {
	case alpha > o.Max:
		o.dir = -1
	case alpha < o.Min:
		o.dir = 1
	}
	return alpha + o.Step*o.dir
}
