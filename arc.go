package optics

import (
	"errors"
	"math"
)

// Arc fitting errors. Both are recoverable: callers keep their previous
// geometry.
var (
	ErrCollinear         = errors.New("optics: points are collinear, no unique circle")
	ErrParallelBisectors = errors.New("optics: perpendicular bisectors are parallel")
)

const arcEpsilon = 1e-6

// ArcFit is the circle through three points and the signed sweep from the
// first point to the last that passes through the middle one.
type ArcFit struct {
	Center Vec2
	Radius float64
	Start  float64 // angle of the first point, radians
	Sweep  float64 // signed; negative sweeps run clockwise in angle space
}

// FitArc returns the circular arc that starts at a, passes through b and ends
// at c.
func FitArc(a, b, c Vec2) (ArcFit, error) {
	ab := b.Sub(a)
	bc := c.Sub(b)

	if math.Abs(ab.Cross(bc)) < arcEpsilon {
		return ArcFit{}, ErrCollinear
	}

	midAB := a.Add(b).Mul(0.5)
	midBC := b.Add(c).Mul(0.5)
	perpAB := ab.Perp()
	perpBC := bc.Perp()

	denom := perpAB.Cross(perpBC)
	if math.Abs(denom) < arcEpsilon {
		return ArcFit{}, ErrParallelBisectors
	}
	t := midBC.Sub(midAB).Cross(perpBC) / denom
	center := midAB.Add(perpAB.Mul(t))

	angA := normalizeAngle(a.Sub(center).Angle())
	angB := normalizeAngle(b.Sub(center).Angle())
	angC := normalizeAngle(c.Sub(center).Angle())

	sweep := angC - angA
	if sweep < 0 {
		sweep += 2 * math.Pi
	}

	var between bool
	if angA <= angC {
		between = angB > angA && angB < angC
	} else {
		between = angB > angA || angB < angC
	}
	if !between {
		sweep -= 2 * math.Pi
	}

	return ArcFit{
		Center: center,
		Radius: center.Distance(a),
		Start:  a.Sub(center).Angle(),
		Sweep:  sweep,
	}, nil
}

// PointAt returns the point at angle offset theta from the start.
func (f ArcFit) PointAt(theta float64) Vec2 {
	sin, cos := math.Sincos(f.Start + theta)
	return f.Center.Add(Vec2{X: cos * f.Radius, Y: sin * f.Radius})
}

// Sample returns n points from the start to the end of the arc inclusive.
// n below 2 is raised to 2.
func (f ArcFit) Sample(n int) []Vec2 {
	if n < 2 {
		n = 2
	}
	step := f.Sweep / float64(n-1)
	pts := make([]Vec2, n)
	for i := range pts {
		pts[i] = f.PointAt(float64(i) * step)
	}
	return pts
}

// normalizeAngle maps a to [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
