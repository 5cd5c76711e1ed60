package optics

import "math"

// Transform is a 2D affine transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// mapping x' = a*x + b*y + c and y' = d*x + e*y + f.
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translate returns a translation.
func Translate(x, y float64) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scaling transform.
func Scale(x, y float64) Transform {
	return Transform{A: x, E: y}
}

// Rotate returns a rotation by angle radians.
func Rotate(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply returns m * other (other is applied first).
func (m Transform) Multiply(other Transform) Transform {
	return Transform{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// Apply maps a point.
func (m Transform) Apply(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// ApplyVector maps a direction, ignoring translation.
func (m Transform) ApplyVector(p Vec2) Vec2 {
	return Vec2{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// ApplyAll maps every point of ring into a new slice.
func (m Transform) ApplyAll(ring []Vec2) []Vec2 {
	out := make([]Vec2, len(ring))
	for i, p := range ring {
		out[i] = m.Apply(p)
	}
	return out
}

// Invert returns the inverse transform, or the identity if m is singular.
func (m Transform) Invert() Transform {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	inv := 1.0 / det
	return Transform{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}

// IsIdentity reports whether m is the identity.
func (m Transform) IsIdentity() bool {
	return m == Identity()
}

// Placement is the position, rotation and scale of an element in the scene.
type Placement struct {
	Position Vec2
	Rotation float64 // radians
	Scale    Vec2
}

// Transform composes translate * rotate * scale. A zero Scale is treated as 1.
func (p Placement) Transform() Transform {
	sx, sy := p.Scale.X, p.Scale.Y
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return Translate(p.Position.X, p.Position.Y).
		Multiply(Rotate(p.Rotation)).
		Multiply(Scale(sx, sy))
}
