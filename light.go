package optics

import "math"

// LightKind selects how a light source emits rays.
type LightKind uint8

// Light kinds.
const (
	LightBeam  LightKind = iota // a single ray
	LightPoint                  // Count rays evenly spread over a full turn
)

// DefaultPointRays is the ray count of a point light.
const DefaultPointRays = 10

// Light is a ray emitter.
type Light struct {
	Kind       LightKind
	Origin     Vec2
	Dir        Vec2 // beams only; normalized on emission
	White      bool
	Wavelength float64 // nm, ignored for white light
	Color      Color
	Count      int // point lights only
}

// WhiteBeam returns a polychromatic beam.
func WhiteBeam(origin, dir Vec2) Light {
	return Light{Kind: LightBeam, Origin: origin, Dir: dir, White: true, Color: White}
}

// MonoBeam returns a single-wavelength beam coloured by WavelengthColor.
func MonoBeam(origin, dir Vec2, nm float64) Light {
	return Light{Kind: LightBeam, Origin: origin, Dir: dir, Wavelength: nm, Color: WavelengthColor(nm)}
}

// PointLight returns a point source. nm == 0 makes it white.
func PointLight(origin Vec2, nm float64, count int) Light {
	l := Light{Kind: LightPoint, Origin: origin, Count: count, White: nm == 0, Color: White}
	if nm != 0 {
		l.Wavelength = nm
		l.Color = WavelengthColor(nm)
	}
	return l
}

// Emit calls fn for each ray of the source. Rays start in a medium of
// index ambient.
func (l Light) Emit(ambient float64, fn func(Ray)) {
	base := Ray{
		Origin:     l.Origin,
		Color:      l.Color,
		Index:      ambient,
		White:      l.White,
		Wavelength: l.Wavelength,
	}
	if l.White {
		base.Wavelength = 0
	}
	switch l.Kind {
	case LightPoint:
		n := l.Count
		if n <= 0 {
			n = DefaultPointRays
		}
		for i := 0; i < n; i++ {
			r := base
			sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
			r.Dir = Vec2{X: cos, Y: sin}
			fn(r)
		}
	default:
		r := base
		r.Dir = l.Dir.Normalize()
		if r.Dir.IsZero() {
			return
		}
		fn(r)
	}
}
