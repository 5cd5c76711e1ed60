package optics

import "math"

// Solver tolerances.
const (
	edgeDetEpsilon   = 1e-6
	boundsDetEpsilon = 1e-12
)

// AmbientIndex is the refractive index of the medium between elements.
const AmbientIndex = 1.0

// RayState is the per-ray solver input.
type RayState struct {
	Origin     Vec2
	Dir        Vec2
	Wavelength float64 // nm; 0 means white
	Index      float64 // current medium
	White      bool
}

// Outcome is the per-ray solver output.
type Outcome struct {
	Collision    Vec2
	Reflected    Vec2
	Refracted    Vec2
	Transmission float64
	Owner        int32 // frame element hit, or -1 for the bounds
	NextIndex    float64
	Finished     bool
}

// SolveRay intersects one ray with the scene and evaluates the surface
// interaction. It is a pure function of its inputs and is the reference
// every Backend must reproduce.
//
// A ray that misses every edge ends on the bounds (Owner -1, Finished).
// Mirrors reflect. White rays stop at refractive surfaces with Finished set
// so the caller can disperse them. Other rays get Fresnel-weighted
// reflected and refracted directions; total internal reflection reports
// Transmission 0 and a zero refracted direction.
func SolveRay(ray RayState, edges *EdgeList, mats *MaterialTable) Outcome {
	d := ray.Dir.Normalize()
	out := Outcome{Owner: -1, NextIndex: ray.Index}

	tMin := math.Inf(1)
	var hit Edge
	found := false
	for _, e := range edges.Edges {
		t, ok := intersect(ray.Origin, d, e.A, e.B, edgeDetEpsilon)
		if ok && t < tMin {
			tMin, hit, found = t, e, true
		}
	}

	if !found {
		out.Collision = boundsHit(ray.Origin, d, edges.Bounds)
		out.Finished = true
		return out
	}

	out.Collision = ray.Origin.Add(d.Mul(tMin))
	out.Owner = hit.Owner
	n := hit.B.Sub(hit.A).Perp().Normalize()
	out.Reflected = reflect(d, n)

	profile := mats.ProfileOf(hit.Owner)
	if profile == NoMaterial {
		return out
	}

	if ray.White {
		out.Finished = true
		return out
	}

	nMat := mats.Profiles[profile].Index(ray.Wavelength * 1e-3)
	n1, n2 := nMat, AmbientIndex
	cos1 := -d.Dot(n)
	if cos1 < 0 {
		n1, n2 = ray.Index, nMat
		n = n.Neg()
		cos1 = -cos1
	}

	refr, t, ok := fresnel(d, n, n1, n2, cos1)
	if ok {
		out.Refracted = refr
		out.Transmission = t
		out.NextIndex = n2
	}
	return out
}

// intersect solves origin + t*d = a + u*(b-a) and accepts t > 0 and
// u in [0, 1].
func intersect(origin, d, a, b Vec2, eps float64) (float64, bool) {
	e := b.Sub(a)
	det := d.X*e.Y - d.Y*e.X
	if math.Abs(det) < eps {
		return 0, false
	}
	pa := a.Sub(origin)
	t := (pa.X*e.Y - pa.Y*e.X) / det
	u := (pa.X*d.Y - pa.Y*d.X) / det
	if t > 0 && u >= 0 && u <= 1 {
		return t, true
	}
	return 0, false
}

// boundsHit returns where the ray leaves the bounds rectangle, or the
// origin if it does not cross any side.
func boundsHit(origin, d Vec2, r Rect) Vec2 {
	tl := Vec2{X: r.Left, Y: r.Top}
	tr := Vec2{X: r.Left + r.Width, Y: r.Top}
	br := Vec2{X: r.Left + r.Width, Y: r.Top + r.Height}
	bl := Vec2{X: r.Left, Y: r.Top + r.Height}
	sides := [4][2]Vec2{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}

	tMin := math.Inf(1)
	for _, s := range sides {
		if t, ok := intersect(origin, d, s[0], s[1], boundsDetEpsilon); ok && t < tMin {
			tMin = t
		}
	}
	if math.IsInf(tMin, 1) {
		return origin
	}
	return origin.Add(d.Mul(tMin))
}

// reflect mirrors d about the line with normal n.
func reflect(d, n Vec2) Vec2 {
	return d.Sub(n.Mul(2 * d.Dot(n)))
}

// fresnel refracts d through a surface whose normal n faces the incoming
// ray, from index n1 into n2. It returns the refracted direction and the
// unpolarized transmittance, or false on total internal reflection.
func fresnel(d, n Vec2, n1, n2, cos1 float64) (Vec2, float64, bool) {
	eta := n1 / n2
	sin2sq := eta * eta * (1 - cos1*cos1)
	if sin2sq > 1 {
		return Vec2{}, 0, false
	}
	cos2 := math.Sqrt(1 - sin2sq)

	rs := (n1*cos1 - n2*cos2) / (n1*cos1 + n2*cos2)
	rp := (n2*cos1 - n1*cos2) / (n2*cos1 + n1*cos2)
	r := 0.5 * (rs*rs + rp*rp)

	refr := d.Mul(eta).Add(n.Mul(eta*cos1 - cos2))
	return refr, 1 - r, true
}
