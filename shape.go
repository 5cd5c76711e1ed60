package optics

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ShapeKind identifies the variant held by a Shape.
type ShapeKind uint8

// Shape kinds.
const (
	ShapeCircularArc ShapeKind = iota + 1
	ShapeLens
	ShapePolygon
	ShapeDemoPrism
	ShapeRegularPolygon
)

// String returns the kind name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircularArc:
		return "CircularArc"
	case ShapeLens:
		return "Lens"
	case ShapePolygon:
		return "Polygon"
	case ShapeDemoPrism:
		return "DemoPrism"
	case ShapeRegularPolygon:
		return "RegularPolygon"
	default:
		return fmt.Sprintf("ShapeKind(%d)", k)
	}
}

// Shape builder defaults.
const (
	DefaultArcResolution  = 200
	DefaultLensResolution = 50
	PolygonCloseTolerance = 10.0

	demoPrismMinAlpha = 1e-5
	ringDupEpsilon    = 1e-9
)

// ErrUnknownShape is returned for a Shape with an unset or invalid kind.
var ErrUnknownShape = errors.New("optics: unknown shape kind")

// ArcParams describes a circular arc by its two endpoints and a point on
// the arc between them.
type ArcParams struct {
	Start, End, Mid Vec2
	Resolution      int
}

// LensParams describes a rectangle whose left and right sides bulge inward
// by the given insets. Negative insets bulge outward.
type LensParams struct {
	Width, Height         float64
	LeftInset, RightInset float64
	Resolution            int
}

// PolygonParams is a free-form polygon built one point at a time.
type PolygonParams struct {
	Points []Vec2
	Sealed bool
}

// DemoPrismParams is an isosceles triangle with its apex at the origin.
type DemoPrismParams struct {
	Width float64
	Alpha float64 // apex angle, radians
}

// RegularParams is a regular polygon centred on the origin.
type RegularParams struct {
	Radius float64
	Sides  int
}

// Shape is a closed set of boundary variants. Only the params matching Kind
// are read.
type Shape struct {
	Kind    ShapeKind
	Arc     ArcParams
	Lens    LensParams
	Polygon PolygonParams
	Prism   DemoPrismParams
	Regular RegularParams
}

// NewCircularArc returns an arc mirror from start through mid to end.
func NewCircularArc(start, mid, end Vec2) Shape {
	return Shape{Kind: ShapeCircularArc, Arc: ArcParams{
		Start: start, End: end, Mid: mid, Resolution: DefaultArcResolution,
	}}
}

// NewLens returns a lens of the given size and insets.
func NewLens(width, height, leftInset, rightInset float64) Shape {
	return Shape{Kind: ShapeLens, Lens: LensParams{
		Width: width, Height: height,
		LeftInset: leftInset, RightInset: rightInset,
		Resolution: DefaultLensResolution,
	}}
}

// NewPolygon returns an open polygon seeded with pts. Use AddPoint to grow
// and seal it.
func NewPolygon(pts ...Vec2) Shape {
	s := Shape{Kind: ShapePolygon}
	for _, p := range pts {
		s.AddPoint(p)
	}
	return s
}

// NewDemoPrism returns a triangular prism of base width and apex angle alpha.
func NewDemoPrism(width, alpha float64) Shape {
	return Shape{Kind: ShapeDemoPrism, Prism: DemoPrismParams{Width: width, Alpha: alpha}}
}

// NewRegularPolygon returns a regular polygon with the given circumradius.
func NewRegularPolygon(radius float64, sides int) Shape {
	return Shape{Kind: ShapeRegularPolygon, Regular: RegularParams{Radius: radius, Sides: sides}}
}

// AddPoint appends p to a polygon. A point closer than PolygonCloseTolerance to
// the first point seals a polygon of at least three points instead of being
// appended. It reports whether the polygon is sealed. Points added to a
// sealed polygon, or to a non-polygon shape, are ignored.
func (s *Shape) AddPoint(p Vec2) bool {
	if s.Kind != ShapePolygon {
		return false
	}
	poly := &s.Polygon
	if poly.Sealed {
		return true
	}
	if len(poly.Points) >= 3 && p.Distance(poly.Points[0]) < PolygonCloseTolerance {
		poly.Sealed = true
		return true
	}
	poly.Points = append(poly.Points, p)
	return false
}

// clone returns a copy that shares no polygon points with s.
func (s Shape) clone() Shape {
	s.Polygon.Points = slices.Clone(s.Polygon.Points)
	return s
}

// Closed reports whether the ring forms a closed loop. Arcs are open.
func (s Shape) Closed() bool {
	return s.Kind != ShapeCircularArc
}

// Ready reports whether the shape takes part in the simulation. Unsealed
// polygons do not.
func (s Shape) Ready() bool {
	if s.Kind == ShapePolygon {
		return s.Polygon.Sealed
	}
	return s.Kind >= ShapeCircularArc && s.Kind <= ShapeRegularPolygon
}

// Ring builds the ordered boundary in object space.
func (s Shape) Ring() ([]Vec2, error) {
	switch s.Kind {
	case ShapeCircularArc:
		return arcRing(s.Arc)
	case ShapeLens:
		return lensRing(s.Lens), nil
	case ShapePolygon:
		return append([]Vec2(nil), s.Polygon.Points...), nil
	case ShapeDemoPrism:
		return demoPrismRing(s.Prism), nil
	case ShapeRegularPolygon:
		return regularRing(s.Regular), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownShape, s.Kind)
	}
}

func arcRing(p ArcParams) ([]Vec2, error) {
	fit, err := FitArc(p.Start, p.Mid, p.End)
	if err != nil {
		return nil, fmt.Errorf("circular arc: %w", err)
	}
	res := p.Resolution
	if res == 0 {
		res = DefaultArcResolution
	}
	return fit.Sample(res), nil
}

func lensRing(p LensParams) []Vec2 {
	w, h := p.Width, p.Height
	res := p.Resolution
	if res <= 0 {
		res = DefaultLensResolution
	}
	topLeft := Vec2{}
	topRight := Vec2{X: w}
	bottomRight := Vec2{X: w, Y: h}
	bottomLeft := Vec2{Y: h}

	ring := make([]Vec2, 0, 2*res+6)
	ring = append(ring, topLeft, topRight)
	if fit, err := FitArc(topRight, Vec2{X: w - p.RightInset, Y: h / 2}, bottomRight); err == nil {
		ring = append(ring, lensSide(fit, res)...)
	} else {
		Logger().Debug("lens: right side kept straight", "err", err)
	}
	ring = append(ring, bottomRight, bottomLeft)
	if fit, err := FitArc(bottomLeft, Vec2{X: p.LeftInset, Y: h / 2}, topLeft); err == nil {
		ring = append(ring, lensSide(fit, res)...)
	} else {
		Logger().Debug("lens: left side kept straight", "err", err)
	}

	origin := Vec2{X: w / 2, Y: h / 2}
	for i := range ring {
		ring[i] = ring[i].Sub(origin)
	}
	return dedupRing(ring)
}

// lensSide samples res+1 points with step sweep/res.
func lensSide(fit ArcFit, res int) []Vec2 {
	step := fit.Sweep / float64(res)
	pts := make([]Vec2, res+1)
	for i := range pts {
		pts[i] = fit.PointAt(float64(i) * step)
	}
	return pts
}

func demoPrismRing(p DemoPrismParams) []Vec2 {
	if math.Abs(p.Alpha) < demoPrismMinAlpha {
		return nil
	}
	half := p.Width / 2
	height := half / math.Tan(p.Alpha/2)
	return []Vec2{
		{},
		{X: half, Y: height},
		{X: -half, Y: height},
	}
}

func regularRing(p RegularParams) []Vec2 {
	if p.Sides < 3 {
		return nil
	}
	ring := make([]Vec2, p.Sides)
	for i := range ring {
		a := float64(i)*2*math.Pi/float64(p.Sides) - math.Pi/2
		sin, cos := math.Sincos(a)
		ring[i] = Vec2{X: p.Radius * cos, Y: p.Radius * sin}
	}
	return ring
}

// dedupRing collapses consecutive coincident points, including the
// wrap-around pair.
func dedupRing(ring []Vec2) []Vec2 {
	if len(ring) < 2 {
		return ring
	}
	out := ring[:1]
	for _, p := range ring[1:] {
		if !p.Approx(out[len(out)-1], ringDupEpsilon) {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[len(out)-1].Approx(out[0], ringDupEpsilon) {
		out = out[:len(out)-1]
	}
	return out
}
