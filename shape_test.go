package optics

import (
	"errors"
	"math"
	"testing"
)

func TestShapeKindString(t *testing.T) {
	tests := []struct {
		k    ShapeKind
		want string
	}{
		{ShapeCircularArc, "CircularArc"},
		{ShapeLens, "Lens"},
		{ShapePolygon, "Polygon"},
		{ShapeDemoPrism, "DemoPrism"},
		{ShapeRegularPolygon, "RegularPolygon"},
		{ShapeKind(0), "ShapeKind(0)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestShapeRingUnknownKind(t *testing.T) {
	var s Shape
	if _, err := s.Ring(); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("Ring() error = %v, want ErrUnknownShape", err)
	}
	if s.Ready() {
		t.Error("zero Shape must not be ready")
	}
}

func TestCircularArcRing(t *testing.T) {
	s := NewCircularArc(V2(0, -50), V2(50, 0), V2(0, 50))
	ring, err := s.Ring()
	if err != nil {
		t.Fatal(err)
	}
	if len(ring) != DefaultArcResolution {
		t.Errorf("len = %d, want %d", len(ring), DefaultArcResolution)
	}
	if s.Closed() {
		t.Error("arc must be open")
	}

	bad := NewCircularArc(V2(0, 0), V2(1, 0), V2(2, 0))
	if _, err := bad.Ring(); !errors.Is(err, ErrCollinear) {
		t.Errorf("collinear arc error = %v, want ErrCollinear", err)
	}
}

func TestLensRing(t *testing.T) {
	const w, h = 40.0, 200.0
	tests := []struct {
		name        string
		left, right float64
		wantLen     int
	}{
		{"straight sides", 0, 0, 4},
		{"both curved", 10, 10, 2*DefaultLensResolution + 2},
		{"right curved only", 0, 10, DefaultLensResolution + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring, err := NewLens(w, h, tt.left, tt.right).Ring()
			if err != nil {
				t.Fatal(err)
			}
			if len(ring) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(ring), tt.wantLen)
			}
			for i, p := range ring {
				if math.Abs(p.X) > w/2+1e-9 || math.Abs(p.Y) > h/2+1e-9 {
					t.Errorf("point %d = %v outside the centred box", i, p)
				}
				if p.Approx(ring[(i+1)%len(ring)], 1e-9) {
					t.Errorf("points %d and %d coincide", i, (i+1)%len(ring))
				}
			}
		})
	}
}

func TestLensInsetDepth(t *testing.T) {
	ring, err := NewLens(40, 200, 10, 10).Ring()
	if err != nil {
		t.Fatal(err)
	}
	// the right side bulges in to x = w/2 - inset at mid height
	minRight := math.Inf(1)
	for _, p := range ring {
		if p.X > 0 && math.Abs(p.Y) < 5 {
			minRight = math.Min(minRight, p.X)
		}
	}
	if math.Abs(minRight-10) > 0.5 {
		t.Errorf("right side depth at mid height = %v, want about 10", minRight)
	}
}

func TestDemoPrismRing(t *testing.T) {
	ring, err := NewDemoPrism(100, math.Pi/3).Ring()
	if err != nil {
		t.Fatal(err)
	}
	if len(ring) != 3 {
		t.Fatalf("len = %d, want 3", len(ring))
	}
	if !ring[0].IsZero() {
		t.Errorf("apex = %v, want origin", ring[0])
	}
	height := 50 / math.Tan(math.Pi/6)
	if !ring[1].Approx(V2(50, height), 1e-9) || !ring[2].Approx(V2(-50, height), 1e-9) {
		t.Errorf("base = %v, %v", ring[1], ring[2])
	}

	empty, err := NewDemoPrism(100, 0).Ring()
	if err != nil || len(empty) != 0 {
		t.Errorf("zero apex angle ring = %v, %v, want empty", empty, err)
	}
}

func TestRegularPolygonRing(t *testing.T) {
	ring, err := NewRegularPolygon(10, 6).Ring()
	if err != nil {
		t.Fatal(err)
	}
	if len(ring) != 6 {
		t.Fatalf("len = %d, want 6", len(ring))
	}
	if !ring[0].Approx(V2(0, -10), 1e-9) {
		t.Errorf("first vertex = %v, want (0,-10)", ring[0])
	}
	for i, p := range ring {
		if math.Abs(p.Length()-10) > 1e-9 {
			t.Errorf("vertex %d at radius %v", i, p.Length())
		}
	}

	if r, _ := NewRegularPolygon(10, 2).Ring(); len(r) != 0 {
		t.Errorf("two-sided polygon ring len = %d, want 0", len(r))
	}
}

func TestPolygonAddPoint(t *testing.T) {
	s := NewPolygon(V2(0, 0), V2(100, 0))
	if s.Ready() {
		t.Fatal("open polygon must not be ready")
	}

	// too few points to seal: appended
	if sealed := s.AddPoint(V2(5, 5)); sealed {
		t.Fatal("polygon with two points sealed")
	}
	if got := len(s.Polygon.Points); got != 3 {
		t.Fatalf("points = %d, want 3", got)
	}

	if sealed := s.AddPoint(V2(100, 100)); sealed {
		t.Fatal("far point sealed the polygon")
	}
	if sealed := s.AddPoint(V2(3, -4)); !sealed {
		t.Fatal("point within tolerance of the first did not seal")
	}
	if !s.Ready() || len(s.Polygon.Points) != 4 {
		t.Errorf("sealed polygon ready=%v points=%d, want true, 4", s.Ready(), len(s.Polygon.Points))
	}

	if !s.AddPoint(V2(500, 500)) || len(s.Polygon.Points) != 4 {
		t.Error("sealed polygon accepted another point")
	}

	other := NewLens(1, 1, 0, 0)
	if other.AddPoint(V2(1, 1)) {
		t.Error("AddPoint on a lens reported sealed")
	}
}

func TestPolygonAddPointAtTolerance(t *testing.T) {
	tests := []struct {
		name       string
		last       Vec2
		wantSealed bool
		wantPoints int
	}{
		{"exactly at tolerance", V2(0, PolygonCloseTolerance), false, 4},
		{"just inside tolerance", V2(0, PolygonCloseTolerance-1e-9), true, 3},
		{"beyond tolerance", V2(0, PolygonCloseTolerance+1), false, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewPolygon(V2(0, 0), V2(10, 0), V2(10, 10), tt.last)
			if got := s.Polygon.Sealed; got != tt.wantSealed {
				t.Errorf("sealed = %v, want %v", got, tt.wantSealed)
			}
			if got := len(s.Polygon.Points); got != tt.wantPoints {
				t.Errorf("points = %d, want %d", got, tt.wantPoints)
			}
		})
	}
}
