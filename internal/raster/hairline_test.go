package raster

import (
	"image"
	"image/color"
	"testing"
)

// mockBlitter records blit operations for testing.
type mockBlitter struct {
	antiH2 []pairCall
	antiV2 []pairCall
}

type pairCall struct {
	x, y           int
	alpha0, alpha1 uint8
}

func (m *mockBlitter) BlitAntiH2(x, y int, alpha0, alpha1 uint8) {
	m.antiH2 = append(m.antiH2, pairCall{x, y, alpha0, alpha1})
}

func (m *mockBlitter) BlitAntiV2(x, y int, alpha0, alpha1 uint8) {
	m.antiV2 = append(m.antiV2, pairCall{x, y, alpha0, alpha1})
}

func TestToFDot6(t *testing.T) {
	tests := []struct {
		in   float64
		want FDot6
	}{
		{0, 0},
		{1, 64},
		{0.5, 32},
		{-1, -64},
		{100, 6400},
	}
	for _, tt := range tests {
		if got := ToFDot6(tt.in); got != tt.want {
			t.Errorf("ToFDot6(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLineHorizontalOnPixelCenters(t *testing.T) {
	m := &mockBlitter{}
	Line(m, Point{2, 10.5}, Point{8, 10.5}, 1)

	if len(m.antiH2) != 0 {
		t.Errorf("horizontal line produced %d vertical-run blits", len(m.antiH2))
	}
	if len(m.antiV2) != 6 {
		t.Fatalf("got %d blits, want 6", len(m.antiV2))
	}
	for i, c := range m.antiV2 {
		if c.x != 2+i || c.y != 10 {
			t.Errorf("blit %d at (%d,%d), want (%d,10)", i, c.x, c.y, 2+i)
		}
		if c.alpha0 < 250 || c.alpha1 != 0 {
			t.Errorf("blit %d alphas = %d,%d, want ~255,0", i, c.alpha0, c.alpha1)
		}
	}
}

func TestLineVerticalOnPixelCenters(t *testing.T) {
	m := &mockBlitter{}
	Line(m, Point{5.5, 4}, Point{5.5, 0}, 1)

	if len(m.antiH2) != 4 {
		t.Fatalf("got %d blits, want 4", len(m.antiH2))
	}
	for i, c := range m.antiH2 {
		if c.x != 5 || c.y != i {
			t.Errorf("blit %d at (%d,%d), want (5,%d)", i, c.x, c.y, i)
		}
	}
}

func TestLineSplitsCoverageBetweenRows(t *testing.T) {
	m := &mockBlitter{}
	Line(m, Point{0, 10}, Point{4, 10}, 1)

	for _, c := range m.antiV2 {
		if c.y != 9 {
			t.Errorf("pair starts at row %d, want 9", c.y)
		}
		if diff := int(c.alpha0) - int(c.alpha1); diff < -2 || diff > 2 {
			t.Errorf("alphas %d,%d not split evenly", c.alpha0, c.alpha1)
		}
	}
}

func TestLineCoverage(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		wantNone bool
	}{
		{"zero", 0, true},
		{"negative", -1, true},
		{"half", 0.5, false},
		{"over one", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockBlitter{}
			Line(m, Point{0, 0.5}, Point{10, 0.5}, tt.coverage)
			if got := len(m.antiV2) == 0; got != tt.wantNone {
				t.Errorf("no blits = %v, want %v", got, tt.wantNone)
			}
			for _, c := range m.antiV2 {
				if tt.coverage == 0.5 && c.alpha0 > 128 {
					t.Errorf("alpha %d exceeds half coverage", c.alpha0)
				}
			}
		})
	}
}

func TestLineLongIsSubdivided(t *testing.T) {
	m := &mockBlitter{}
	Line(m, Point{0, 0.5}, Point{1000, 0.5}, 1)

	seen := make(map[int]int)
	for _, c := range m.antiV2 {
		seen[c.x]++
	}
	if len(seen) != 1000 {
		t.Fatalf("covered %d columns, want 1000", len(seen))
	}
	for x, n := range seen {
		if n != 1 {
			t.Errorf("column %d blitted %d times", x, n)
		}
	}
}

func TestLineZeroLength(t *testing.T) {
	m := &mockBlitter{}
	Line(m, Point{3, 3}, Point{3, 3}, 1)
	if len(m.antiH2)+len(m.antiV2) != 0 {
		t.Error("zero-length line produced blits")
	}
}

func TestPolyline(t *testing.T) {
	m := &mockBlitter{}
	Polyline(m, []Point{{0.5, 0.5}, {10.5, 0.5}, {10.5, 10.5}}, 1)
	if len(m.antiV2) == 0 || len(m.antiH2) == 0 {
		t.Errorf("polyline blits h=%d v=%d, want both non-zero", len(m.antiH2), len(m.antiV2))
	}
}

func TestAccumulatorBlend(t *testing.T) {
	tests := []struct {
		name string
		mode BlendMode
		want float32
	}{
		{"max", BlendMax, 0.5},
		{"add", BlendAdd, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccumulator(4, 4, tt.mode)
			a.SetColor(color.NRGBA{R: 255, A: 255})
			a.BlitAntiH2(1, 1, 0, 0)
			a.BlitAntiV2(1, 1, 0, 0)
			a.SetColor(color.NRGBA{R: 128, A: 255})
			a.BlitAntiH2(1, 1, 255, 0)
			a.BlitAntiV2(1, 1, 255, 0)
			r, g, _ := a.At(1, 1)
			if r < tt.want-0.01 || r > tt.want+0.01 {
				t.Errorf("red = %v, want %v", r, tt.want)
			}
			if g != 0 {
				t.Errorf("green = %v, want 0", g)
			}
		})
	}
}

func TestAccumulatorOutOfBounds(t *testing.T) {
	a := NewAccumulator(2, 2, BlendAdd)
	a.SetColor(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	a.BlitAntiH2(-1, 0, 255, 255)
	a.BlitAntiV2(0, 1, 255, 255)
	a.BlitAntiH2(5, 5, 255, 255)

	if r, _, _ := a.At(0, 0); r == 0 {
		t.Error("in-bounds half of the pair was not plotted")
	}
	if r, _, _ := a.At(0, 1); r == 0 {
		t.Error("(0,1) not plotted")
	}
	if r, _, _ := a.At(9, 9); r != 0 {
		t.Error("At outside the buffer must be zero")
	}
}

func TestAccumulatorResolve(t *testing.T) {
	a := NewAccumulator(3, 1, BlendAdd)
	a.SetColor(color.NRGBA{G: 255, A: 255})
	a.BlitAntiH2(0, 0, 255, 0)
	a.BlitAntiH2(0, 0, 255, 0)

	dst := image.NewRGBA(image.Rect(0, 0, 3, 1))
	a.Resolve(dst)

	if got := dst.RGBAAt(0, 0); got.G != 255 || got.A != 255 {
		t.Errorf("saturated pixel = %v, want G=255 A=255", got)
	}
	if got := dst.RGBAAt(2, 0); got != (color.RGBA{}) {
		t.Errorf("untouched pixel = %v, want transparent", got)
	}

	a.Clear()
	if _, g, _ := a.At(0, 0); g != 0 {
		t.Errorf("after Clear green = %v", g)
	}
}
