package optics

import (
	"errors"
	"math"
	"testing"
)

func TestDemoPrismBeam(t *testing.T) {
	tests := []struct {
		name      string
		alpha     float64
		incident  float64
		placement Placement
	}{
		{"equilateral", math.Pi / 3, DefaultIncidentAngle, Placement{}},
		{"narrow", 0.5, 0.3, Placement{}},
		{"placed", math.Pi / 3, DefaultIncidentAngle, Placement{Position: V2(300, 200), Rotation: 0.4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Element{Shape: NewDemoPrism(200, tt.alpha), Placement: tt.placement}
			l, err := DemoPrismBeam(e, tt.incident)
			if err != nil {
				t.Fatalf("DemoPrismBeam() error = %v", err)
			}
			if !l.White || l.Kind != LightBeam {
				t.Fatalf("light = %+v, want a white beam", l)
			}

			ring := tt.placement.Transform().ApplyAll(demoPrismRing(e.Shape.Prism))
			mid := ring[0].Add(ring[2]).Mul(0.5)
			if got := l.Origin.Add(l.Dir.Mul(demoBeamBackoff)); !got.Approx(mid, 1e-9) {
				t.Errorf("beam reaches %v, want face midpoint %v", got, mid)
			}

			// Angle between the beam and the inward normal of the left face.
			face := ring[2].Sub(ring[0])
			inward := face.Perp().Normalize()
			if inward.Dot(ring[1].Sub(ring[0])) < 0 {
				inward = inward.Neg()
			}
			if got := math.Acos(l.Dir.Dot(inward)); math.Abs(got-tt.incident) > 1e-9 {
				t.Errorf("incidence = %v, want %v", got, tt.incident)
			}
		})
	}
}

func TestDemoPrismBeamErrors(t *testing.T) {
	if _, err := DemoPrismBeam(&Element{Shape: NewRegularPolygon(10, 3)}, 0); !errors.Is(err, errNotDemoPrism) {
		t.Errorf("non-prism error = %v", err)
	}
	if _, err := DemoPrismBeam(&Element{Shape: NewDemoPrism(100, 0)}, 0); !errors.Is(err, ErrDegenerate) {
		t.Errorf("flat prism error = %v", err)
	}
}

func TestAlphaOscillator(t *testing.T) {
	o := NewAlphaOscillator()
	alpha := 1.0
	lo, hi := alpha, alpha
	reversals := 0
	prev := 0.0
	for range 1000 {
		next := o.Next(alpha)
		step := next - alpha
		if prev != 0 && math.Signbit(step) != math.Signbit(prev) {
			reversals++
		}
		prev = step
		alpha = next
		lo = math.Min(lo, alpha)
		hi = math.Max(hi, alpha)
	}
	if reversals < 2 {
		t.Errorf("oscillator reversed %d times, want at least 2", reversals)
	}
	if lo < o.Min-2*o.Step || hi > o.Max+2*o.Step {
		t.Errorf("alpha swept [%v, %v], limits [%v, %v]", lo, hi, o.Min, o.Max)
	}

	zero := AlphaOscillator{Min: 0, Max: 2, Step: 0.1}
	if got := zero.Next(1); math.Abs(got-1.1) > 1e-12 {
		t.Errorf("zero-value Next(1) = %v, want 1.1", got)
	}
}
