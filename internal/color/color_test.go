package color

import (
	"math"
	"testing"
)

func TestTransferRoundTrip(t *testing.T) {
	for i := 0; i <= 100; i++ {
		v := float64(i) / 100
		if got := SRGBToLinear(LinearToSRGB(v)); math.Abs(got-v) > 1e-9 {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}
}

func TestLinearToSRGB8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{-0.5, 0},
		{math.NaN(), 0},
		{1, 255},
		{4, 255},
		{0.5, 188},
		{0.214, 127},
	}
	for _, tt := range tests {
		if got := LinearToSRGB8(tt.in); got != tt.want {
			t.Errorf("LinearToSRGB8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLUTAccuracy(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		l := float64(i) / 1000
		exact := LinearToSRGB(l) * 255
		got := float64(LinearToSRGB8(l))
		if math.Abs(got-exact) > 1 {
			t.Fatalf("LinearToSRGB8(%v) = %v, exact %v", l, got, exact)
		}
	}
}

func TestXYZWhitePoint(t *testing.T) {
	// D65 white maps to equal linear RGB.
	r, g, b := XYZ{X: 0.95047, Y: 1, Z: 1.08883}.LinearSRGB()
	for _, c := range []float64{r, g, b} {
		if math.Abs(c-1) > 1e-3 {
			t.Errorf("white = (%v, %v, %v), want (1, 1, 1)", r, g, b)
			break
		}
	}
	r8, g8, b8 := XYZ{X: 0.95047, Y: 1, Z: 1.08883}.SRGB8()
	if r8 != 255 || g8 != 255 || b8 != 255 {
		t.Errorf("SRGB8(white) = (%d, %d, %d)", r8, g8, b8)
	}
}

func BenchmarkLinearToSRGB8(b *testing.B) {
	for b.Loop() {
		for i := range 256 {
			_ = LinearToSRGB8(float64(i) / 255)
		}
	}
}
