package optics

import (
	"math"
	"testing"
)

func TestNewSpectrum(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		n          int
		wantLen    int
		wantStep   float64
	}{
		{"five", 400, 700, 5, 5, 75},
		{"single", 500, 700, 1, 1, 0},
		{"empty", 400, 700, 0, 0, 0},
		{"negative", 400, 700, -3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpectrum(tt.start, tt.end, tt.n)
			if s.Len() != tt.wantLen {
				t.Fatalf("Len = %d, want %d", s.Len(), tt.wantLen)
			}
			if math.Abs(s.Step()-tt.wantStep) > 1e-9 {
				t.Errorf("Step = %v, want %v", s.Step(), tt.wantStep)
			}
			if tt.wantLen > 0 {
				if s.Start() != tt.start {
					t.Errorf("Start = %v, want %v", s.Start(), tt.start)
				}
			} else if s.Start() != 0 {
				t.Errorf("empty Start = %v, want 0", s.Start())
			}
		})
	}
}

func TestDefaultSpectrum(t *testing.T) {
	s := DefaultSpectrum()
	if s.Len() != DefaultSpectrumSamples {
		t.Fatalf("Len = %d, want %d", s.Len(), DefaultSpectrumSamples)
	}
	first, _ := s.At(0)
	last, _ := s.At(s.Len() - 1)
	if first != DefaultSpectrumStart || math.Abs(last-DefaultSpectrumEnd) > 1e-9 {
		t.Errorf("range = [%v, %v], want [%v, %v]", first, last, DefaultSpectrumStart, DefaultSpectrumEnd)
	}
	for i := 1; i < s.Len(); i++ {
		a, _ := s.At(i - 1)
		b, _ := s.At(i)
		if b <= a {
			t.Fatalf("wavelengths not increasing at %d", i)
		}
	}
}

func TestWavelengthColor(t *testing.T) {
	tests := []struct {
		name  string
		nm    float64
		check func(Color) bool
	}{
		{"red", 650, func(c Color) bool { return c.R > 200 && c.B < 30 }},
		{"green", 530, func(c Color) bool { return c.G > c.R && c.G > c.B }},
		{"blue", 460, func(c Color) bool { return c.B > c.R && c.B > c.G }},
		{"below range", 300, func(c Color) bool { return c == Black }},
		{"above range", 800, func(c Color) bool { return c == Black }},
		{"nan", math.NaN(), func(c Color) bool { return c == Black }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WavelengthColor(tt.nm)
			if c.A != 255 {
				t.Errorf("alpha = %d, want 255", c.A)
			}
			if !tt.check(c) {
				t.Errorf("WavelengthColor(%v) = %v", tt.nm, c)
			}
		})
	}
}

func TestWavelengthColorTableEnds(t *testing.T) {
	// exact table points must not read past the end of the tables
	for _, nm := range []float64{cieMin, cieMax, 555} {
		_ = WavelengthColor(nm)
	}
}
