// Package raster draws anti-aliased ray segments into an additive light
// accumulator.
package raster

// FDot6 is a 26.6 fixed-point pixel coordinate (64 subpixel positions).
type FDot6 int32

// FDot16 is a 16.16 fixed-point value used for slopes and interpolation.
type FDot16 int32

const (
	fdot6Shift         = 6
	fdot6One    FDot6  = 1 << fdot6Shift
	fdot6Mask          = fdot6One - 1
	fdot16Shift        = 16
	fdot16One   FDot16 = 1 << fdot16Shift
	fdot16Half         = fdot16One / 2
)

// ToFDot6 converts a float pixel coordinate to 26.6 fixed point.
func ToFDot6(f float64) FDot6 {
	return FDot6(f * float64(fdot6One))
}

func (f FDot6) floor() int { return int(f >> fdot6Shift) }

func (f FDot6) ceil() int { return int((f + fdot6Mask) >> fdot6Shift) }

func (f FDot6) toFDot16() FDot16 { return FDot16(f) << (fdot16Shift - fdot6Shift) }

func (f FDot16) floor() int { return int(f >> fdot16Shift) }

// frac returns the top 8 fractional bits as a coverage value.
//
//nolint:gosec // masked to 8 bits
func (f FDot16) frac() uint8 { return uint8((f >> 8) & 0xFF) }

// slope16 computes (a << 16) / b. b must be non-zero.
func slope16(a, b FDot6) FDot16 {
	if b == 0 {
		return 0
	}
	return FDot16((int64(a) << fdot16Shift) / int64(b))
}

// scale6 scales an 8-bit value by a 26.6 fraction in [0, 64].
//
//nolint:gosec // (255 * 64) >> 6 fits in uint8
func scale6(v uint8, f FDot6) uint8 {
	return uint8((int32(v) * int32(f)) >> fdot6Shift)
}

//nolint:gosec // product of two uint8 shifted by 8 fits in uint8
func mulAlpha(a, b uint8) uint8 {
	return uint8((int(a) * int(b)) >> 8)
}

func abs6(f FDot6) FDot6 {
	if f < 0 {
		return -f
	}
	return f
}
