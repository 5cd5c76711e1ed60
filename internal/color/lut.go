package color

// linearToSRGBLUT maps 12-bit linear light to sRGB bytes.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := range linearToSRGBLUT {
		s := LinearToSRGB(float64(i) / 4095.0)
		//nolint:gosec // G115: clamped to [0,255]
		linearToSRGBLUT[i] = uint8(min(max(int(s*255.0+0.5), 0), 255))
	}
}

// LinearToSRGB8 encodes linear light to an sRGB byte. Input is clamped to
// [0, 1]; NaN encodes as 0.
func LinearToSRGB8(l float64) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return linearToSRGBLUT[int(l*4095.0+0.5)]
}
