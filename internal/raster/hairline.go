package raster

// Blitter receives the pixel pairs produced by the hairline walker.
type Blitter interface {
	// BlitAntiH2 covers (x, y) with alpha0 and (x+1, y) with alpha1.
	BlitAntiH2(x, y int, alpha0, alpha1 uint8)
	// BlitAntiV2 covers (x, y) with alpha0 and (x, y+1) with alpha1.
	BlitAntiV2(x, y int, alpha0, alpha1 uint8)
}

// Point is a pixel-space coordinate.
type Point struct {
	X, Y float64
}

// maxCoord bounds coordinates so FDot16 arithmetic cannot overflow.
const maxCoord = 32766.0

// Line draws an anti-aliased one pixel wide segment from p0 to p1.
// Coverage in [0, 1] scales every emitted alpha.
func Line(b Blitter, p0, p1 Point, coverage float64) {
	if coverage <= 0 {
		return
	}
	if coverage > 1 {
		coverage = 1
	}
	if !clipSafe(&p0, &p1) {
		return
	}
	//nolint:gosec // coverage clamped to [0, 1]
	cov := uint8(coverage * 255)
	line6(b, ToFDot6(p0.X), ToFDot6(p0.Y), ToFDot6(p1.X), ToFDot6(p1.Y), cov)
}

// Polyline draws consecutive segments through pts.
func Polyline(b Blitter, pts []Point, coverage float64) {
	for i := 0; i+1 < len(pts); i++ {
		Line(b, pts[i], pts[i+1], coverage)
	}
}

func line6(b Blitter, x0, y0, x1, y1 FDot6, cov uint8) {
	dx, dy := abs6(x1-x0), abs6(y1-y0)
	// long lines are split so the 16.16 slope walk stays exact enough
	if dx > 511<<fdot6Shift || dy > 511<<fdot6Shift {
		hx := (x0 >> 1) + (x1 >> 1)
		hy := (y0 >> 1) + (y1 >> 1)
		line6(b, x0, y0, hx, hy, cov)
		line6(b, hx, hy, x1, y1, cov)
		return
	}
	switch {
	case dx > dy:
		horish(b, x0, y0, x1, y1, cov)
	case dy > 0:
		vertish(b, x0, y0, x1, y1, cov)
	}
}

// endScales returns the partial coverage of the first and last pixel of a
// run from a to b along the major axis.
func endScales(a, b FDot6, istart, istop int) (start, stop FDot6) {
	if istop-istart == 1 {
		return b - a, 0
	}
	return fdot6One - (a & fdot6Mask), b & fdot6Mask
}

func horish(b Blitter, x0, y0, x1, y1 FDot6, cov uint8) {
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	istart, istop := x0.floor(), x1.ceil()
	slope := slope16(y1-y0, x1-x0)
	fy := y0.toFDot16()
	fy += FDot16((int32(32-(x0&fdot6Mask))*int32(slope))>>fdot6Shift) + fdot16Half

	scaleStart, scaleStop := endScales(x0, x1, istart, istop)
	walk(istart, istop, scaleStart, scaleStop, cov, func(x int, a uint8) {
		blitY(b, x, fy, a)
		fy += slope
	})
}

func vertish(b Blitter, x0, y0, x1, y1 FDot6, cov uint8) {
	if y0 > y1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	istart, istop := y0.floor(), y1.ceil()
	slope := slope16(x1-x0, y1-y0)
	fx := x0.toFDot16()
	fx += FDot16((int32(32-(y0&fdot6Mask))*int32(slope))>>fdot6Shift) + fdot16Half

	scaleStart, scaleStop := endScales(y0, y1, istart, istop)
	walk(istart, istop, scaleStart, scaleStop, cov, func(y int, a uint8) {
		blitX(b, fx, y, a)
		fx += slope
	})
}

// walk visits every pixel of the major axis once, with partial coverage on
// the two end pixels.
func walk(istart, istop int, scaleStart, scaleStop FDot6, cov uint8, fn func(i int, a uint8)) {
	if istart >= istop {
		return
	}
	if scaleStart < fdot6One {
		fn(istart, scale6(cov, scaleStart))
		istart++
	}
	full := istop - istart
	if scaleStop > 0 {
		full--
	}
	for i := istart; i < istart+full; i++ {
		fn(i, cov)
	}
	if scaleStop > 0 && istart+full < istop {
		fn(istop-1, scale6(cov, scaleStop))
	}
}

func blitY(b Blitter, x int, fy FDot16, a uint8) {
	if a == 0 {
		return
	}
	if fy < 0 {
		fy = 0
	}
	frac := fy.frac()
	b.BlitAntiV2(x, fy.floor()-1, mulAlpha(a, 255-frac), mulAlpha(a, frac))
}

func blitX(b Blitter, fx FDot16, y int, a uint8) {
	if a == 0 {
		return
	}
	if fx < 0 {
		fx = 0
	}
	frac := fx.frac()
	b.BlitAntiH2(fx.floor()-1, y, mulAlpha(a, 255-frac), mulAlpha(a, frac))
}

func clipSafe(p0, p1 *Point) bool {
	if (p0.X < -maxCoord && p1.X < -maxCoord) || (p0.X > maxCoord && p1.X > maxCoord) {
		return false
	}
	if (p0.Y < -maxCoord && p1.Y < -maxCoord) || (p0.Y > maxCoord && p1.Y > maxCoord) {
		return false
	}
	p0.X, p0.Y = clampCoord(p0.X), clampCoord(p0.Y)
	p1.X, p1.Y = clampCoord(p1.X), clampCoord(p1.Y)
	return true
}

func clampCoord(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v < -maxCoord:
		return -maxCoord
	case v > maxCoord:
		return maxCoord
	}
	return v
}
