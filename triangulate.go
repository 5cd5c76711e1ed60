package optics

import (
	"errors"
	"fmt"

	"github.com/rclancey/earcut"
)

// ErrDegenerate is returned when a ring cannot be triangulated, for example
// when it has fewer than three distinct points or no area.
var ErrDegenerate = errors.New("optics: degenerate polygon")

// Triangulate splits a simple polygon ring into triangles with earcut. The
// result holds three ring indices per triangle, wound the same way as the
// ring. Triangles are only for fill rendering.
func Triangulate(ring []Vec2) ([]int, error) {
	if len(ring) < 3 {
		return nil, ErrDegenerate
	}
	area := ringArea(ring)
	if area == 0 {
		return nil, ErrDegenerate
	}

	flat := make([]float64, 0, 2*len(ring))
	for _, p := range ring {
		flat = append(flat, p.X, p.Y)
	}
	tris, err := earcut.Earcut(flat, nil, 2)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}
	if len(tris) == 0 {
		return nil, ErrDegenerate
	}

	// earcut emits every triangle with the same orientation.
	first := ring[tris[1]].Sub(ring[tris[0]]).Cross(ring[tris[2]].Sub(ring[tris[0]]))
	if (first > 0) != (area > 0) {
		for i := 0; i+2 < len(tris); i += 3 {
			tris[i+1], tris[i+2] = tris[i+2], tris[i+1]
		}
	}
	return tris, nil
}

// ringArea returns twice the signed area (positive for counter-clockwise in
// a y-up frame).
func ringArea(ring []Vec2) float64 {
	var a float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		a += p.Cross(q)
	}
	return a
}
