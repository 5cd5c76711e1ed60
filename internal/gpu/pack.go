//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/optics"
)

var le = binary.LittleEndian

func putF32(b []byte, off int, v float64) {
	le.PutUint32(b[off:], math.Float32bits(float32(v)))
}

func getF32(b []byte, off int) float64 {
	return float64(math.Float32frombits(le.Uint32(b[off:])))
}

func packParams(n int, edges *optics.EdgeList) []byte {
	b := make([]byte, paramsSize)
	le.PutUint32(b[0:], uint32(n))                //nolint:gosec // bounded by ray capacity
	le.PutUint32(b[4:], uint32(len(edges.Edges))) //nolint:gosec // bounded by edge capacity
	putF32(b, 8, optics.AmbientIndex)
	r := edges.Bounds
	putF32(b, 16, r.Left)
	putF32(b, 20, r.Top)
	putF32(b, 24, r.Width)
	putF32(b, 28, r.Height)
	return b
}

func packRays(rays *optics.Rays) []byte {
	n := rays.Len()
	b := make([]byte, n*rayInSize)
	for i := range n {
		off := i * rayInSize
		putF32(b, off, rays.Origin[i].X)
		putF32(b, off+4, rays.Origin[i].Y)
		putF32(b, off+8, rays.Dir[i].X)
		putF32(b, off+12, rays.Dir[i].Y)
		putF32(b, off+16, rays.Wavelength[i])
		putF32(b, off+20, rays.Index[i])
		if rays.White[i] {
			le.PutUint32(b[off+24:], 1)
		}
	}
	return b
}

// packEdges always returns at least one record; zero-sized storage
// buffers are not allowed. The shader reads only edge_count records.
func packEdges(edges *optics.EdgeList) []byte {
	b := make([]byte, max(len(edges.Edges), 1)*edgeInSize)
	for i, e := range edges.Edges {
		off := i * edgeInSize
		putF32(b, off, e.A.X)
		putF32(b, off+4, e.A.Y)
		putF32(b, off+8, e.B.X)
		putF32(b, off+12, e.B.Y)
		le.PutUint32(b[off+16:], uint32(e.Owner)) //nolint:gosec // two's complement round-trip
	}
	return b
}

func packOwners(m *optics.MaterialTable) []byte {
	b := make([]byte, max(len(m.Owners), 1)*4)
	for i, p := range m.Owners {
		le.PutUint32(b[i*4:], uint32(p)) //nolint:gosec // two's complement round-trip
	}
	return b
}

func packProfiles(m *optics.MaterialTable) []byte {
	b := make([]byte, max(len(m.Profiles), 1)*profileSize)
	for i, c := range m.Profiles {
		off := i * profileSize
		for k := 0; k < 3; k++ {
			putF32(b, off+4*k, c.A[k])
			putF32(b, off+16+4*k, c.B[k])
		}
	}
	return b
}

func unpackOutcomes(b []byte, rays *optics.Rays) {
	for i := range rays.Len() {
		off := i * rayOutSize
		rays.SetOutcome(i, optics.Outcome{
			Collision:    optics.V2(getF32(b, off), getF32(b, off+4)),
			Reflected:    optics.V2(getF32(b, off+8), getF32(b, off+12)),
			Refracted:    optics.V2(getF32(b, off+16), getF32(b, off+20)),
			Transmission: getF32(b, off+24),
			NextIndex:    getF32(b, off+28),
			Owner:        int32(le.Uint32(b[off+32:])), //nolint:gosec // two's complement round-trip
			Finished:     le.Uint32(b[off+36:]) != 0,
		})
	}
}
