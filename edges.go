package optics

// DefaultMaxEdges caps the edge count of a single frame.
const DefaultMaxEdges = 1 << 16

// Rect is an axis-aligned rectangle.
type Rect struct {
	Left, Top, Width, Height float64
}

// Edge is one boundary segment in world space owned by a frame element.
type Edge struct {
	A, B  Vec2
	Owner int32 // index into MaterialTable.Owners
}

// EdgeList is the scene geometry seen by the solver. Rays that miss every
// edge terminate on Bounds.
type EdgeList struct {
	Edges  []Edge
	Bounds Rect
}

// MaterialTable maps frame elements to dispersion coefficients.
type MaterialTable struct {
	Profiles []Coefficients // by catalog index
	Owners   []int32        // profile index per frame element, or NoMaterial
}

// ProfileOf returns the profile index of a frame element. An owner or
// profile outside the table reads as NoMaterial in release builds.
func (m *MaterialTable) ProfileOf(owner int32) int32 {
	if !checkIndex("owner", int(owner), len(m.Owners)) {
		return NoMaterial
	}
	p := m.Owners[owner]
	if p != NoMaterial && !checkIndex("profile", int(p), len(m.Profiles)) {
		return NoMaterial
	}
	return p
}

// Frame is the per-frame geometry snapshot: edges, materials, and the
// scene element behind each frame element.
type Frame struct {
	EdgeList
	Materials MaterialTable
	Elements  []ElementID

	maxEdges int
	dropped  int
}

// NewFrame returns an empty frame with the given bounds. maxEdges below 1
// uses DefaultMaxEdges.
func NewFrame(bounds Rect, maxEdges int) *Frame {
	if maxEdges < 1 {
		maxEdges = DefaultMaxEdges
	}
	return &Frame{EdgeList: EdgeList{Bounds: bounds}, maxEdges: maxEdges}
}

// Dropped returns the number of edges discarded by the last Extract.
func (f *Frame) Dropped() int { return f.dropped }

// Extract rebuilds the frame from the scene. Elements are included when
// they are mirrors or their material resolves in the catalog. Closed rings
// are wound clockwise (positive y down) before their edges are emitted; the
// closing edge of an open ring is not emitted.
func (f *Frame) Extract(scene *Scene, cat *Catalog) {
	f.Edges = f.Edges[:0]
	f.Elements = f.Elements[:0]
	f.Materials.Owners = f.Materials.Owners[:0]
	f.Materials.Profiles = f.Materials.Profiles[:0]
	f.dropped = 0

	for _, p := range cat.Profiles() {
		f.Materials.Profiles = append(f.Materials.Profiles, p.Coefficients())
	}

	for id, e := range scene.Elements() {
		profile := NoMaterial
		if !e.Mirror {
			if e.Material == "" {
				continue
			}
			profile = cat.Index(e.Material)
			if profile == NoMaterial {
				Logger().Warn("unknown material, element skipped", "element", e.Name, "material", e.Material)
				continue
			}
		}
		if !e.Shape.Ready() || len(e.ring) < 2 {
			continue
		}

		ring := e.WorldRing()
		closed := e.Shape.Closed()
		if closed {
			if len(ring) < 3 {
				continue
			}
			normalizeWinding(ring)
		}

		owner := int32(len(f.Elements)) //nolint:gosec // element count fits int32
		f.Elements = append(f.Elements, id)
		f.Materials.Owners = append(f.Materials.Owners, int32(profile)) //nolint:gosec // catalog index fits int32

		n := len(ring)
		limit := n
		if !closed {
			limit = n - 1
		}
		for i := 0; i < limit; i++ {
			if len(f.Edges) >= f.maxEdges {
				f.dropped++
				continue
			}
			f.Edges = append(f.Edges, Edge{A: ring[i], B: ring[(i+1)%n], Owner: owner})
		}
	}

	if f.dropped > 0 {
		Logger().Warn("edge list at capacity, dropping edges", "dropped", f.dropped, "capacity", f.maxEdges)
	}
}

// signedArea returns the shoelace sum used for winding tests. It is
// positive for rings that run counter-clockwise on a y-down screen.
func signedArea(ring []Vec2) float64 {
	var sum float64
	for i, p1 := range ring {
		p2 := ring[(i+1)%len(ring)]
		sum += (p2.X - p1.X) * (p2.Y + p1.Y)
	}
	return sum
}

// normalizeWinding reverses ring in place if it is not clockwise.
func normalizeWinding(ring []Vec2) {
	if signedArea(ring) > 0 {
		for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
			ring[i], ring[j] = ring[j], ring[i]
		}
	}
}
