package optics

import (
	"fmt"
)

// State is the orchestrator state.
type State uint8

// Orchestrator states.
const (
	StateIdle State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// Segment is one straight step of a ray path, drawn in the colour the ray
// had before the collision that ended it.
type Segment struct {
	From, To Vec2
	Color    Color
}

// FrameStats summarizes the last frame.
type FrameStats struct {
	Bounces   int
	Solved    int // ray solves across all bounces
	Spawned   int // children staged
	Dispersed int // white rays split into a spectrum
	Dropped   int // rays lost at the population ceiling
	Edges     int
}

// Simulation holds everything one frame of ray tracing needs: the scene
// snapshot, the ray population and the output segments. It is not safe for
// concurrent use.
type Simulation struct {
	scene   *Scene
	opts    options
	catalog *Catalog
	backend Backend

	rays     *Rays
	frame    *Frame
	segments []Segment

	state  State
	bounce int
	stats  FrameStats
}

// NewSimulation creates a simulation over scene.
func NewSimulation(scene *Scene, opts ...Option) *Simulation {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = DefaultCatalog()
	}
	if o.spectrum == nil {
		o.spectrum = DefaultSpectrum()
	}

	s := &Simulation{
		scene:   scene,
		opts:    o,
		catalog: o.catalog,
		rays:    NewRays(o.capacity),
		frame:   NewFrame(o.bounds, o.maxEdges),
	}
	s.backend = s.selectBackend()
	Logger().Info("simulation backend selected", "backend", s.backend.Name())
	return s
}

func (s *Simulation) selectBackend() Backend {
	if s.opts.backend != nil {
		return s.opts.backend
	}
	if a := RegisteredAccelerator(); a != nil {
		return fallbackBackend{primary: a, cpu: SerialBackend{}}
	}
	return SerialBackend{}
}

// Scene returns the scene being simulated.
func (s *Simulation) Scene() *Scene { return s.scene }

// Catalog returns the material catalog.
func (s *Simulation) Catalog() *Catalog { return s.catalog }

// Spectrum returns the dispersion wavelength table.
func (s *Simulation) Spectrum() *Spectrum { return s.opts.spectrum }

// Backend returns the solver backend.
func (s *Simulation) Backend() Backend { return s.backend }

// Rays returns the ray population.
func (s *Simulation) Rays() *Rays { return s.rays }

// Frame returns the current geometry snapshot.
func (s *Simulation) Frame() *Frame { return s.frame }

// Segments returns the ray path segments of the current frame.
func (s *Simulation) Segments() []Segment { return s.segments }

// State returns the orchestrator state.
func (s *Simulation) State() State { return s.state }

// BounceCount returns the bounces completed in the current frame.
func (s *Simulation) BounceCount() int { return s.bounce }

// Stats returns counters for the current or last frame.
func (s *Simulation) Stats() FrameStats { return s.stats }

// RunFrame traces a whole frame: it seeds rays from the scene lights and
// bounces until no rays remain or the bounce budget is spent. The returned
// slice is reused by the next frame.
func (s *Simulation) RunFrame() ([]Segment, error) {
	s.Begin()
	defer s.End()
	for s.bounce < s.opts.maxBounces {
		more, err := s.Bounce()
		if err != nil {
			return s.segments, err
		}
		if !more {
			break
		}
	}
	return s.segments, nil
}

// Begin enters the active state: it clears the previous frame, snapshots
// scene geometry and dispersion caches, and commits one ray per light.
func (s *Simulation) Begin() {
	s.rays.Clear()
	s.segments = s.segments[:0]
	s.bounce = 0
	s.stats = FrameStats{}

	s.frame.Extract(s.scene, s.catalog)
	s.catalog.BuildCaches(s.opts.spectrum)
	s.stats.Edges = len(s.frame.Edges)

	for _, l := range s.scene.Lights() {
		l.Emit(AmbientIndex, s.rays.Stage)
	}
	s.rays.Commit()
	s.state = StateActive
}

// End returns to the idle state.
func (s *Simulation) End() {
	s.stats.Bounces = s.bounce
	s.stats.Dropped = s.rays.Dropped()
	s.state = StateIdle
}

// Bounce runs one solver pass over the active rays, records their path
// segments, stages their children and commits them as the next population.
// It reports whether any rays remain. With no active rays it returns
// immediately without changing anything.
func (s *Simulation) Bounce() (bool, error) {
	n := s.rays.Len()
	if n == 0 {
		return false, nil
	}
	if err := s.backend.Solve(s.rays, &s.frame.EdgeList, &s.frame.Materials); err != nil {
		return false, fmt.Errorf("bounce %d: solve %d rays on %s: %w", s.bounce, n, s.backend.Name(), err)
	}
	s.stats.Solved += n

	for i := range n {
		s.interpret(i)
	}

	s.rays.Truncate()
	s.rays.Commit()
	s.bounce++
	Logger().Debug("bounce complete", "bounce", s.bounce, "solved", n, "next", s.rays.Len())
	return s.rays.Len() > 0, nil
}

// interpret turns the solver outcome of ray i into a segment and children.
func (s *Simulation) interpret(i int) {
	r := s.rays
	dir := r.Dir[i]
	col := r.Color[i]
	o := r.Outcome(i)
	s.segments = append(s.segments, Segment{
		From:  r.Origin[i].Sub(dir.Mul(s.opts.offset)),
		To:    o.Collision,
		Color: col,
	})

	if o.Owner < 0 {
		return
	}
	owners := s.frame.Materials.Owners
	if !checkIndex("owner", int(o.Owner), len(owners)) {
		return
	}
	profile := owners[o.Owner]

	if o.Finished {
		if r.White[i] && profile != NoMaterial {
			s.disperse(i, o.Collision)
		}
		return
	}

	if profile == NoMaterial || o.Transmission == 0 {
		s.spawn(i, o.Collision, o.Reflected, col.Scale(s.opts.loss), r.Index[i])
		return
	}
	if !o.Reflected.IsZero() {
		s.spawn(i, o.Collision, o.Reflected, col.Scale(1-o.Transmission), r.Index[i])
	}
	s.spawn(i, o.Collision, o.Refracted, col.Scale(o.Transmission), o.NextIndex)
}

// spawn stages a child of ray parent leaving at along dir, unless it is
// too dim to matter.
func (s *Simulation) spawn(parent int, at, dir Vec2, col Color, index float64) {
	if col.Luma() < s.opts.threshold {
		return
	}
	s.rays.Stage(Ray{
		Origin:     at.Add(dir.Mul(s.opts.offset)),
		Dir:        dir,
		Wavelength: s.rays.Wavelength[parent],
		Color:      col,
		Index:      index,
		White:      s.rays.White[parent],
	})
	s.stats.Spawned++
}

// disperse replaces white ray parent by one ray per spectrum sample,
// starting just before the hit along the original direction.
func (s *Simulation) disperse(parent int, at Vec2) {
	dir := s.rays.Dir[parent]
	origin := at.Sub(dir.Mul(s.opts.offset))
	index := s.rays.Index[parent]
	table := s.opts.spectrum
	for k := range table.Len() {
		wl, col := table.At(k)
		s.rays.Stage(Ray{
			Origin:     origin,
			Dir:        dir,
			Wavelength: wl,
			Color:      col,
			Index:      index,
		})
	}
	s.stats.Spawned += table.Len()
	s.stats.Dispersed++
}
