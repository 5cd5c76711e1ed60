package optics

// DefaultCapacity is the default ray population ceiling.
const DefaultCapacity = 500_000

// Ray is a single ray record as staged or read back from a Rays store.
type Ray struct {
	Origin     Vec2
	Dir        Vec2
	Wavelength float64 // nm; 0 means white
	Color      Color
	Index      float64 // refractive index of the current medium
	Finished   bool
	White      bool
}

// Rays is the structure-of-arrays ray population for one frame. Input
// columns are written by Commit; output columns are written by a Backend.
// All columns have length Len().
type Rays struct {
	capacity int
	dropped  int
	staging  []Ray

	// Inputs.
	Origin     []Vec2
	Dir        []Vec2
	Wavelength []float64
	Color      []Color
	Index      []float64
	White      []bool

	// Outputs.
	Finished     []bool
	Collision    []Vec2
	Reflected    []Vec2
	Refracted    []Vec2
	Transmission []float64
	Owner        []int32
	NextIndex    []float64
}

// NewRays creates a store holding at most capacity rays. A capacity below 1
// uses DefaultCapacity.
func NewRays(capacity int) *Rays {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Rays{capacity: capacity}
}

// Len returns the active ray count.
func (r *Rays) Len() int { return len(r.Origin) }

// Cap returns the population ceiling.
func (r *Rays) Cap() int { return r.capacity }

// Staged returns the number of rays waiting to be committed.
func (r *Rays) Staged() int { return len(r.staging) }

// Dropped returns how many rays were discarded at the ceiling since the
// last Clear.
func (r *Rays) Dropped() int { return r.dropped }

// Stage queues a ray for the next Commit.
func (r *Rays) Stage(ray Ray) {
	r.staging = append(r.staging, ray)
}

// Commit appends staged rays to the active set and returns how many were
// added. Rays beyond the ceiling are dropped with a single warning; rays
// already present are left untouched.
func (r *Rays) Commit() int {
	room := r.capacity - r.Len()
	take := len(r.staging)
	if take > room {
		over := take - room
		take = room
		r.dropped += over
		Logger().Warn("ray population at capacity, dropping rays",
			"dropped", over, "capacity", r.capacity)
	}
	for _, ray := range r.staging[:take] {
		if ray.Index <= 0 {
			ray.Index = AmbientIndex
		}
		r.Origin = append(r.Origin, ray.Origin)
		r.Dir = append(r.Dir, ray.Dir)
		r.Wavelength = append(r.Wavelength, ray.Wavelength)
		r.Color = append(r.Color, ray.Color)
		r.Index = append(r.Index, ray.Index)
		r.White = append(r.White, ray.White)

		r.Finished = append(r.Finished, false)
		r.Collision = append(r.Collision, Vec2{X: -1, Y: -1})
		r.Reflected = append(r.Reflected, Vec2{})
		r.Refracted = append(r.Refracted, Vec2{})
		r.Transmission = append(r.Transmission, 0)
		r.Owner = append(r.Owner, 0)
		r.NextIndex = append(r.NextIndex, ray.Index)
	}
	clear(r.staging)
	r.staging = r.staging[:0]
	return take
}

// Truncate empties the active set and keeps staged rays.
func (r *Rays) Truncate() {
	r.Origin = r.Origin[:0]
	r.Dir = r.Dir[:0]
	r.Wavelength = r.Wavelength[:0]
	r.Color = r.Color[:0]
	r.Index = r.Index[:0]
	r.White = r.White[:0]
	r.Finished = r.Finished[:0]
	r.Collision = r.Collision[:0]
	r.Reflected = r.Reflected[:0]
	r.Refracted = r.Refracted[:0]
	r.Transmission = r.Transmission[:0]
	r.Owner = r.Owner[:0]
	r.NextIndex = r.NextIndex[:0]
}

// Clear empties the active set and the staging queue, and resets the drop
// counter.
func (r *Rays) Clear() {
	r.Truncate()
	clear(r.staging)
	r.staging = r.staging[:0]
	r.dropped = 0
}

// Ray returns the input state of ray i with its finished flag.
func (r *Rays) Ray(i int) Ray {
	if !checkIndex("ray", i, r.Len()) {
		return Ray{}
	}
	return Ray{
		Origin:     r.Origin[i],
		Dir:        r.Dir[i],
		Wavelength: r.Wavelength[i],
		Color:      r.Color[i],
		Index:      r.Index[i],
		Finished:   r.Finished[i],
		White:      r.White[i],
	}
}

// State returns the solver input of ray i.
func (r *Rays) State(i int) RayState {
	return RayState{
		Origin:     r.Origin[i],
		Dir:        r.Dir[i],
		Wavelength: r.Wavelength[i],
		Index:      r.Index[i],
		White:      r.White[i],
	}
}

// Outcome returns the solver output of ray i.
func (r *Rays) Outcome(i int) Outcome {
	return Outcome{
		Collision:    r.Collision[i],
		Reflected:    r.Reflected[i],
		Refracted:    r.Refracted[i],
		Transmission: r.Transmission[i],
		Owner:        r.Owner[i],
		NextIndex:    r.NextIndex[i],
		Finished:     r.Finished[i],
	}
}

// SetOutcome stores the solver output of ray i.
func (r *Rays) SetOutcome(i int, o Outcome) {
	r.Collision[i] = o.Collision
	r.Reflected[i] = o.Reflected
	r.Refracted[i] = o.Refracted
	r.Transmission[i] = o.Transmission
	r.Owner[i] = o.Owner
	r.NextIndex[i] = o.NextIndex
	r.Finished[i] = o.Finished
}
