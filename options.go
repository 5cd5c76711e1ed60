package optics

// Option configures a Simulation.
//
// Example:
//
//	sim := optics.NewSimulation(scene,
//	    optics.WithBounds(optics.Rect{Width: 1280, Height: 720}),
//	    optics.WithMaxBounces(20),
//	)
type Option func(*options)

// Simulation defaults.
const (
	DefaultMaxBounces          = 15
	DefaultBrightnessThreshold = 0.5
	DefaultLossFactor          = 1.0
	DefaultSpawnOffset         = 1.0
)

type options struct {
	backend    Backend
	catalog    *Catalog
	spectrum   *Spectrum
	capacity   int
	maxBounces int
	maxEdges   int
	threshold  float64
	loss       float64
	offset     float64
	bounds     Rect
}

func defaultOptions() options {
	return options{
		capacity:   DefaultCapacity,
		maxBounces: DefaultMaxBounces,
		maxEdges:   DefaultMaxEdges,
		threshold:  DefaultBrightnessThreshold,
		loss:       DefaultLossFactor,
		offset:     DefaultSpawnOffset,
		bounds:     Rect{Width: 1920, Height: 1080},
	}
}

// WithBackend selects the solver backend. Without it the registered
// accelerator is used when present, with CPU fallback, and SerialBackend
// otherwise.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithCatalog sets the material catalog. Defaults to DefaultCatalog().
func WithCatalog(c *Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithSpectrum sets the wavelength table used for dispersion events.
// Defaults to DefaultSpectrum().
func WithSpectrum(s *Spectrum) Option {
	return func(o *options) {
		o.spectrum = s
	}
}

// WithCapacity sets the ray population ceiling.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMaxBounces sets the per-frame bounce budget.
func WithMaxBounces(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxBounces = n
		}
	}
}

// WithMaxEdges caps the per-frame edge count.
func WithMaxEdges(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEdges = n
		}
	}
}

// WithBrightnessThreshold sets the luma (0-255) below which child rays are
// not spawned.
func WithBrightnessThreshold(luma float64) Option {
	return func(o *options) {
		o.threshold = luma
	}
}

// WithLossFactor sets the colour multiplier for mirror and total internal
// reflections.
func WithLossFactor(f float64) Option {
	return func(o *options) {
		o.loss = f
	}
}

// WithSpawnOffset sets how far child rays start from their collision point.
func WithSpawnOffset(d float64) Option {
	return func(o *options) {
		o.offset = d
	}
}

// WithBounds sets the rectangle that terminates rays leaving the scene.
func WithBounds(r Rect) Option {
	return func(o *options) {
		o.bounds = r
	}
}
