package optics

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// NoMaterial marks an element without a dispersion profile. Such elements
// are pure mirrors.
const NoMaterial = -1

// Catalog errors.
var (
	ErrDuplicateProfile = errors.New("optics: duplicate material profile")
	ErrEmptyTag         = errors.New("optics: empty material tag")
)

// Coefficients holds the three-term Sellmeier constants. B terms are in
// square micrometres.
type Coefficients struct {
	A [3]float64
	B [3]float64
}

// Index evaluates the Sellmeier equation at a wavelength in micrometres.
func (c Coefficients) Index(lambdaMicrons float64) float64 {
	l2 := lambdaMicrons * lambdaMicrons
	n2 := 1.0
	for i := 0; i < 3; i++ {
		n2 += c.A[i] * l2 / (l2 - c.B[i])
	}
	return math.Sqrt(n2)
}

// Profile is a named, immutable dispersion profile with an optional
// wavelength cache for display-time lookups.
type Profile struct {
	tag    string
	coeffs Coefficients

	mu    sync.RWMutex
	keys  []float64 // nm
	index []float64
}

// NewProfile creates a profile.
func NewProfile(tag string, a, b [3]float64) *Profile {
	return &Profile{tag: tag, coeffs: Coefficients{A: a, B: b}}
}

// Tag returns the profile name.
func (p *Profile) Tag() string { return p.tag }

// Coefficients returns the Sellmeier constants.
func (p *Profile) Coefficients() Coefficients { return p.coeffs }

// Index returns the refractive index at a wavelength in micrometres.
func (p *Profile) Index(lambdaMicrons float64) float64 {
	return p.coeffs.Index(lambdaMicrons)
}

// IndexNM returns the refractive index at a wavelength in nanometres.
func (p *Profile) IndexNM(nm float64) float64 {
	return p.coeffs.Index(nm * 1e-3)
}

// BuildCache precomputes n indices for wavelengths start, start+step, ...
// in nanometres, replacing any previous cache.
func (p *Profile) BuildCache(start, step float64, n int) {
	if n < 0 {
		n = 0
	}
	keys := make([]float64, n)
	index := make([]float64, n)
	for i := range keys {
		nm := start + float64(i)*step
		keys[i] = nm
		index[i] = p.IndexNM(nm)
	}
	p.mu.Lock()
	p.keys, p.index = keys, index
	p.mu.Unlock()
}

// CachedIndex returns the cached index for nm, or the entry with the nearest
// key when nm is not cached exactly. Without a cache it evaluates the
// closed form.
func (p *Profile) CachedIndex(nm float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.keys) == 0 {
		return p.IndexNM(nm)
	}
	best := 0
	bestDist := math.Inf(1)
	for i, k := range p.keys {
		d := math.Abs(k - nm)
		if d == 0 {
			return p.index[i]
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return p.index[best]
}

// CacheLen returns the number of cached wavelengths.
func (p *Profile) CacheLen() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys)
}

// CachedWavelengths returns a copy of the cached wavelengths in nanometres.
func (p *Profile) CachedWavelengths() []float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]float64(nil), p.keys...)
}

// Catalog is an ordered set of profiles looked up by tag. The position of a
// profile in the catalog is its material index.
type Catalog struct {
	mu       sync.RWMutex
	profiles []*Profile
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Built-in profile tags.
const (
	CrownGlass        = "Crown Glass"
	Sapphire          = "Sapphire"
	FusedSilica       = "Fused Silica"
	MagnesiumFluoride = "Magnesium Fluoride"
	Water             = "Water"
)

// DefaultCatalog returns a catalog holding the built-in glass and crystal
// profiles.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	defaults := []struct {
		tag  string
		a, b [3]float64
	}{
		{CrownGlass, [3]float64{1.03961212, 0.231792344, 1.01146945}, [3]float64{0.00600069867, 0.0200179144, 103.560653}},
		{Sapphire, [3]float64{1.43134930, 0.65054713, 5.3414021}, [3]float64{0.0052799261, 0.0142382647, 325.017834}},
		{FusedSilica, [3]float64{0.6961663, 0.4079426, 0.8974794}, [3]float64{0.004679148, 0.01351206, 97.934}},
		{MagnesiumFluoride, [3]float64{0.48755108, 0.39875031, 2.3120353}, [3]float64{0.001882178, 0.008951888, 566.13559}},
		{Water, [3]float64{0.568908, 0.173945, 0.020397}, [3]float64{0.005101, 0.019199, 36.54681}},
	}
	for _, d := range defaults {
		_ = c.AddProfile(d.tag, d.a, d.b)
	}
	return c
}

// AddProfile registers a new profile.
func (c *Catalog) AddProfile(tag string, a, b [3]float64) error {
	if tag == "" {
		return ErrEmptyTag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.profiles {
		if p.tag == tag {
			return fmt.Errorf("%w: %q", ErrDuplicateProfile, tag)
		}
	}
	c.profiles = append(c.profiles, NewProfile(tag, a, b))
	return nil
}

// Profile returns the profile for tag.
func (c *Catalog) Profile(tag string) (*Profile, bool) {
	i := c.Index(tag)
	if i == NoMaterial {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profiles[i], true
}

// Index returns the material index of tag, or NoMaterial.
func (c *Catalog) Index(tag string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, p := range c.profiles {
		if p.tag == tag {
			return i
		}
	}
	return NoMaterial
}

// Profiles returns a snapshot of the catalog in index order.
func (c *Catalog) Profiles() []*Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Profile(nil), c.profiles...)
}

// Len returns the number of profiles.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.profiles)
}

// BuildCaches rebuilds every profile's cache over the spectrum wavelengths.
func (c *Catalog) BuildCaches(s *Spectrum) {
	for _, p := range c.Profiles() {
		p.BuildCache(s.Start(), s.Step(), s.Len())
	}
}
