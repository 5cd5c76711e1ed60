// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/internal/raster"
)

// ErrEmptyTarget is returned when rendering into a zero-sized target.
var ErrEmptyTarget = errors.New("render: target has no pixels")

// BlendMode selects how overlapping ray segments combine.
type BlendMode uint8

const (
	// BlendMax keeps the brightest contribution per channel.
	BlendMax BlendMode = iota
	// BlendAdd sums contributions, saturating at white.
	BlendAdd
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendMax:
		return "max"
	case BlendAdd:
		return "add"
	default:
		return "unknown"
	}
}

// Default renderer settings.
const (
	DefaultSupersample = 2
	maxSupersample     = 8
)

// Renderer rasterizes frames. A Renderer may be reused across frames but is
// not safe for concurrent use.
type Renderer struct {
	supersample int
	background  color.Color
	blend       BlendMode
	fills       bool
	outlines    bool
	intensity   float64
	filter      xdraw.Interpolator
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSupersample sets the supersampling factor (1 disables it).
func WithSupersample(n int) Option {
	return func(r *Renderer) {
		r.supersample = min(max(n, 1), maxSupersample)
	}
}

// WithBackground sets the clear colour.
func WithBackground(c color.Color) Option {
	return func(r *Renderer) {
		if c != nil {
			r.background = c
		}
	}
}

// WithBlend sets the segment blend mode.
func WithBlend(m BlendMode) Option {
	return func(r *Renderer) {
		r.blend = m
	}
}

// WithFills enables or disables element bodies.
func WithFills(on bool) Option {
	return func(r *Renderer) {
		r.fills = on
	}
}

// WithOutlines enables or disables element outlines.
func WithOutlines(on bool) Option {
	return func(r *Renderer) {
		r.outlines = on
	}
}

// WithIntensity scales ray coverage, in (0, 1].
func WithIntensity(f float64) Option {
	return func(r *Renderer) {
		if f > 0 && f <= 1 {
			r.intensity = f
		}
	}
}

// WithFilter sets the downsampling filter, for example xdraw.CatmullRom.
func WithFilter(f xdraw.Interpolator) Option {
	return func(r *Renderer) {
		if f != nil {
			r.filter = f
		}
	}
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		supersample: DefaultSupersample,
		background:  color.Black,
		blend:       BlendMax,
		fills:       true,
		outlines:    true,
		intensity:   1,
		filter:      xdraw.BiLinear,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderSimulation draws the scene and the last traced frame of sim,
// mapping the simulation bounds onto the target.
func (r *Renderer) RenderSimulation(t *PixmapTarget, sim *optics.Simulation) error {
	return r.Render(t, sim.Scene(), sim.Segments(), sim.Frame().Bounds)
}

// Render draws scene elements and segments into t. view is the world
// rectangle mapped onto the whole target; an empty view maps world units
// to pixels one to one.
func (r *Renderer) Render(t *PixmapTarget, scene *optics.Scene, segments []optics.Segment, view optics.Rect) error {
	w, h := t.Width(), t.Height()
	if w <= 0 || h <= 0 {
		return ErrEmptyTarget
	}
	s := r.supersample
	m := newMapping(view, w, h, s)

	canvas := t.Image()
	if s > 1 {
		canvas = image.NewRGBA(image.Rect(0, 0, w*s, h*s))
	}
	xdraw.Draw(canvas, canvas.Bounds(), image.NewUniform(r.background), image.Point{}, xdraw.Src)

	if scene != nil {
		if r.fills {
			r.drawFills(canvas, scene, m)
		}
		if r.outlines {
			r.drawOutlines(canvas, scene, m)
		}
	}
	r.drawSegments(canvas, segments, m)

	if s > 1 {
		dst := t.Image()
		r.filter.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	}
	optics.Logger().Debug("frame rendered",
		"width", w, "height", h, "supersample", s, "segments", len(segments), "blend", r.blend.String())
	return nil
}

// drawFills paints closed element bodies with their fill colour.
func (r *Renderer) drawFills(canvas *image.RGBA, scene *optics.Scene, m mapping) {
	b := canvas.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, e := range scene.Elements() {
		if e.Fill.A == 0 || !e.Shape.Closed() {
			continue
		}
		ring := e.WorldRing()
		if len(ring) < 3 {
			continue
		}
		z.Reset(b.Dx(), b.Dy())
		z.DrawOp = xdraw.Over
		if tris := e.Triangles(); len(tris) >= 3 {
			for i := 0; i+2 < len(tris); i += 3 {
				tracePath(z, m, ring[tris[i]], ring[tris[i+1]], ring[tris[i+2]])
			}
		} else {
			tracePath(z, m, ring...)
		}
		z.Draw(canvas, b, image.NewUniform(e.Fill), image.Point{})
	}
}

func tracePath(z *vector.Rasterizer, m mapping, pts ...optics.Vec2) {
	p := m.apply(pts[0])
	z.MoveTo(float32(p.X), float32(p.Y))
	for _, v := range pts[1:] {
		p = m.apply(v)
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

// drawOutlines strokes every element boundary with its outline colour.
func (r *Renderer) drawOutlines(canvas *image.RGBA, scene *optics.Scene, m mapping) {
	b := canvas.Bounds()
	acc := raster.NewAccumulator(b.Dx(), b.Dy(), raster.BlendMax)
	drawn := false
	for _, e := range scene.Elements() {
		if e.Outline.A == 0 {
			continue
		}
		ring := e.WorldRing()
		if len(ring) < 2 {
			continue
		}
		pts := make([]raster.Point, 0, len(ring)+1)
		for _, v := range ring {
			pts = append(pts, m.point(v))
		}
		if e.Shape.Closed() {
			pts = append(pts, pts[0])
		}
		acc.SetColor(nrgba(e.Outline))
		for _, off := range m.offsets {
			shifted := make([]raster.Point, len(pts))
			for i, p := range pts {
				shifted[i] = raster.Point{X: p.X + off, Y: p.Y + off}
			}
			raster.Polyline(acc, shifted, 1)
		}
		drawn = true
	}
	if drawn {
		acc.Resolve(canvas)
	}
}

// drawSegments accumulates every ray segment as light.
func (r *Renderer) drawSegments(canvas *image.RGBA, segments []optics.Segment, m mapping) {
	if len(segments) == 0 {
		return
	}
	b := canvas.Bounds()
	mode := raster.BlendMax
	if r.blend == BlendAdd {
		mode = raster.BlendAdd
	}
	acc := raster.NewAccumulator(b.Dx(), b.Dy(), mode)
	for _, seg := range segments {
		acc.SetColor(nrgba(seg.Color))
		p0, p1 := m.point(seg.From), m.point(seg.To)
		// widen to one output pixel: one hairline per supersample row
		dx, dy := p1.X-p0.X, p1.Y-p0.Y
		horizontal := dx*dx > dy*dy
		for _, off := range m.offsets {
			q0, q1 := p0, p1
			if horizontal {
				q0.Y += off
				q1.Y += off
			} else {
				q0.X += off
				q1.X += off
			}
			raster.Line(acc, q0, q1, r.intensity)
		}
	}
	acc.Resolve(canvas)
}

func nrgba(c optics.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// mapping converts world coordinates to canvas pixels.
type mapping struct {
	left, top float64
	sx, sy    float64
	offsets   []float64
}

func newMapping(view optics.Rect, w, h, s int) mapping {
	m := mapping{sx: float64(s), sy: float64(s)}
	if view.Width > 0 && view.Height > 0 {
		m.left, m.top = view.Left, view.Top
		m.sx = float64(w*s) / view.Width
		m.sy = float64(h*s) / view.Height
	}
	m.offsets = make([]float64, s)
	for k := range s {
		m.offsets[k] = float64(k) - float64(s-1)/2
	}
	return m
}

func (m mapping) apply(v optics.Vec2) optics.Vec2 {
	return optics.Vec2{X: (v.X - m.left) * m.sx, Y: (v.Y - m.top) * m.sy}
}

func (m mapping) point(v optics.Vec2) raster.Point {
	p := m.apply(v)
	return raster.Point{X: p.X, Y: p.Y}
}
