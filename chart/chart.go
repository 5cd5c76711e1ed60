// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package chart plots material dispersion and the simulation spectrum.
package chart

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/gogpu/optics"
)

// Errors returned by the plot builders.
var (
	ErrEmptyRange   = errors.New("chart: wavelength range needs min < max and at least 2 samples")
	ErrEmptyCatalog = errors.New("chart: catalog has no profiles")
	ErrNoSamples    = errors.New("chart: spectrum is empty")
)

// Default output size.
const (
	DefaultWidth  = 16 * vg.Centimeter
	DefaultHeight = 10 * vg.Centimeter
)

// Dispersion plots the refractive index of every catalog profile against
// wavelength in nanometres. Profiles with a wavelength cache also get one
// marker per cached sample inside the range, showing the indices the
// simulation solved with.
func Dispersion(cat *optics.Catalog, minNM, maxNM float64, samples int) (*plot.Plot, error) {
	if !(minNM < maxNM) || samples < 2 {
		return nil, ErrEmptyRange
	}
	if cat == nil || cat.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	p := plot.New()
	p.Title.Text = "Dispersion"
	p.X.Label.Text = "wavelength (nm)"
	p.Y.Label.Text = "refractive index"
	p.Add(plotter.NewGrid())

	nm := floats.Span(make([]float64, samples), minNM, maxNM)
	for i, prof := range cat.Profiles() {
		xys := make(plotter.XYs, samples)
		for k, w := range nm {
			xys[k] = plotter.XY{X: w, Y: prof.IndexNM(w)}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("chart: %s: %w", prof.Tag(), err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		p.Add(line)
		p.Legend.Add(prof.Tag(), line)

		if cached := CachedSamples(prof, minNM, maxNM); len(cached) > 0 {
			sc, err := plotter.NewScatter(cached)
			if err != nil {
				return nil, fmt.Errorf("chart: %s cache: %w", prof.Tag(), err)
			}
			sc.Color = line.Color
			sc.Radius = vg.Points(1.5)
			p.Add(sc)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// CachedSamples returns the cached (wavelength, index) pairs of prof that
// fall inside [minNM, maxNM], or nil when the profile has no cache.
func CachedSamples(prof *optics.Profile, minNM, maxNM float64) plotter.XYs {
	var xys plotter.XYs
	for _, nm := range prof.CachedWavelengths() {
		if nm < minNM || nm > maxNM {
			continue
		}
		xys = append(xys, plotter.XY{X: nm, Y: prof.CachedIndex(nm)})
	}
	return xys
}

// Spectrum plots the dispersion wavelength table as coloured dots, one per
// sample, at height 1.
func Spectrum(s *optics.Spectrum) (*plot.Plot, error) {
	if s == nil || s.Len() == 0 {
		return nil, ErrNoSamples
	}
	xys := make(plotter.XYs, s.Len())
	for i := range xys {
		nm, _ := s.At(i)
		xys[i] = plotter.XY{X: nm, Y: 1}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("chart: spectrum: %w", err)
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		_, c := s.At(i)
		return draw.GlyphStyle{Color: c, Radius: vg.Points(2), Shape: draw.CircleGlyph{}}
	}

	p := plot.New()
	p.Title.Text = "Spectrum"
	p.X.Label.Text = "wavelength (nm)"
	p.HideY()
	p.Add(sc)
	return p, nil
}

// Save writes p to path; the format follows the file extension (png, svg,
// pdf, ...). Zero sizes use the defaults.
func Save(p *plot.Plot, path string, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}
