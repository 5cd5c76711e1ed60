// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns a traced frame into pixels.
//
// A Renderer draws the scene elements as filled, outlined bodies and then
// every ray segment of the frame as an anti-aliased hairline into a light
// accumulator. Rendering happens at a supersampled resolution and is
// filtered down to the target size.
//
// # Usage
//
//	sim := optics.NewSimulation(scene)
//	if _, err := sim.RunFrame(); err != nil {
//		return err
//	}
//	target := render.NewPixmapTarget(1920, 1080)
//	render.NewRenderer().RenderSimulation(target, sim)
//	err := render.SavePNG("frame.png", target.Image())
//
// # Blending
//
// Segments combine with BlendMax by default, so overlapping rays of the
// same colour do not saturate. BlendAdd sums them, which brightens caustics.
package render
