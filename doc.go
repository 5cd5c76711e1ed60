// Package optics traces light through a 2D scene of dispersive optical
// elements.
//
// # Overview
//
// A Scene holds elements (prisms, lenses, polygons, arc mirrors) and light
// sources. A Simulation snapshots the scene into edges every frame, then
// repeatedly solves every active ray against those edges: each ray yields
// a path segment and, depending on what it hit, reflected, refracted or
// dispersed child rays. Refractive indices follow the Sellmeier equation,
// so different wavelengths bend by different amounts and a white ray
// splits into a spectrum at the first glass surface it meets.
//
// # Quick Start
//
//	scene := optics.NewScene()
//	scene.Add(optics.Element{
//		Shape:     optics.NewRegularPolygon(120, 3),
//		Placement: optics.Placement{Position: optics.V2(960, 540)},
//		Material:  optics.CrownGlass,
//	})
//	scene.AddLight(optics.WhiteBeam(optics.V2(100, 600), optics.V2(1, -0.1)))
//
//	sim := optics.NewSimulation(scene)
//	segments, err := sim.RunFrame()
//
// # Backends
//
// The per-ray kernel runs on a Backend. SerialBackend and ParallelBackend
// run on the CPU. Importing github.com/gogpu/optics/gpu registers a GPU
// compute backend, used automatically when a device is available.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
package optics

// Version is the current version of the library.
const Version = "0.1.0"
