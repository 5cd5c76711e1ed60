//go:build !nogpu

// Package gpu runs the ray collision and refraction kernel as a wgpu/hal
// compute shader.
//
// The shader in shaders/ray_solve.wgsl mirrors optics.SolveRay one
// invocation per ray. Inputs are packed into float32 storage buffers, so
// results agree with the CPU solver to single-precision rounding. Exact
// agreement is not attempted.
//
// # Buffers
//
//	binding 0  uniform  SolveParams  ray/edge counts, ambient index, bounds
//	binding 1  storage  RayIn[]      origin, direction, wavelength, index
//	binding 2  storage  EdgeIn[]     endpoints and owning element
//	binding 3  storage  i32[]        profile per element, -1 for mirrors
//	binding 4  storage  Profile[]    Sellmeier A and B terms
//	binding 5  storage  RayOut[]     written by the shader, read back
//
// The Solver is registered by the public github.com/gogpu/optics/gpu
// package. When no device is ready Solve returns optics.ErrFallbackToCPU.
package gpu
