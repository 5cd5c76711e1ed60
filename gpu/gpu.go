//go:build !nogpu

// Package gpu registers the GPU ray solver.
//
// Import this package to run the collision/refraction kernel as a wgpu/hal
// compute shader:
//
//	import _ "github.com/gogpu/optics/gpu"
//
// If no Vulkan adapter can be opened the registration is skipped and
// simulations keep solving on the CPU.
package gpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/optics"
	gpuimpl "github.com/gogpu/optics/internal/gpu"
)

func init() {
	if err := optics.RegisterAccelerator(&gpuimpl.Solver{}); err != nil {
		optics.Logger().Warn("GPU solver not available", "err", err)
	}
}

// SetDeviceProvider makes the GPU solver share the device of a host
// application (for example a gogpu window) instead of its own. The
// provider must also expose HalDevice() and HalQueue() for direct HAL
// access.
func SetDeviceProvider(provider gpucontext.DeviceProvider) error {
	return optics.SetAcceleratorDeviceProvider(provider)
}
