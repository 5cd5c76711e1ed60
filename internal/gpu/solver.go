//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/optics"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

//go:embed shaders/ray_solve.wgsl
var raySolveShaderSource string

// GPU record sizes in bytes, matching the WGSL structs.
const (
	paramsSize    = 32
	rayInSize     = 32
	edgeInSize    = 24
	profileSize   = 32
	rayOutSize    = 40
	workgroupSize = 64

	fenceTimeout = 5 * time.Second
)

var errNoAdapter = errors.New("gpu-solver: no GPU adapters found")

// Solver runs the ray kernel as a wgpu/hal compute shader. It implements
// optics.Accelerator. Precision is float32, so outcomes match the CPU
// solver to within single-precision rounding.
type Solver struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // shared device, not destroyed on Close
}

var _ optics.Accelerator = (*Solver)(nil)

// Name implements optics.Backend.
func (s *Solver) Name() string { return "gpu-solver" }

// SetLogger receives the logger from optics.SetLogger.
func (s *Solver) SetLogger(l *slog.Logger) { setLogger(l) }

// Init opens a GPU device and builds the compute pipeline.
func (s *Solver) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initGPU(); err != nil {
		s.releaseDevice()
		return fmt.Errorf("gpu-solver: init: %w", err)
	}
	return nil
}

// Close releases all GPU resources it owns.
func (s *Solver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyPipeline()
	s.releaseDevice()
}

func (s *Solver) releaseDevice() {
	if !s.externalDevice {
		if s.device != nil {
			s.device.Destroy()
		}
		if s.instance != nil {
			s.instance.Destroy()
		}
	}
	s.device = nil
	s.instance = nil
	s.queue = nil
	s.gpuReady = false
	s.externalDevice = false
}

// SetDeviceProvider switches the solver to a device owned by the host. The
// provider must expose HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (s *Solver) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu-solver: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu-solver: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu-solver: provider HalQueue is not hal.Queue")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyPipeline()
	s.releaseDevice()

	s.device = device
	s.queue = queue
	s.externalDevice = true
	if err := s.createPipeline(); err != nil {
		s.gpuReady = false
		return fmt.Errorf("gpu-solver: create pipeline with shared device: %w", err)
	}
	s.gpuReady = true
	slogger().Info("gpu-solver: switched to shared GPU device")
	return nil
}

// Solve implements optics.Backend. It returns optics.ErrFallbackToCPU when
// no device is ready.
func (s *Solver) Solve(rays *optics.Rays, edges *optics.EdgeList, materials *optics.MaterialTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.gpuReady {
		return optics.ErrFallbackToCPU
	}
	n := rays.Len()
	if n == 0 {
		return nil
	}
	out, err := s.dispatch(n, packParams(n, edges), packRays(rays), packEdges(edges), packOwners(materials), packProfiles(materials))
	if err != nil {
		return err
	}
	unpackOutcomes(out, rays)
	return nil
}

func (s *Solver) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	s.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	s.device = openDev.Device
	s.queue = openDev.Queue
	if err := s.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}
	s.gpuReady = true
	slogger().Info("gpu-solver: initialized", "adapter", selected.Info.Name)
	return nil
}

// compileShader compiles WGSL to little-endian SPIR-V words.
func compileShader(src string) ([]uint32, error) {
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile ray_solve shader: %w", err)
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}

func (s *Solver) createPipeline() error {
	code, err := compileShader(raySolveShaderSource)
	if err != nil {
		return err
	}
	shader, err := s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ray_solve",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	s.shader = shader

	storageRO := &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}
	bindLayout, err := s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ray_solve_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: storageRO},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: storageRO},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: storageRO},
			{Binding: 4, Visibility: gputypes.ShaderStageCompute, Buffer: storageRO},
			{Binding: 5, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	s.bindLayout = bindLayout

	pipeLayout, err := s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "ray_solve_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{s.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	s.pipeLayout = pipeLayout

	pipeline, err := s.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "ray_solve_pipeline", Layout: s.pipeLayout,
		Compute: hal.ComputeState{Module: s.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	s.pipeline = pipeline
	return nil
}

func (s *Solver) destroyPipeline() {
	if s.device == nil {
		return
	}
	if s.pipeline != nil {
		s.device.DestroyComputePipeline(s.pipeline)
		s.pipeline = nil
	}
	if s.pipeLayout != nil {
		s.device.DestroyPipelineLayout(s.pipeLayout)
		s.pipeLayout = nil
	}
	if s.bindLayout != nil {
		s.device.DestroyBindGroupLayout(s.bindLayout)
		s.bindLayout = nil
	}
	if s.shader != nil {
		s.device.DestroyShaderModule(s.shader)
		s.shader = nil
	}
}
