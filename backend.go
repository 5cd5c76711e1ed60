package optics

import (
	"errors"
	"sync"

	"github.com/gogpu/optics/internal/parallel"
)

// ErrFallbackToCPU indicates an accelerator cannot run this solve. The
// caller should repeat it on a CPU backend.
var ErrFallbackToCPU = errors.New("optics: falling back to CPU solver")

// Backend runs SolveRay over every active ray, writing the output columns
// of rays. Implementations must produce the same outcomes as SolveRay and
// must not touch the input columns.
type Backend interface {
	Name() string
	Solve(rays *Rays, edges *EdgeList, materials *MaterialTable) error
}

// SerialBackend solves rays one after another on the calling goroutine.
type SerialBackend struct{}

// Name implements Backend.
func (SerialBackend) Name() string { return "cpu" }

// Solve implements Backend.
func (SerialBackend) Solve(rays *Rays, edges *EdgeList, materials *MaterialTable) error {
	solveRange(rays, edges, materials, 0, rays.Len())
	return nil
}

func solveRange(rays *Rays, edges *EdgeList, materials *MaterialTable, lo, hi int) {
	for i := lo; i < hi; i++ {
		rays.SetOutcome(i, SolveRay(rays.State(i), edges, materials))
	}
}

// defaultBatch is the ray count per parallel work item.
const defaultBatch = 1024

// ParallelBackend splits the population into batches solved on a worker
// pool. Each batch writes only its own output slots.
type ParallelBackend struct {
	pool  *parallel.WorkerPool
	batch int
}

// NewParallelBackend starts a backend with the given worker count
// (<= 0 for GOMAXPROCS). Call Close to stop the workers.
func NewParallelBackend(workers int) *ParallelBackend {
	return &ParallelBackend{pool: parallel.NewWorkerPool(workers), batch: defaultBatch}
}

// Name implements Backend.
func (b *ParallelBackend) Name() string { return "cpu-parallel" }

// Workers returns the worker count.
func (b *ParallelBackend) Workers() int { return b.pool.Workers() }

// Solve implements Backend.
func (b *ParallelBackend) Solve(rays *Rays, edges *EdgeList, materials *MaterialTable) error {
	n := rays.Len()
	if n <= b.batch {
		solveRange(rays, edges, materials, 0, n)
		return nil
	}
	b.pool.ForEach(n, b.batch, func(lo, hi int) {
		solveRange(rays, edges, materials, lo, hi)
	})
	return nil
}

// Close stops the worker pool.
func (b *ParallelBackend) Close() { b.pool.Close() }

// Accelerator is a Backend backed by hardware resources. It may return
// ErrFallbackToCPU from Solve.
//
// Accelerators are registered by blank-importing their package:
//
//	import _ "github.com/gogpu/optics/gpu"
type Accelerator interface {
	Backend

	// Init acquires resources. Called once by RegisterAccelerator.
	Init() error

	// Close releases resources.
	Close()
}

// DeviceProviderAware is implemented by accelerators that can run on a GPU
// device owned by a host application.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator initializes a and makes it the registered
// accelerator, closing any previous one. If Init fails nothing changes.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("optics: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	propagateLogger(a, Logger())
	Logger().Info("accelerator registered", "name", a.Name())
	return nil
}

// RegisteredAccelerator returns the registered accelerator, or nil.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	defer accelMu.RUnlock()
	return accel
}

// SetAcceleratorDeviceProvider hands a host GPU device to the registered
// accelerator. It is a no-op without an accelerator or when the accelerator
// cannot share devices.
func SetAcceleratorDeviceProvider(provider any) error {
	a := RegisteredAccelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}

// fallbackBackend tries primary and repeats the solve on cpu when primary
// asks for it.
type fallbackBackend struct {
	primary Backend
	cpu     Backend
}

func (f fallbackBackend) Name() string { return f.primary.Name() }

func (f fallbackBackend) Solve(rays *Rays, edges *EdgeList, materials *MaterialTable) error {
	err := f.primary.Solve(rays, edges, materials)
	if errors.Is(err, ErrFallbackToCPU) {
		Logger().Warn("accelerator declined solve, using CPU", "backend", f.primary.Name(), "rays", rays.Len())
		return f.cpu.Solve(rays, edges, materials)
	}
	return err
}
