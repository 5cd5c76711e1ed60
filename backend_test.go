package optics

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
)

// mockAccelerator implements Accelerator for testing.
type mockAccelerator struct {
	name     string
	initErr  error
	solveErr error
	provider any
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
	solves int
}

func (m *mockAccelerator) Name() string { return m.name }

func (m *mockAccelerator) Init() error { return m.initErr }

func (m *mockAccelerator) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockAccelerator) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockAccelerator) Solve(rays *Rays, edges *EdgeList, materials *MaterialTable) error {
	m.mu.Lock()
	m.solves++
	m.mu.Unlock()
	if m.solveErr != nil {
		return m.solveErr
	}
	return SerialBackend{}.Solve(rays, edges, materials)
}

func (m *mockAccelerator) SetLogger(l *slog.Logger) { m.logger = l }

func (m *mockAccelerator) SetDeviceProvider(provider any) error {
	m.provider = provider
	return nil
}

// resetAccelerator clears the global accelerator state between tests.
func resetAccelerator() {
	accelMu.Lock()
	accel = nil
	accelMu.Unlock()
}

// scatterScene fills a scene with mixed geometry and a fan of rays.
func scatterScene() *Scene {
	s := NewScene()
	s.Add(Element{Name: "prism", Shape: NewDemoPrism(200, math.Pi/3), Material: CrownGlass,
		Placement: Placement{Position: V2(400, 200)}})
	s.Add(Element{Name: "block", Shape: NewRegularPolygon(80, 6), Material: Sapphire,
		Placement: Placement{Position: V2(700, 500), Rotation: 0.2}})
	s.Add(Element{Name: "mirror", Shape: NewCircularArc(V2(900, 100), V2(950, 300), V2(900, 500)), Mirror: true})
	for i := range 40 {
		s.AddLight(MonoBeam(V2(50, 20+float64(i)*25), V2(1, 0.1*float64(i%7-3)), 400+float64(i)*7))
	}
	s.AddLight(PointLight(V2(600, 350), 520, 64))
	return s
}

func solveAll(t *testing.T, b Backend, s *Scene) *Rays {
	t.Helper()
	f := NewFrame(Rect{Width: 1200, Height: 800}, 0)
	f.Extract(s, DefaultCatalog())
	rays := NewRays(0)
	for _, l := range s.Lights() {
		l.Emit(AmbientIndex, rays.Stage)
	}
	// Replicate the population so the parallel backend splits it.
	for range 50 {
		for _, l := range s.Lights() {
			l.Emit(AmbientIndex, rays.Stage)
		}
	}
	rays.Commit()
	if err := b.Solve(rays, &f.EdgeList, &f.Materials); err != nil {
		t.Fatalf("%s.Solve() error = %v", b.Name(), err)
	}
	return rays
}

func TestParallelBackendMatchesSerial(t *testing.T) {
	s := scatterScene()
	want := solveAll(t, SerialBackend{}, s)

	pb := NewParallelBackend(4)
	t.Cleanup(pb.Close)
	if pb.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pb.Workers())
	}
	got := solveAll(t, pb, s)

	if got.Len() != want.Len() || got.Len() <= defaultBatch {
		t.Fatalf("populations %d and %d", got.Len(), want.Len())
	}
	for i := range want.Len() {
		if got.Outcome(i) != want.Outcome(i) {
			t.Fatalf("ray %d: parallel %+v, serial %+v", i, got.Outcome(i), want.Outcome(i))
		}
	}
}

func TestParallelBackendSmallPopulation(t *testing.T) {
	s := NewScene()
	s.AddLight(MonoBeam(V2(10, 10), V2(1, 0), 500))
	pb := NewParallelBackend(0)
	t.Cleanup(pb.Close)

	f := NewFrame(Rect{Width: 100, Height: 100}, 0)
	rays := NewRays(4)
	for _, l := range s.Lights() {
		l.Emit(AmbientIndex, rays.Stage)
	}
	rays.Commit()
	if err := pb.Solve(rays, &f.EdgeList, &f.Materials); err != nil {
		t.Fatal(err)
	}
	if !rays.Finished[0] || rays.Collision[0] != V2(100, 10) {
		t.Errorf("outcome = %+v", rays.Outcome(0))
	}
}

func TestRegisterAcceleratorNil(t *testing.T) {
	resetAccelerator()
	if err := RegisterAccelerator(nil); err == nil {
		t.Fatal("expected error when registering nil accelerator")
	}
	if RegisteredAccelerator() != nil {
		t.Error("accelerator should remain nil after failed registration")
	}
}

func TestRegisterAcceleratorInitError(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	first := &mockAccelerator{name: "first"}
	if err := RegisterAccelerator(first); err != nil {
		t.Fatal(err)
	}

	initErr := errors.New("no adapter")
	err := RegisterAccelerator(&mockAccelerator{name: "failing", initErr: initErr})
	if !errors.Is(err, initErr) {
		t.Errorf("RegisterAccelerator() error = %v, want %v", err, initErr)
	}
	if RegisteredAccelerator() != first || first.isClosed() {
		t.Error("failed registration changed the registered accelerator")
	}
}

func TestRegisterAcceleratorReplacesOld(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	first := &mockAccelerator{name: "first"}
	second := &mockAccelerator{name: "second"}
	if err := RegisterAccelerator(first); err != nil {
		t.Fatal(err)
	}
	if err := RegisterAccelerator(second); err != nil {
		t.Fatal(err)
	}
	if !first.isClosed() {
		t.Error("first accelerator should be closed after replacement")
	}
	if second.isClosed() {
		t.Error("second accelerator should not be closed")
	}
	if a := RegisteredAccelerator(); a == nil || a.Name() != "second" {
		t.Errorf("RegisteredAccelerator() = %v, want second", a)
	}
}

func TestSetAcceleratorDeviceProvider(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	if err := SetAcceleratorDeviceProvider("device"); err != nil {
		t.Errorf("without accelerator: %v", err)
	}

	mock := &mockAccelerator{name: "gpu"}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}
	if err := SetAcceleratorDeviceProvider("device"); err != nil {
		t.Fatal(err)
	}
	if mock.provider != "device" {
		t.Errorf("provider = %v, want device", mock.provider)
	}
}

func TestSimulationUsesAccelerator(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	mock := &mockAccelerator{name: "gpu"}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatal(err)
	}
	s := NewScene()
	s.AddLight(MonoBeam(V2(10, 10), V2(1, 0), 500))
	sim := NewSimulation(s, WithBounds(Rect{Width: 100, Height: 100}))

	if sim.Backend().Name() != "gpu" {
		t.Errorf("Backend().Name() = %q, want gpu", sim.Backend().Name())
	}
	if _, err := sim.RunFrame(); err != nil {
		t.Fatal(err)
	}
	if mock.solves != 1 {
		t.Errorf("accelerator solved %d times, want 1", mock.solves)
	}

	explicit := NewSimulation(s, WithBackend(SerialBackend{}))
	if explicit.Backend().Name() != "cpu" {
		t.Errorf("WithBackend ignored: %q", explicit.Backend().Name())
	}
}

func TestFallbackBackend(t *testing.T) {
	buf := captureLogs(t)

	s := NewScene()
	s.AddLight(MonoBeam(V2(10, 10), V2(1, 0), 500))
	mock := &mockAccelerator{name: "gpu", solveErr: ErrFallbackToCPU}
	sim := NewSimulation(s,
		WithBackend(fallbackBackend{primary: mock, cpu: SerialBackend{}}),
		WithBounds(Rect{Width: 100, Height: 100}))

	segs, err := sim.RunFrame()
	if err != nil {
		t.Fatalf("RunFrame() error = %v", err)
	}
	if len(segs) != 1 || segs[0].To != V2(100, 10) {
		t.Errorf("segments = %+v", segs)
	}
	if !strings.Contains(buf.String(), "using CPU") {
		t.Errorf("fallback not logged:\n%s", buf.String())
	}
}

func TestBackendErrorStopsFrame(t *testing.T) {
	s := NewScene()
	s.AddLight(MonoBeam(V2(10, 10), V2(1, 0), 500))
	boom := errors.New("device lost")
	sim := NewSimulation(s, WithBackend(fallbackBackend{
		primary: &mockAccelerator{name: "gpu", solveErr: boom},
		cpu:     SerialBackend{},
	}))

	_, err := sim.RunFrame()
	if !errors.Is(err, boom) {
		t.Fatalf("RunFrame() error = %v, want %v", err, boom)
	}
	if sim.State() != StateIdle {
		t.Errorf("State() = %v after failed frame, want idle", sim.State())
	}
}
