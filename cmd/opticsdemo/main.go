// Command opticsdemo traces a demo optical bench and writes the frame as PNG.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gogpu/optics"
	"github.com/gogpu/optics/chart"
	_ "github.com/gogpu/optics/gpu"
	"github.com/gogpu/optics/render"
)

func main() {
	var (
		width       = flag.Int("width", 1920, "image width")
		height      = flag.Int("height", 1080, "image height")
		output      = flag.String("output", "optics.png", "output file")
		chartOut    = flag.String("chart", "", "write a dispersion chart to this file (png, svg, pdf)")
		frames      = flag.Int("frames", 1, "frames to trace; the demo prism apex oscillates between frames")
		bounces     = flag.Int("bounces", optics.DefaultMaxBounces, "bounce budget per frame")
		samples     = flag.Int("samples", optics.DefaultSpectrumSamples, "dispersion spectrum samples")
		workers     = flag.Int("workers", 0, "CPU workers; 0 uses the GPU solver when available")
		blend       = flag.String("blend", "max", "segment blend mode: max or add")
		supersample = flag.Int("supersample", render.DefaultSupersample, "supersampling factor")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	optics.SetLogger(logger)

	if err := run(logger, config{
		width: *width, height: *height,
		output: *output, chart: *chartOut,
		frames: *frames, bounces: *bounces, samples: *samples,
		workers: *workers, blend: *blend, supersample: *supersample,
	}); err != nil {
		logger.Error("opticsdemo failed", "err", err)
		os.Exit(1)
	}
}

type config struct {
	width, height int
	output, chart string
	frames        int
	bounces       int
	samples       int
	workers       int
	blend         string
	supersample   int
}

func run(logger *slog.Logger, cfg config) error {
	mode, err := parseBlend(cfg.blend)
	if err != nil {
		return err
	}

	b := newBench(float64(cfg.width), float64(cfg.height))
	opts := []optics.Option{
		optics.WithBounds(optics.Rect{Width: float64(cfg.width), Height: float64(cfg.height)}),
		optics.WithMaxBounces(cfg.bounces),
		optics.WithSpectrum(optics.NewSpectrum(optics.DefaultSpectrumStart, optics.DefaultSpectrumEnd, cfg.samples)),
	}
	if cfg.workers > 0 {
		pb := optics.NewParallelBackend(cfg.workers)
		defer pb.Close()
		opts = append(opts, optics.WithBackend(pb))
	}
	sim := optics.NewSimulation(b.scene, opts...)

	r := render.NewRenderer(render.WithBlend(mode), render.WithSupersample(cfg.supersample))
	target := render.NewPixmapTarget(cfg.width, cfg.height)

	for f := range max(cfg.frames, 1) {
		if f > 0 {
			if err := b.oscillate(); err != nil {
				return err
			}
		}
		start := time.Now()
		segs, err := sim.RunFrame()
		if err != nil {
			return fmt.Errorf("frame %d: %w", f, err)
		}
		st := sim.Stats()
		logger.Info("frame traced",
			"frame", f, "backend", sim.Backend().Name(), "segments", len(segs),
			"bounces", st.Bounces, "dispersed", st.Dispersed, "dropped", st.Dropped,
			"elapsed", time.Since(start))

		if err := r.RenderSimulation(target, sim); err != nil {
			return err
		}
		path := framePath(cfg.output, f, cfg.frames)
		if err := render.SavePNG(path, target.Image()); err != nil {
			return err
		}
		logger.Info("frame saved", "path", path)
	}

	if cfg.chart != "" {
		p, err := chart.Dispersion(sim.Catalog(), optics.DefaultSpectrumStart, optics.DefaultSpectrumEnd, 200)
		if err != nil {
			return err
		}
		if err := chart.Save(p, cfg.chart, 0, 0); err != nil {
			return err
		}
		logger.Info("chart saved", "path", cfg.chart)
	}
	return nil
}

func parseBlend(s string) (render.BlendMode, error) {
	switch strings.ToLower(s) {
	case "max":
		return render.BlendMax, nil
	case "add":
		return render.BlendAdd, nil
	default:
		return 0, fmt.Errorf("unknown blend mode %q", s)
	}
}

// framePath numbers the output file when more than one frame is written.
func framePath(base string, frame, frames int) string {
	if frames <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(base, ext), frame, ext)
}

// bench is the demo scene: a dispersing prism fed by a white beam, a lens,
// a hexagonal sapphire block and a curved mirror.
type bench struct {
	scene *optics.Scene
	prism optics.ElementID
	beam  optics.LightID
	osc   *optics.AlphaOscillator
}

func newBench(w, h float64) *bench {
	s := optics.NewScene()
	glass := optics.Color{R: 120, G: 160, B: 220, A: 60}
	edge := optics.Color{R: 200, G: 220, B: 255, A: 200}

	prism := s.Add(optics.Element{
		Name:      "prism",
		Shape:     optics.NewDemoPrism(w*0.16, math.Pi/3),
		Placement: optics.Placement{Position: optics.V2(w*0.3, h*0.4)},
		Material:  optics.CrownGlass,
		Fill:      glass,
		Outline:   edge,
	})
	s.Add(optics.Element{
		Name:      "lens",
		Shape:     optics.NewLens(w*0.04, h*0.3, w*0.015, w*0.015),
		Placement: optics.Placement{Position: optics.V2(w*0.6, h*0.45)},
		Material:  optics.FusedSilica,
		Fill:      glass,
		Outline:   edge,
	})
	s.Add(optics.Element{
		Name:      "block",
		Shape:     optics.NewRegularPolygon(h*0.08, 6),
		Placement: optics.Placement{Position: optics.V2(w*0.45, h*0.8), Rotation: math.Pi / 12},
		Material:  optics.Sapphire,
		Fill:      glass,
		Outline:   edge,
	})
	s.Add(optics.Element{
		Name:    "mirror",
		Shape:   optics.NewCircularArc(optics.V2(w*0.82, h*0.15), optics.V2(w*0.9, h*0.5), optics.V2(w*0.82, h*0.85)),
		Mirror:  true,
		Outline: optics.Color{R: 230, G: 230, B: 230, A: 255},
	})

	s.AddLight(optics.MonoBeam(optics.V2(w*0.05, h*0.55), optics.V2(1, -0.05), 650))
	s.AddLight(optics.PointLight(optics.V2(w*0.1, h*0.9), 450, 24))

	b := &bench{scene: s, prism: prism, osc: optics.NewAlphaOscillator()}
	e, err := s.Element(prism)
	if err == nil {
		var beam optics.Light
		if beam, err = optics.DemoPrismBeam(&e, optics.DefaultIncidentAngle); err == nil {
			b.beam = s.AddLight(beam)
		}
	}
	if err != nil {
		optics.Logger().Warn("demo prism beam not placed", "err", err)
	}
	return b
}

// oscillate advances the prism apex angle and re-aims its beam.
func (b *bench) oscillate() error {
	var alpha float64
	if err := b.scene.Update(b.prism, func(e *optics.Element) {
		e.Shape.Prism.Alpha = b.osc.Next(e.Shape.Prism.Alpha)
		alpha = e.Shape.Prism.Alpha
	}); err != nil {
		return fmt.Errorf("oscillate prism: %w", err)
	}
	e, err := b.scene.Element(b.prism)
	if err != nil {
		return err
	}
	beam, err := optics.DemoPrismBeam(&e, optics.DefaultIncidentAngle)
	if err != nil {
		return err
	}
	optics.Logger().Debug("prism oscillated", "alpha", alpha)
	return b.scene.UpdateLight(b.beam, func(l *optics.Light) { *l = beam })
}
