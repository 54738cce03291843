// Package experiment runs the portal headless: a manual clock advanced by
// one frame interval per step, a scripted pointer, and recorder surfaces.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/metrics"
	"github.com/san-kum/portalsim/internal/sim"
	"github.com/san-kum/portalsim/internal/surface"
)

var ErrNoFrames = errors.New("experiment: frame count must be positive")

type Config struct {
	Portal     *config.Config
	Frames     int
	Seed       int64
	Pointer    string
	ClickEvery int
}

// FrameRecord is one row of a run's frame log.
type FrameRecord struct {
	Frame     int
	ElapsedMs float64
	Points    int
	Nodes     int
	Edges     int
	Particles int
	Fragments int
}

type Result struct {
	Seed      int64
	Frames    []FrameRecord
	Metrics   map[string]float64
	Fragments int
	Ripples   int
	Popups    int
}

// Particles returns the particle count series.
func (r *Result) Particles() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = float64(f.Particles)
	}
	return out
}

type counter struct {
	ripples, popups int
}

func (c *counter) Ripple(x, y float64)                { c.ripples++ }
func (c *counter) Fragment(x, y float64, text string) { c.popups++ }

type Experiment struct {
	cfg     Config
	clock   *sim.ManualClock
	coord   *sim.Coordinator
	path    PointerPath
	effects *counter
}

// New builds a coordinator for cfg. Nil layers are replaced by recorders.
func New(cfg Config, layers sim.Layers) (*Experiment, error) {
	if cfg.Frames <= 0 {
		return nil, ErrNoFrames
	}
	if cfg.Portal == nil {
		cfg.Portal = config.DefaultConfig()
	}
	if err := cfg.Portal.Validate(); err != nil {
		return nil, err
	}
	if cfg.Pointer == "" {
		cfg.Pointer = "orbit"
	}
	path, err := NewRegistry().GetPath(cfg.Pointer)
	if err != nil {
		return nil, err
	}

	vp := cfg.Portal.Viewport()
	if layers.Points == nil {
		layers.Points = surface.NewRecorder(vp.Width, vp.Height)
	}
	if layers.Terrain == nil {
		layers.Terrain = surface.NewRecorder(vp.Width, vp.Height)
	}
	if layers.Particles == nil {
		layers.Particles = surface.NewRecorder(vp.Width, vp.Height)
	}

	e := &Experiment{
		cfg:     cfg,
		clock:   sim.NewManualClock(time.Unix(0, 0)),
		path:    path,
		effects: &counter{},
	}
	opts := cfg.Portal.Options()
	opts.Rand = rand.New(rand.NewSource(cfg.Seed))
	opts.Clock = e.clock
	opts.Effects = e.effects
	coord, err := sim.New(layers, opts)
	if err != nil {
		return nil, fmt.Errorf("create coordinator: %w", err)
	}
	for _, m := range metrics.Defaults() {
		coord.AddMetric(m)
	}
	e.coord = coord
	return e, nil
}

func (e *Experiment) Coordinator() *sim.Coordinator { return e.coord }

// Run steps the configured number of frames, stopping early if ctx is done.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	res := &Result{Seed: e.cfg.Seed, Frames: make([]FrameRecord, 0, e.cfg.Frames)}
	interval := e.cfg.Portal.FrameInterval()
	vp := e.coord.Viewport()

	for i := 0; i < e.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			e.finish(res)
			return res, ctx.Err()
		default:
		}

		e.clock.Advance(interval)
		if x, y, ok := e.path(i, vp); ok {
			e.coord.PointerMove(x, y)
			if e.cfg.ClickEvery > 0 && i%e.cfg.ClickEvery == 0 {
				e.coord.Click(x, y)
			}
		}
		if !e.coord.Frame() {
			continue
		}
		s := e.coord.Stats()
		res.Frames = append(res.Frames, FrameRecord{
			Frame:     s.Frame,
			ElapsedMs: float64(s.Elapsed) / float64(time.Millisecond),
			Points:    s.Points,
			Nodes:     s.Nodes,
			Edges:     s.Edges,
			Particles: s.Particles,
			Fragments: s.Fragments,
		})
	}
	e.finish(res)
	return res, nil
}

func (e *Experiment) finish(res *Result) {
	res.Metrics = e.coord.MetricValues()
	res.Fragments = e.coord.Fragments()
	res.Ripples = e.effects.ripples
	res.Popups = e.effects.popups
}
