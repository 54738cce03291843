// Package automation replays scripted input against a headless portal and
// sweeps configuration parameters.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/sim"
	"github.com/san-kum/portalsim/internal/surface"
)

var ErrUnknownAction = errors.New("automation: unknown action")

// Scenario defines a scripted input sequence.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Seed        int64          `yaml:"seed"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one input event. Frames on a move spreads the movement
// over that many frames, from the current pointer to (x, y).
type ScenarioStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Frames int     `yaml:"frames"`
}

// Report is what a replay leaves behind.
type Report struct {
	Frames      int
	Skipped     int
	Fragments   int
	Particles   int
	Ripples     int
	Popups      int
	Drones      int
	Planet      string
	Coordinates string
	Viewport    surface.Viewport
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	for i, step := range scenario.Steps {
		if _, ok := actions[step.Action]; !ok {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, step.Action)
		}
	}
	return &scenario, nil
}

type counter struct{ ripples, popups int }

func (c *counter) Ripple(x, y float64)                { c.ripples++ }
func (c *counter) Fragment(x, y float64, text string) { c.popups++ }

type replay struct {
	coord    *sim.Coordinator
	clock    *sim.ManualClock
	interval time.Duration
}

func (r *replay) frame() {
	r.clock.Advance(r.interval)
	r.coord.Frame()
}

var actions = map[string]func(r *replay, s ScenarioStep){
	"move": func(r *replay, s ScenarioStep) {
		if s.Frames <= 1 {
			r.coord.PointerMove(s.X, s.Y)
			return
		}
		x0, y0 := r.coord.Pointer()
		for i := 1; i <= s.Frames; i++ {
			t := float64(i) / float64(s.Frames)
			r.coord.PointerMove(x0+(s.X-x0)*t, y0+(s.Y-y0)*t)
			r.frame()
		}
	},
	"click":      func(r *replay, s ScenarioStep) { r.coord.Click(s.X, s.Y) },
	"resize":     func(r *replay, s ScenarioStep) { r.coord.Resize(s.Width, s.Height) },
	"regenerate": func(r *replay, s ScenarioStep) { r.coord.Regenerate() },
	"pause":      func(r *replay, s ScenarioStep) { r.coord.Pause() },
	"resume":     func(r *replay, s ScenarioStep) { r.coord.Resume() },
	"home":       func(r *replay, s ScenarioStep) { r.coord.ShowHome(true) },
	"away":       func(r *replay, s ScenarioStep) { r.coord.ShowHome(false) },
	"frames": func(r *replay, s ScenarioStep) {
		for range max(s.Frames, 1) {
			r.frame()
		}
	},
}

// RunScenario replays every step against a fresh coordinator built from
// cfg and writes one progress line per step to out.
func RunScenario(ctx context.Context, scenario *Scenario, cfg *config.Config, out io.Writer) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vp := cfg.Viewport()
	layers := sim.Layers{
		Points:    surface.NewRecorder(vp.Width, vp.Height),
		Terrain:   surface.NewRecorder(vp.Width, vp.Height),
		Particles: surface.NewRecorder(vp.Width, vp.Height),
	}
	effects := &counter{}
	clock := sim.NewManualClock(time.Unix(0, 0))
	opts := cfg.Options()
	opts.Rand = rand.New(rand.NewSource(scenario.Seed))
	opts.Clock = clock
	opts.Effects = effects
	coord, err := sim.New(layers, opts)
	if err != nil {
		return nil, err
	}
	r := &replay{coord: coord, clock: clock, interval: cfg.FrameInterval()}

	for i, step := range scenario.Steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		act, ok := actions[step.Action]
		if !ok {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, step.Action)
		}
		act(r, step)
		fmt.Fprintf(out, "step %d/%d: %-10s frames=%d particles=%d fragments=%d\n",
			i+1, len(scenario.Steps), step.Action, coord.Frames(), coord.Stats().Particles, coord.Fragments())
	}

	amb := coord.Ambient()
	return &Report{
		Frames:      coord.Frames(),
		Skipped:     coord.SkippedFrames(),
		Fragments:   coord.Fragments(),
		Particles:   coord.Stats().Particles,
		Ripples:     effects.ripples,
		Popups:      effects.popups,
		Drones:      amb.Drones,
		Planet:      amb.Planet,
		Coordinates: coord.Coordinates(),
		Viewport:    coord.Viewport(),
	}, nil
}
