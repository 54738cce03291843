package automation

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/experiment"
	"github.com/san-kum/portalsim/internal/sim"
)

// sweepable maps a parameter name onto the config field it sets.
var sweepable = map[string]func(c *config.Config, v float64){
	"ripple_p":      func(c *config.Config, v float64) { c.Input.RippleP = v },
	"collect_p":     func(c *config.Config, v float64) { c.Input.CollectP = v },
	"link_distance": func(c *config.Config, v float64) { c.Terrain.LinkDistance = v },
	"link_p":        func(c *config.Config, v float64) { c.Terrain.LinkP = v },
	"points":        func(c *config.Config, v float64) { c.Field.Count = int(v) },
	"nodes":         func(c *config.Config, v float64) { c.Terrain.Count = int(v) },
	"spread":        func(c *config.Config, v float64) { c.Particles.Spread = v },
}

func SweepParams() []string {
	names := make([]string, 0, len(sweepable))
	for k := range sweepable {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParameterSweep runs one headless experiment per parameter value.
type ParameterSweep struct {
	Param      string
	Min, Max   float64
	NumSteps   int
	Frames     int
	Pointer    string
	ClickEvery int
	Seed       int64
}

type SweepResult struct {
	ParamValue    float64
	MeanParticles float64
	PeakParticles float64
	EdgeDensity   float64
	Fragments     int
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, out io.Writer) ([]SweepResult, error) {
	set, ok := sweepable[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.Param)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep
		cfg := *base
		set(&cfg, paramVal)

		exp, err := experiment.New(experiment.Config{
			Portal:     &cfg,
			Frames:     sweep.Frames,
			Seed:       sweep.Seed,
			Pointer:    sweep.Pointer,
			ClickEvery: sweep.ClickEvery,
		}, sim.Layers{})
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", sweep.Param, paramVal, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue:    paramVal,
			MeanParticles: res.Metrics["mean_particles"],
			PeakParticles: res.Metrics["peak_particles"],
			EdgeDensity:   res.Metrics["edge_density"],
			Fragments:     res.Fragments,
		})
		fmt.Fprintf(out, "Sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.Param, paramVal)
	}
	return results, nil
}
