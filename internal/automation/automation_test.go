package automation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/portalsim/internal/config"
)

const scenarioYAML = `
name: walkthrough
description: trail across the portal, leave and come back
seed: 4
steps:
  - action: move
    x: 100
    y: 100
  - action: move
    x: 500
    y: 300
    frames: 20
  - action: click
    x: 500
    y: 300
  - action: frames
    frames: 10
  - action: away
  - action: frames
    frames: 5
  - action: home
  - action: resize
    width: 800
    height: 600
  - action: frames
    frames: 60
`

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Field.Count = 80
	cfg.Terrain.Count = 15
	return cfg
}

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "walkthrough" || sc.Seed != 4 || len(sc.Steps) != 9 {
		t.Errorf("scenario = %+v", sc)
	}
	if sc.Steps[1].Frames != 20 || sc.Steps[7].Width != 800 {
		t.Errorf("step fields not decoded: %+v", sc.Steps)
	}

	_, err = ParseScenario([]byte("steps:\n  - action: teleport\n"))
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rep, err := RunScenario(context.Background(), sc, testConfig(), &out)
	if err != nil {
		t.Fatal(err)
	}

	if rep.Frames != 90 {
		t.Errorf("frames = %d, want 90", rep.Frames)
	}
	if rep.Skipped != 5 {
		t.Errorf("skipped = %d, want 5", rep.Skipped)
	}
	if rep.Ripples < 1 {
		t.Error("click must ripple")
	}
	if rep.Viewport.Width != 800 || rep.Viewport.Height != 600 {
		t.Errorf("viewport = %+v", rep.Viewport)
	}
	if rep.Particles != 0 {
		t.Errorf("particles should be gone after 70 idle frames, got %d", rep.Particles)
	}
	if rep.Coordinates != "50.30°" {
		t.Errorf("coordinates = %s", rep.Coordinates)
	}
	if got := strings.Count(out.String(), "\n"); got != 9 {
		t.Errorf("expected one progress line per step, got %d", got)
	}
}

func TestRunScenarioCancelled(t *testing.T) {
	sc, _ := ParseScenario([]byte(scenarioYAML))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunScenario(ctx, sc, testConfig(), &bytes.Buffer{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSweep(t *testing.T) {
	sweep := &ParameterSweep{Param: "nodes", Min: 0, Max: 30, NumSteps: 3, Frames: 10, Pointer: "idle", Seed: 1}
	var out bytes.Buffer
	results, err := RunSweep(context.Background(), sweep, testConfig(), &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	want := []float64{0, 15, 30}
	for i, r := range results {
		if r.ParamValue != want[i] {
			t.Errorf("step %d value = %v, want %v", i, r.ParamValue, want[i])
		}
	}
	if results[0].EdgeDensity != 0 {
		t.Error("no nodes means no edges")
	}
	if !strings.Contains(out.String(), "Sweep 3/3: nodes=30.0000") {
		t.Errorf("progress output = %q", out.String())
	}

	if _, err := RunSweep(context.Background(), &ParameterSweep{Param: "gravity", NumSteps: 2, Frames: 1}, testConfig(), &out); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if len(SweepParams()) != len(sweepable) {
		t.Error("SweepParams should list every parameter")
	}
}

func TestRunSweepZeroLinkP(t *testing.T) {
	cfg := testConfig()
	cfg.Terrain.ArchiveP = 0
	sweep := &ParameterSweep{Param: "link_p", Min: 0, Max: 0, NumSteps: 1, Frames: 10, Pointer: "idle", Seed: 1}
	results, err := RunSweep(context.Background(), sweep, cfg, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].EdgeDensity != 0 {
		t.Errorf("link_p=0 should leave the terrain unlinked: %+v", results)
	}
}
