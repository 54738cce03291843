package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/san-kum/portalsim/internal/experiment"
)

func sampleResult(seed int64) *experiment.Result {
	return &experiment.Result{
		Seed: seed,
		Frames: []experiment.FrameRecord{
			{Frame: 1, ElapsedMs: 16.667, Points: 600, Nodes: 40, Edges: 31, Particles: 1},
			{Frame: 2, ElapsedMs: 33.333, Points: 600, Nodes: 40, Edges: 31, Particles: 2, Fragments: 1},
		},
		Metrics:   map[string]float64{"peak_particles": 2},
		Fragments: 1,
		Ripples:   3,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	id, err := st.Save(RunMetadata{Preset: "calm", FPS: 60, Width: 1280, Height: 720, Pointer: "orbit"}, sampleResult(7))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "calm" || meta.Seed != 7 || meta.Frames != 2 || meta.Ripples != 3 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Metrics["peak_particles"] != 2 {
		t.Errorf("metrics = %v", meta.Metrics)
	}

	frames, err := st.LoadFrames(id)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if !reflect.DeepEqual(frames, sampleResult(7).Frames) {
		t.Errorf("frames = %+v", frames)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: %v %v", runs, err)
	}

	for _, seed := range []int64{1, 2} {
		if _, err := st.Save(RunMetadata{}, sampleResult(seed)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Seed != 1 || runs[1].Seed != 2 {
		t.Error("runs should be ordered oldest first")
	}
	if runs[0].Preset != "default" {
		t.Errorf("preset = %q, want default", runs[0].Preset)
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadFrames: expected ErrRunNotFound, got %v", err)
	}
}

func TestLoadFramesSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	run := filepath.Join(dir, "r1")
	if err := os.MkdirAll(run, 0755); err != nil {
		t.Fatal(err)
	}
	data := "frame,elapsed_ms,points,nodes,edges,particles,fragments\n1,16.7,10,5,4,1,0\nx,1,1,1,1,1,1\n2,33.3,10,5\n"
	if err := os.WriteFile(filepath.Join(run, "frames.csv"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	frames, err := New(dir).LoadFrames("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 || frames[0].Particles != 1 {
		t.Errorf("frames = %+v", frames)
	}
}

func TestSeries(t *testing.T) {
	vals, err := Series(sampleResult(1).Frames, "particles")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(vals, []float64{1, 2}) {
		t.Errorf("series = %v", vals)
	}
	if _, err := Series(nil, "energy"); err == nil {
		t.Error("expected error for unknown column")
	}
}
