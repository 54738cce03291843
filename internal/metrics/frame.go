package metrics

import (
	"time"

	"github.com/san-kum/portalsim/internal/sim"
)

// FrameTime is the mean update+render cost per processed frame, in ms.
type FrameTime struct {
	total   time.Duration
	samples int
}

func NewFrameTime() *FrameTime { return &FrameTime{} }

func (f *FrameTime) Name() string { return "frame_ms" }

func (f *FrameTime) Observe(s sim.FrameStats) {
	f.total += s.Work
	f.samples++
}

func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return float64(f.total) / float64(f.samples) / float64(time.Millisecond)
}

func (f *FrameTime) Reset() {
	f.total = 0
	f.samples = 0
}

// EdgeDensity is the terrain's mean out-degree on the latest frame.
type EdgeDensity struct {
	value float64
}

func NewEdgeDensity() *EdgeDensity { return &EdgeDensity{} }

func (e *EdgeDensity) Name() string { return "edge_density" }

func (e *EdgeDensity) Observe(s sim.FrameStats) {
	if s.Nodes == 0 {
		e.value = 0
		return
	}
	e.value = float64(s.Edges) / float64(s.Nodes)
}

func (e *EdgeDensity) Value() float64 { return e.value }
func (e *EdgeDensity) Reset()         { e.value = 0 }

// Defaults is the metric set used by the headless runners.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewPeakParticles(),
		NewMeanParticles(),
		NewFrameTime(),
		NewEdgeDensity(),
	}
}
