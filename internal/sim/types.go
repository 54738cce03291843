package sim

import (
	"time"

	"github.com/san-kum/portalsim/internal/field"
	"github.com/san-kum/portalsim/internal/particles"
	"github.com/san-kum/portalsim/internal/surface"
	"github.com/san-kum/portalsim/internal/terrain"
)

// Rand is the injectable random source shared by the coordinator and its
// generators.
type Rand interface {
	Float64() float64
}

// Layers are the three independent surfaces, one per generator.
type Layers struct {
	Points    surface.Surface
	Terrain   surface.Surface
	Particles surface.Surface
}

func (l Layers) all() []surface.Surface {
	return []surface.Surface{l.Points, l.Terrain, l.Particles}
}

type Options struct {
	Viewport   surface.Viewport
	PointCount int
	NodeCount  int

	Field     field.Params
	Terrain   terrain.Params
	Particles particles.Params

	RippleP  float64
	CollectP float64

	DataInterval     time.Duration
	FragmentInterval time.Duration
	AmbientFragmentP float64
	DroneChangeP     float64

	Rand    Rand
	Clock   Clock
	Effects EffectSink
}

func DefaultOptions() Options {
	return Options{
		Viewport:         surface.Viewport{Width: 1280, Height: 720},
		PointCount:       600,
		NodeCount:        40,
		Field:            field.DefaultParams(),
		Terrain:          terrain.DefaultParams(),
		Particles:        particles.DefaultParams(),
		RippleP:          0.05,
		CollectP:         0.4,
		DataInterval:     8 * time.Second,
		FragmentInterval: 6 * time.Second,
		AmbientFragmentP: 0.3,
		DroneChangeP:     0.2,
	}
}

// FrameStats describes the state right after a processed frame.
type FrameStats struct {
	Frame     int
	Elapsed   time.Duration
	Work      time.Duration
	Points    int
	Nodes     int
	Edges     int
	Particles int
	Fragments int
}

type Metric interface {
	Name() string
	Observe(s FrameStats)
	Value() float64
	Reset()
}

// EffectSink receives the decorative side effects of pointer input. Calls
// are made after the coordinator lock is released.
type EffectSink interface {
	Ripple(x, y float64)
	Fragment(x, y float64, text string)
}

type nopSink struct{}

func (nopSink) Ripple(x, y float64)                {}
func (nopSink) Fragment(x, y float64, text string) {}

// Ambient is the slowly changing decorative readout.
type Ambient struct {
	Planet string
	Sync   int
	Drones int
}
