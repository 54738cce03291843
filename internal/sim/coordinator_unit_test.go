package sim

import (
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/portalsim/internal/surface"
)

func TestReschedule(t *testing.T) {
	base := time.Unix(0, 0)
	tests := []struct {
		name string
		due  time.Time
		now  time.Time
		want time.Time
	}{
		{"on time", base, base, base.Add(time.Second)},
		{"slightly late", base, base.Add(300 * time.Millisecond), base.Add(time.Second)},
		{"missed several", base, base.Add(5 * time.Second), base.Add(6 * time.Second)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reschedule(tt.due, tt.now, time.Second); !got.Equal(tt.want) {
				t.Errorf("reschedule = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickBounds(t *testing.T) {
	if got := pick(fixedRand(0.999999999), 3); got != 2 {
		t.Errorf("pick high = %d", got)
	}
	if got := pick(fixedRand(0), 3); got != 0 {
		t.Errorf("pick low = %d", got)
	}
}

// Spawn once, update forty times: the trail particle must be gone.
func TestTrailScenario(t *testing.T) {
	rec := func() *surface.Recorder { return surface.NewRecorder(0, 0) }
	opts := DefaultOptions()
	opts.PointCount = 0
	opts.NodeCount = 0
	opts.RippleP = 0
	opts.Rand = rand.New(rand.NewSource(3))
	opts.Clock = NewManualClock(time.Unix(0, 0))

	par := rec()
	c, err := New(Layers{Points: rec(), Terrain: rec(), Particles: par}, opts)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.PointerMove(100, 100)

	for i := 1; i <= 40; i++ {
		c.Frame()
		if i < 40 && c.Stats().Particles != 1 {
			t.Fatalf("particle gone early at frame %d", i)
		}
	}
	if n := c.Stats().Particles; n != 0 {
		t.Fatalf("expected no particles after 40 frames, got %d", n)
	}
	if par.Count("circle") != 0 {
		t.Error("expired particle still rendered")
	}
}
