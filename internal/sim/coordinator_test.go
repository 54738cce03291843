package sim

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/portalsim/internal/surface"
)

type recordedEffect struct {
	x, y float64
	text string
}

type effectRecorder struct {
	ripples   []recordedEffect
	fragments []recordedEffect
}

func (r *effectRecorder) Ripple(x, y float64) {
	r.ripples = append(r.ripples, recordedEffect{x: x, y: y})
}

func (r *effectRecorder) Fragment(x, y float64, text string) {
	r.fragments = append(r.fragments, recordedEffect{x: x, y: y, text: text})
}

// fixedRand returns the same value forever.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type countMetric struct{ n int }

func (m *countMetric) Name() string         { return "count" }
func (m *countMetric) Observe(_ FrameStats) { m.n++ }
func (m *countMetric) Value() float64       { return float64(m.n) }
func (m *countMetric) Reset()               { m.n = 0 }

var _ = Describe("Coordinator", func() {
	var (
		pts, ter, par *surface.Recorder
		clock         *ManualClock
		sink          *effectRecorder
		opts          Options
		c             *Coordinator
	)

	layers := func() Layers {
		return Layers{Points: pts, Terrain: ter, Particles: par}
	}

	BeforeEach(func() {
		pts = surface.NewRecorder(0, 0)
		ter = surface.NewRecorder(0, 0)
		par = surface.NewRecorder(0, 0)
		clock = NewManualClock(time.Unix(1700000000, 0))
		sink = &effectRecorder{}
		opts = DefaultOptions()
		opts.Viewport = surface.Viewport{Width: 800, Height: 600}
		opts.Rand = rand.New(rand.NewSource(11))
		opts.Clock = clock
		opts.Effects = sink
	})

	JustBeforeEach(func() {
		var err error
		c, err = New(layers(), opts)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("sizes every surface to the viewport and generates both fields", func() {
			for _, r := range []*surface.Recorder{pts, ter, par} {
				w, h := r.Size()
				Expect(w).To(Equal(800))
				Expect(h).To(Equal(600))
			}
			s := c.Stats()
			Expect(s.Points).To(Equal(600))
			Expect(s.Nodes).To(Equal(40))
			Expect(s.Particles).To(BeZero())
		})

		It("starts active on the home view with the pointer centered", func() {
			Expect(c.Active()).To(BeTrue())
			Expect(c.Home()).To(BeTrue())
			x, y := c.Pointer()
			Expect(x).To(Equal(400.0))
			Expect(y).To(Equal(300.0))
			Expect(c.Drones()).To(Equal(3))
			Expect(c.Ambient().Planet).To(Equal("TITAN"))
		})

		It("rejects a missing surface", func() {
			_, err := New(Layers{Points: pts, Terrain: ter}, opts)
			Expect(err).To(MatchError(ErrMissingSurface))
		})

		It("rejects out of range probabilities", func() {
			bad := opts
			bad.CollectP = 1.5
			_, err := New(layers(), bad)
			Expect(err).To(MatchError(ErrInvalidConfig))
		})
	})

	Describe("Frame", func() {
		It("updates and renders all three layers", func() {
			c.PointerMove(10, 10)
			Expect(c.Frame()).To(BeTrue())
			Expect(pts.Clears).To(Equal(1))
			Expect(ter.Clears).To(Equal(1))
			Expect(par.Clears).To(Equal(1))
			Expect(pts.Count("circle")).To(Equal(600))
			Expect(par.Count("circle")).To(Equal(1))
			Expect(c.Frames()).To(Equal(1))
		})

		It("notifies registered metrics once per processed frame", func() {
			m := &countMetric{}
			c.AddMetric(m)
			c.Frame()
			c.Frame()
			c.Pause()
			c.Frame()
			Expect(m.n).To(Equal(2))
			Expect(c.MetricValues()).To(HaveKeyWithValue("count", 2.0))
		})
	})

	Describe("pause and resume", func() {
		It("processes no frames and draws nothing while paused", func() {
			c.Pause()
			for i := 0; i < 10; i++ {
				Expect(c.Frame()).To(BeFalse())
			}
			Expect(c.Frames()).To(BeZero())
			Expect(c.SkippedFrames()).To(Equal(10))
			Expect(pts.Clears + ter.Clears + par.Clears).To(BeZero())

			c.Resume()
			Expect(c.Frame()).To(BeTrue())
			Expect(c.Frames()).To(Equal(1))
		})

		It("stops when the home view is hidden and ignores pointer input there", func() {
			c.ShowHome(false)
			c.PointerMove(1, 1)
			Expect(c.Click(1, 1)).To(BeFalse())
			Expect(c.Frame()).To(BeFalse())
			Expect(c.Stats().Particles).To(BeZero())
			Expect(sink.ripples).To(BeEmpty())

			c.ShowHome(true)
			Expect(c.Active()).To(BeTrue())
			Expect(c.Frame()).To(BeTrue())
		})

		It("keeps the home view paused when only Resume is missing", func() {
			c.Pause()
			Expect(c.Home()).To(BeTrue())
			Expect(c.Active()).To(BeFalse())
		})

		Context("with a source that always rolls low", func() {
			BeforeEach(func() { opts.Rand = fixedRand(0.01) })

			It("ignores pointer input while paused on home", func() {
				c.Pause()
				c.PointerMove(120, 45)
				Expect(c.Click(120, 45)).To(BeFalse())
				Expect(c.Stats().Particles).To(BeZero())
				Expect(c.Fragments()).To(BeZero())
				Expect(sink.ripples).To(BeEmpty())

				c.Resume()
				c.PointerMove(120, 45)
				Expect(c.Stats().Particles).To(Equal(1))
			})
		})
	})

	Describe("pointer input", func() {
		Context("with a source that always rolls low", func() {
			BeforeEach(func() { opts.Rand = fixedRand(0.01) })

			It("spawns a trail particle and ripples on move", func() {
				c.PointerMove(120, 45)
				Expect(c.Stats().Particles).To(Equal(1))
				Expect(sink.ripples).To(HaveLen(1))
				Expect(c.Coordinates()).To(Equal("12.4°"))
			})

			It("collects a fragment on click", func() {
				Expect(c.Click(50, 60)).To(BeTrue())
				Expect(c.Fragments()).To(Equal(1))
				Expect(sink.fragments).To(HaveLen(1))
				Expect(FragmentTexts).To(ContainElement(sink.fragments[0].text))
				Expect(sink.ripples).To(HaveLen(1))
				Expect(c.Stats().Particles).To(Equal(1))
			})
		})

		Context("with a source that always rolls high", func() {
			BeforeEach(func() { opts.Rand = fixedRand(0.99) })

			It("misses the fragment but still ripples", func() {
				Expect(c.Click(50, 60)).To(BeFalse())
				Expect(c.Fragments()).To(BeZero())
				Expect(sink.fragments).To(BeEmpty())
				Expect(sink.ripples).To(HaveLen(1))
			})

			It("moves without a ripple", func() {
				c.PointerMove(5, 5)
				Expect(sink.ripples).To(BeEmpty())
			})
		})
	})

	Describe("Resize", func() {
		It("re-derives surface sizes before the next render and keeps particles", func() {
			c.PointerMove(10, 10)
			c.Resize(1024, 768)
			for _, r := range []*surface.Recorder{pts, ter, par} {
				w, h := r.Size()
				Expect([]int{w, h}).To(Equal([]int{1024, 768}))
			}
			Expect(c.Viewport()).To(Equal(surface.Viewport{Width: 1024, Height: 768}))
			Expect(c.Stats().Particles).To(Equal(1))
			Expect(c.Stats().Points).To(Equal(600))
			Expect(c.Frame()).To(BeTrue())
		})
	})

	Describe("ambient readout", func() {
		It("cycles the planet every data interval", func() {
			clock.Advance(8 * time.Second)
			c.Frame()
			a := c.Ambient()
			Expect(a.Planet).To(Equal("EUROPA"))
			Expect(a.Sync).To(BeNumerically(">=", 60))
			Expect(a.Sync).To(BeNumerically("<", 90))
			Expect(a.Drones).To(BeNumerically(">=", 2))
			Expect(a.Drones).To(BeNumerically("<=", 4))
		})

		It("does not advance off the home view", func() {
			c.ShowHome(false)
			clock.Advance(20 * time.Second)
			c.Frame()
			Expect(c.Ambient().Planet).To(Equal("TITAN"))
		})

		Context("when the fragment roll succeeds", func() {
			BeforeEach(func() { opts.Rand = fixedRand(0.1) })

			It("drops an ambient fragment inside the viewport", func() {
				clock.Advance(6 * time.Second)
				c.Frame()
				Expect(sink.fragments).To(HaveLen(1))
				Expect(sink.fragments[0].x).To(BeNumerically("<", 800))
				Expect(sink.fragments[0].y).To(BeNumerically("<", 600))
			})
		})
	})
})
