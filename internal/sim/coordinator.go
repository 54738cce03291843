package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/san-kum/portalsim/internal/field"
	"github.com/san-kum/portalsim/internal/particles"
	"github.com/san-kum/portalsim/internal/surface"
	"github.com/san-kum/portalsim/internal/terrain"
)

type effect struct {
	fragment bool
	x, y     float64
	text     string
}

// Coordinator owns the three generators and their surfaces and runs them
// once per Frame while the home view is shown and the simulation is active.
type Coordinator struct {
	mu sync.Mutex

	opts    Options
	layers  Layers
	rng     Rand
	clock   Clock
	effects EffectSink

	field     *field.Field
	terrain   *terrain.Terrain
	particles *particles.Emitter

	vp        surface.Viewport
	pointerX  float64
	pointerY  float64
	start     time.Time
	now       time.Time
	fragments int
	home      bool
	active    bool
	frames    int
	skipped   int

	ambient      Ambient
	planet       int
	nextData     time.Time
	nextFragment time.Time

	metrics []Metric
	pending []effect
}

func New(layers Layers, opts Options) (*Coordinator, error) {
	for _, s := range layers.all() {
		if s == nil {
			return nil, ErrMissingSurface
		}
	}
	if opts.PointCount < 0 || opts.NodeCount < 0 {
		return nil, fmt.Errorf("%w: negative generator count", ErrInvalidConfig)
	}
	if opts.RippleP < 0 || opts.RippleP > 1 || opts.CollectP < 0 || opts.CollectP > 1 {
		return nil, fmt.Errorf("%w: probabilities must be within [0,1]", ErrInvalidConfig)
	}
	d := DefaultOptions()
	if opts.DataInterval <= 0 {
		opts.DataInterval = d.DataInterval
	}
	if opts.FragmentInterval <= 0 {
		opts.FragmentInterval = d.FragmentInterval
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Effects == nil {
		opts.Effects = nopSink{}
	}

	c := &Coordinator{
		opts:      opts,
		layers:    layers,
		rng:       opts.Rand,
		clock:     opts.Clock,
		effects:   opts.Effects,
		field:     field.New(opts.Field, opts.Rand),
		terrain:   terrain.New(opts.Terrain, opts.Rand),
		particles: particles.New(opts.Particles, opts.Rand),
		home:      true,
		active:    true,
		ambient:   Ambient{Planet: Planets[0], Sync: 75, Drones: 3},
	}
	c.start = c.clock.Now()
	c.now = c.start
	c.nextData = c.start.Add(opts.DataInterval)
	c.nextFragment = c.start.Add(opts.FragmentInterval)
	c.pointerX = opts.Viewport.W() / 2
	c.pointerY = opts.Viewport.H() / 2
	c.resize(opts.Viewport)
	return c, nil
}

func (c *Coordinator) AddMetric(m Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = append(c.metrics, m)
}

// Frame runs one update+render pass if the home view is shown and the
// simulation is active. It reports whether work was done.
func (c *Coordinator) Frame() bool {
	c.mu.Lock()
	ran := c.frame()
	pending := c.takePending()
	c.mu.Unlock()
	c.emit(pending)
	return ran
}

func (c *Coordinator) frame() bool {
	c.now = c.clock.Now()
	c.advanceAmbient()

	if !c.home || !c.active {
		c.skipped++
		return false
	}

	began := time.Now()
	elapsed := c.now.Sub(c.start)
	ms := float64(elapsed) / float64(time.Millisecond)

	c.field.Update(ms)
	c.field.Render(c.layers.Points)

	c.terrain.Render(c.layers.Terrain, ms)

	c.particles.Update()
	c.particles.Render(c.layers.Particles)

	c.frames++
	stats := c.stats()
	stats.Work = time.Since(began)
	for _, m := range c.metrics {
		m.Observe(stats)
	}
	return true
}

func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = false
}

func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = true
}

// ShowHome is the view-state hook: showing the home view resumes the
// simulation, leaving it pauses. Pointer input is ignored off home and
// while paused, since particles spawned then would never age.
func (c *Coordinator) ShowHome(shown bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.home = shown
	c.active = shown
}

func (c *Coordinator) PointerMove(x, y float64) {
	c.mu.Lock()
	if !c.home || !c.active {
		c.mu.Unlock()
		return
	}
	c.pointerX, c.pointerY = x, y
	c.particles.Spawn(x, y, particles.Trail)
	if c.rng.Float64() < c.opts.RippleP {
		c.pending = append(c.pending, effect{x: x, y: y})
	}
	pending := c.takePending()
	c.mu.Unlock()
	c.emit(pending)
}

// Click may collect an archive fragment; it always ripples.
func (c *Coordinator) Click(x, y float64) bool {
	c.mu.Lock()
	if !c.home || !c.active {
		c.mu.Unlock()
		return false
	}
	collected := c.rng.Float64() < c.opts.CollectP
	if collected {
		c.fragments++
		c.pending = append(c.pending, effect{fragment: true, x: x, y: y, text: FragmentTexts[pick(c.rng, len(FragmentTexts))]})
		c.particles.Spawn(x, y, particles.Collect)
	}
	c.pending = append(c.pending, effect{x: x, y: y})
	pending := c.takePending()
	c.mu.Unlock()
	c.emit(pending)
	return collected
}

// Resize re-derives all surface sizes, then regenerates the point field and
// the terrain. Particles are left alone.
func (c *Coordinator) Resize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resize(surface.Viewport{Width: w, Height: h})
}

// Regenerate rebuilds the field and terrain for the current viewport.
func (c *Coordinator) Regenerate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resize(c.vp)
}

func (c *Coordinator) resize(vp surface.Viewport) {
	c.vp = vp
	for _, s := range c.layers.all() {
		s.Resize(vp.Width, vp.Height)
	}
	c.terrain.Generate(c.opts.NodeCount, vp)
	c.field.Generate(c.opts.PointCount, vp)
}

func (c *Coordinator) advanceAmbient() {
	if c.now.After(c.nextData) || c.now.Equal(c.nextData) {
		c.nextData = reschedule(c.nextData, c.now, c.opts.DataInterval)
		if c.home {
			c.planet = (c.planet + 1) % len(Planets)
			c.ambient.Planet = Planets[c.planet]
			c.ambient.Sync = 60 + pick(c.rng, 30)
			if c.rng.Float64() < c.opts.DroneChangeP {
				c.ambient.Drones = 2 + pick(c.rng, 3)
			}
		}
	}
	if c.now.After(c.nextFragment) || c.now.Equal(c.nextFragment) {
		c.nextFragment = reschedule(c.nextFragment, c.now, c.opts.FragmentInterval)
		if c.home && c.rng.Float64() < c.opts.AmbientFragmentP {
			x := c.rng.Float64() * c.vp.W()
			y := c.rng.Float64() * c.vp.H()
			c.pending = append(c.pending, effect{fragment: true, x: x, y: y, text: FragmentTexts[pick(c.rng, len(FragmentTexts))]})
		}
	}
}

// reschedule moves a due deadline forward, skipping intervals missed while
// no frames were delivered.
func reschedule(due, now time.Time, every time.Duration) time.Time {
	next := due.Add(every)
	if !next.After(now) {
		next = now.Add(every)
	}
	return next
}

func (c *Coordinator) takePending() []effect {
	p := c.pending
	c.pending = nil
	return p
}

func (c *Coordinator) emit(pending []effect) {
	for _, e := range pending {
		if e.fragment {
			c.effects.Fragment(e.x, e.y, e.text)
		} else {
			c.effects.Ripple(e.x, e.y)
		}
	}
}

func (c *Coordinator) stats() FrameStats {
	return FrameStats{
		Frame:     c.frames,
		Elapsed:   c.now.Sub(c.start),
		Points:    c.field.Len(),
		Nodes:     c.terrain.Len(),
		Edges:     c.terrain.Edges(),
		Particles: c.particles.Len(),
		Fragments: c.fragments,
	}
}

func (c *Coordinator) Stats() FrameStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats()
}

func (c *Coordinator) Fragments() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fragments
}

func (c *Coordinator) Drones() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ambient.Drones
}

func (c *Coordinator) Ambient() Ambient {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ambient
}

func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active && c.home
}

func (c *Coordinator) Home() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.home
}

// Frames is the number of processed frames; SkippedFrames counts the
// callbacks that found the simulation inactive.
func (c *Coordinator) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

func (c *Coordinator) SkippedFrames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skipped
}

func (c *Coordinator) Viewport() surface.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vp
}

func (c *Coordinator) Pointer() (x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointerX, c.pointerY
}

// Coordinates formats the pointer the way the portal readout shows it.
func (c *Coordinator) Coordinates() string {
	x, y := c.Pointer()
	return fmt.Sprintf("%d.%d°", int(math.Floor(x/10)), int(math.Floor(y/10)))
}

// MetricValues snapshots every registered metric.
func (c *Coordinator) MetricValues() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
