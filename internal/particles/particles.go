// Package particles implements the short-lived pointer particles.
package particles

import (
	"github.com/san-kum/portalsim/internal/surface"
)

type Rand interface {
	Float64() float64
}

type Kind uint8

const (
	Trail Kind = iota
	Collect
)

func (k Kind) String() string {
	switch k {
	case Trail:
		return "trail"
	case Collect:
		return "collect"
	}
	return "unknown"
}

// ParseKind maps "trail" and "collect" to their Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "trail":
		return Trail, true
	case "collect":
		return Collect, true
	}
	return Trail, false
}

// Profile is the per-kind look and lifetime.
type Profile struct {
	Decay float64
	Size  float64
	Color surface.Color
}

var profiles = map[Kind]Profile{
	Trail:   {Decay: 0.025, Size: 1.5, Color: surface.Mint},
	Collect: {Decay: 0.015, Size: 3, Color: surface.Teal},
}

func ProfileOf(k Kind) Profile { return profiles[k] }

type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64
	Decay  float64
	Size   float64
	Color  surface.Color
	Kind   Kind
	age    int
}

type Params struct {
	Spread float64 // velocity range per axis, centered on zero
	Blur   float64
	Fade   float64 // alpha at full life
	Limit  int     // 0 means unbounded
}

func DefaultParams() Params {
	return Params{Spread: 1.5, Blur: 6, Fade: 0.7}
}

type Emitter struct {
	params    Params
	rng       Rand
	particles []Particle
	spawned   int
	expired   int
}

func New(p Params, rng Rand) *Emitter {
	return &Emitter{params: p, rng: rng}
}

func (e *Emitter) Particles() []Particle { return e.particles }
func (e *Emitter) Len() int              { return len(e.particles) }

// Spawned and Expired are lifetime totals.
func (e *Emitter) Spawned() int { return e.spawned }
func (e *Emitter) Expired() int { return e.expired }

func (e *Emitter) Spawn(x, y float64, k Kind) {
	prof := ProfileOf(k)
	e.particles = append(e.particles, Particle{
		X:     x,
		Y:     y,
		VX:    (e.rng.Float64() - 0.5) * e.params.Spread,
		VY:    (e.rng.Float64() - 0.5) * e.params.Spread,
		Life:  1.0,
		Decay: prof.Decay,
		Size:  prof.Size,
		Color: prof.Color,
		Kind:  k,
	})
	e.spawned++
	if e.params.Limit > 0 && len(e.particles) > e.params.Limit {
		drop := len(e.particles) - e.params.Limit
		e.particles = append(e.particles[:0], e.particles[drop:]...)
		e.expired += drop
	}
}

// Update moves and ages every particle and removes the dead ones in place.
// Life is recomputed from the update count so 1/decay updates land on 0.
func (e *Emitter) Update() {
	alive := e.particles[:0]
	for _, p := range e.particles {
		p.X += p.VX
		p.Y += p.VY
		p.age++
		p.Life = 1.0 - float64(p.age)*p.Decay
		if p.Life > 0 {
			alive = append(alive, p)
		} else {
			e.expired++
		}
	}
	clear(e.particles[len(alive):])
	e.particles = alive
}

func (e *Emitter) Render(s surface.Surface) {
	s.Clear()
	for _, p := range e.particles {
		s.FillCircle(p.X, p.Y, p.Size*p.Life, surface.Style{
			Color: p.Color,
			Alpha: p.Life * e.params.Fade,
			Blur:  e.params.Blur,
		})
	}
}
