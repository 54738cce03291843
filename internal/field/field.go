// Package field implements the drifting, depth-shaded point cloud.
package field

import (
	"math"

	"github.com/san-kum/portalsim/internal/surface"
)

// Rand is the random source the generator draws from.
type Rand interface {
	Float64() float64
}

type Point struct {
	X, Y      float64
	Z         float64
	OriginalZ float64
	Size      float64
	Alpha     float64
	Color     surface.Color
	Speed     float64
}

// Params tunes the field. DefaultParams holds the site's values.
type Params struct {
	Amplitude   float64 // depth swing around OriginalZ
	TimeFreq    float64 // k, per elapsed millisecond
	SpaceFreq   float64 // k2, per pixel of x
	Margin      float64
	Focal       float64
	Attenuation float64
	Blur        float64
	AltColorP   float64 // probability of the secondary palette color
}

func DefaultParams() Params {
	return Params{
		Amplitude:   15,
		TimeFreq:    0.001,
		SpaceFreq:   0.01,
		Margin:      50,
		Focal:       200,
		Attenuation: 0.8,
		Blur:        8,
		AltColorP:   0.3,
	}
}

type Field struct {
	params Params
	rng    Rand
	vp     surface.Viewport
	points []Point
}

// New uses p as given, so a zero amplitude really freezes depth.
func New(p Params, rng Rand) *Field {
	return &Field{params: p, rng: rng}
}

func (f *Field) Params() Params             { return f.params }
func (f *Field) Points() []Point            { return f.points }
func (f *Field) Len() int                   { return len(f.points) }
func (f *Field) Viewport() surface.Viewport { return f.vp }

// Generate replaces the whole point set with count fresh points.
func (f *Field) Generate(count int, vp surface.Viewport) {
	f.vp = vp
	if count < 0 {
		count = 0
	}
	f.points = make([]Point, count)
	for i := range f.points {
		f.points[i] = Point{
			X:         f.rng.Float64() * vp.W(),
			Y:         f.rng.Float64() * vp.H(),
			Z:         f.rng.Float64()*200 - 100,
			OriginalZ: f.rng.Float64()*200 - 100,
			Size:      f.rng.Float64()*2.5 + 0.5,
			Alpha:     f.rng.Float64()*0.7 + 0.3,
			Color:     f.pickColor(),
			Speed:     f.rng.Float64()*0.4 + 0.1,
		}
	}
}

func (f *Field) pickColor() surface.Color {
	if f.rng.Float64() < f.params.AltColorP {
		return surface.Teal
	}
	return surface.Mint
}

// Depth is the depth a point at x with rest depth z0 has at elapsedMs.
func (f *Field) Depth(z0, x, elapsedMs float64) float64 {
	p := f.params
	return z0 + p.Amplitude*math.Sin(p.TimeFreq*elapsedMs+p.SpaceFreq*x)
}

// Update advances every point: depth oscillation, downward drift, wrap.
func (f *Field) Update(elapsedMs float64) {
	limit := f.vp.H() + f.params.Margin
	for i := range f.points {
		pt := &f.points[i]
		pt.Z = f.Depth(pt.OriginalZ, pt.X, elapsedMs)
		pt.Y += pt.Speed
		if pt.Y > limit {
			pt.Y = -f.params.Margin
			pt.X = f.rng.Float64() * f.vp.W()
		}
	}
}

// Perspective returns focal/(focal+z), or 0 for points behind the eye.
func (f *Field) Perspective(z float64) float64 {
	d := f.params.Focal + z
	if d <= 0 {
		return 0
	}
	return f.params.Focal / d
}

func (f *Field) Render(s surface.Surface) {
	s.Clear()
	for _, pt := range f.points {
		p := f.Perspective(pt.Z)
		if p == 0 {
			continue
		}
		s.FillCircle(pt.X*p, pt.Y*p, pt.Size*p, surface.Style{
			Color: pt.Color,
			Alpha: pt.Alpha * p * f.params.Attenuation,
			Blur:  f.params.Blur,
		})
	}
}
