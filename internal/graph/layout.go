// Package graph lays out the research concept map with a small
// force simulation: link springs, many-body repulsion, centering and
// collision, cooled by an exponentially decaying alpha.
package graph

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/portalsim/internal/surface"
)

var ErrUnknownNode = errors.New("graph: unknown node")

type Rand interface {
	Float64() float64
}

type Node struct {
	ID     string
	Group  string
	X, Y   float64
	VX, VY float64
	Fixed  bool
	FX, FY float64
}

type Link struct {
	Source, Target int
	strength       float64
	bias           float64
}

type Params struct {
	LinkDistance  float64
	Charge        float64
	CollideRadius float64
	NodeRadius    float64
	VelocityDecay float64
	AlphaMin      float64
	AlphaDecay    float64
}

func DefaultParams() Params {
	return Params{
		LinkDistance:  100,
		Charge:        -500,
		CollideRadius: 60,
		NodeRadius:    20,
		VelocityDecay: 0.4,
		AlphaMin:      0.001,
		AlphaDecay:    1 - math.Pow(0.001, 1.0/300),
	}
}

type Layout struct {
	Nodes []Node
	Links []Link

	params        Params
	rng           Rand
	width, height float64
	alpha         float64
	alphaTarget   float64
	ticks         int
}

// New builds a layout from concepts and relations. Relations must name
// existing concepts.
func New(concepts []Concept, relations [][2]string, width, height float64, p Params, rng Rand) (*Layout, error) {
	l := &Layout{params: p, rng: rng, width: width, height: height, alpha: 1}
	index := make(map[string]int, len(concepts))
	golden := math.Pi * (3 - math.Sqrt(5))
	for i, c := range concepts {
		r := 10 * math.Sqrt(0.5+float64(i))
		a := float64(i) * golden
		l.Nodes = append(l.Nodes, Node{
			ID:    c.ID,
			Group: c.Group,
			X:     width/2 + r*math.Cos(a),
			Y:     height/2 + r*math.Sin(a),
		})
		index[c.ID] = i
	}

	degree := make([]int, len(concepts))
	for _, rel := range relations {
		s, ok := index[rel[0]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, rel[0])
		}
		t, ok := index[rel[1]]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, rel[1])
		}
		l.Links = append(l.Links, Link{Source: s, Target: t})
		degree[s]++
		degree[t]++
	}
	for i := range l.Links {
		lk := &l.Links[i]
		ds, dt := degree[lk.Source], degree[lk.Target]
		lk.strength = 1 / float64(min(ds, dt))
		lk.bias = float64(ds) / float64(ds+dt)
	}
	return l, nil
}

// Default lays out the built-in concept map.
func Default(width, height float64, rng Rand) *Layout {
	l, err := New(Concepts, Relations, width, height, DefaultParams(), rng)
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Layout) Alpha() float64 { return l.alpha }
func (l *Layout) Ticks() int     { return l.ticks }

// Settled reports whether the layout has cooled below AlphaMin.
func (l *Layout) Settled() bool { return l.alpha < l.params.AlphaMin }

func (l *Layout) Center() (float64, float64) { return l.width / 2, l.height / 2 }

func (l *Layout) jiggle() float64 {
	return (l.rng.Float64() - 0.5) * 1e-6
}

// Tick advances the simulation by one step.
func (l *Layout) Tick() {
	l.alpha += (l.alphaTarget - l.alpha) * l.params.AlphaDecay
	l.applyLinks()
	l.applyCharge()
	l.applyCenter()
	l.applyCollide()

	for i := range l.Nodes {
		n := &l.Nodes[i]
		if n.Fixed {
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= 1 - l.params.VelocityDecay
		n.VY *= 1 - l.params.VelocityDecay
		n.X += n.VX
		n.Y += n.VY
	}
	l.ticks++
}

// Run ticks until the layout settles or ctx is done.
func (l *Layout) Run(ctx context.Context) error {
	for !l.Settled() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		l.Tick()
	}
	return nil
}

func (l *Layout) applyLinks() {
	for _, lk := range l.Links {
		s, t := &l.Nodes[lk.Source], &l.Nodes[lk.Target]
		x := t.X + t.VX - s.X - s.VX
		y := t.Y + t.VY - s.Y - s.VY
		if x == 0 {
			x = l.jiggle()
		}
		if y == 0 {
			y = l.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - l.params.LinkDistance) / d * l.alpha * lk.strength
		x *= k
		y *= k
		t.VX -= x * lk.bias
		t.VY -= y * lk.bias
		s.VX += x * (1 - lk.bias)
		s.VY += y * (1 - lk.bias)
	}
}

func (l *Layout) applyCharge() {
	for i := range l.Nodes {
		n := &l.Nodes[i]
		for j := range l.Nodes {
			if i == j {
				continue
			}
			o := l.Nodes[j]
			x, y := o.X-n.X, o.Y-n.Y
			if x == 0 {
				x = l.jiggle()
			}
			if y == 0 {
				y = l.jiggle()
			}
			d2 := x*x + y*y
			if d2 < 1 {
				d2 = math.Sqrt(d2)
			}
			n.VX += x * l.params.Charge * l.alpha / d2
			n.VY += y * l.params.Charge * l.alpha / d2
		}
	}
}

func (l *Layout) applyCenter() {
	if len(l.Nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range l.Nodes {
		sx += n.X
		sy += n.Y
	}
	cx, cy := l.Center()
	sx = cx - sx/float64(len(l.Nodes))
	sy = cy - sy/float64(len(l.Nodes))
	for i := range l.Nodes {
		l.Nodes[i].X += sx
		l.Nodes[i].Y += sy
	}
}

func (l *Layout) applyCollide() {
	r := l.params.CollideRadius
	reach := 2 * r
	for i := range l.Nodes {
		n := &l.Nodes[i]
		xi, yi := n.X+n.VX, n.Y+n.VY
		for j := i + 1; j < len(l.Nodes); j++ {
			o := &l.Nodes[j]
			x := xi - o.X - o.VX
			y := yi - o.Y - o.VY
			d2 := x*x + y*y
			if d2 >= reach*reach {
				continue
			}
			if x == 0 {
				x = l.jiggle()
				d2 += x * x
			}
			if y == 0 {
				y = l.jiggle()
				d2 += y * y
			}
			d := math.Sqrt(d2)
			k := (reach - d) / d
			x *= k
			y *= k
			n.VX += x * 0.5
			n.VY += y * 0.5
			o.VX -= x * 0.5
			o.VY -= y * 0.5
		}
	}
}

func (l *Layout) node(i int) (*Node, error) {
	if i < 0 || i >= len(l.Nodes) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownNode, i)
	}
	return &l.Nodes[i], nil
}

// Index returns the position of the node with the given id.
func (l *Layout) Index(id string) (int, error) {
	for i, n := range l.Nodes {
		if n.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownNode, id)
}

// Pin fixes node i at (x, y) and warms the simulation, as a drag does.
func (l *Layout) Pin(i int, x, y float64) error {
	n, err := l.node(i)
	if err != nil {
		return err
	}
	n.Fixed, n.FX, n.FY = true, x, y
	l.alphaTarget = 0.3
	if l.alpha < l.alphaTarget {
		l.alpha = l.alphaTarget
	}
	return nil
}

// Release frees a pinned node and lets the layout cool again.
func (l *Layout) Release(i int) error {
	n, err := l.node(i)
	if err != nil {
		return err
	}
	n.Fixed = false
	l.alphaTarget = 0
	return nil
}

// Nearest returns the node whose center is closest to (x, y), or -1.
func (l *Layout) Nearest(x, y, within float64) int {
	best, bestD := -1, within*within
	for i, n := range l.Nodes {
		d := (n.X-x)*(n.X-x) + (n.Y-y)*(n.Y-y)
		if d <= bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Reheat restarts cooling from alpha.
func (l *Layout) Reheat(alpha float64) {
	l.alpha = alpha
}

// Resize recenters the layout and reheats it.
func (l *Layout) Resize(width, height float64) {
	l.width, l.height = width, height
	l.Reheat(0.3)
}

// Bounds returns the bounding box of node centers.
func (l *Layout) Bounds() (minX, minY, maxX, maxY float64) {
	if len(l.Nodes) == 0 {
		return
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX, maxX = math.Min(minX, n.X), math.Max(maxX, n.X)
		minY, maxY = math.Min(minY, n.Y), math.Max(maxY, n.Y)
	}
	return
}

var linkColor = surface.MustHex("#9c8a70")

// Render draws links under nodes, scaled by fit so the graph fills s.
func (l *Layout) Render(s surface.Surface) {
	s.Clear()
	w, h := s.Size()
	fx, fy := float64(w)/math.Max(l.width, 1), float64(h)/math.Max(l.height, 1)
	for _, lk := range l.Links {
		a, b := l.Nodes[lk.Source], l.Nodes[lk.Target]
		s.StrokeLine(a.X*fx, a.Y*fy, b.X*fx, b.Y*fy, surface.Style{Color: linkColor, Alpha: 0.6, LineWidth: 1.5})
	}
	r := l.params.NodeRadius * math.Min(fx, fy)
	for _, n := range l.Nodes {
		s.FillCircle(n.X*fx, n.Y*fy, r, surface.Style{Color: GroupColor(n.Group), Alpha: 1})
	}
}
