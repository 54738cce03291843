// Package terrain implements the random geometric node-link graph drawn
// behind the point field.
package terrain

import (
	"math"

	"github.com/san-kum/portalsim/internal/surface"
)

type Rand interface {
	Float64() float64
}

type Kind uint8

const (
	Ordinary Kind = iota
	Archive
)

func (k Kind) String() string {
	if k == Archive {
		return "archive"
	}
	return "node"
}

// Node connections are directed: i may list j while j does not list i.
type Node struct {
	X, Y        float64
	Connections []int
	Phase       float64
	Kind        Kind
}

type Params struct {
	LinkDistance float64
	LinkP        float64 // acceptance probability per ordered pair
	ArchiveP     float64
	EdgeWidth    float64
	NodeBlur     float64
}

func DefaultParams() Params {
	return Params{
		LinkDistance: 180,
		LinkP:        0.25,
		ArchiveP:     0.2,
		EdgeWidth:    0.8,
		NodeBlur:     12,
	}
}

type Terrain struct {
	params Params
	rng    Rand
	nodes  []Node
}

// New uses p as given; start from DefaultParams to tune a subset.
func New(p Params, rng Rand) *Terrain {
	return &Terrain{params: p, rng: rng}
}

func (t *Terrain) Params() Params { return t.params }
func (t *Terrain) Nodes() []Node  { return t.nodes }
func (t *Terrain) Len() int       { return len(t.nodes) }

// Generate discards the previous graph and builds a new one.
func (t *Terrain) Generate(count int, vp surface.Viewport) {
	if count < 0 {
		count = 0
	}
	t.nodes = make([]Node, count)
	for i := range t.nodes {
		n := &t.nodes[i]
		n.X = t.rng.Float64() * vp.W()
		n.Y = t.rng.Float64() * vp.H()
		n.Phase = t.rng.Float64() * 2 * math.Pi
		if t.rng.Float64() < t.params.ArchiveP {
			n.Kind = Archive
		}
	}

	for i := range t.nodes {
		for j := range t.nodes {
			if i == j {
				continue
			}
			if Distance(t.nodes[i], t.nodes[j]) < t.params.LinkDistance && t.rng.Float64() < t.params.LinkP {
				t.nodes[i].Connections = append(t.nodes[i].Connections, j)
			}
		}
	}
}

func Distance(a, b Node) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Edges is the number of stored (directed) edges.
func (t *Terrain) Edges() int {
	n := 0
	for _, node := range t.nodes {
		n += len(node.Connections)
	}
	return n
}

// Neighbours counts the nodes within link distance of node i.
func (t *Terrain) Neighbours(i int) int {
	n := 0
	for j := range t.nodes {
		if j != i && Distance(t.nodes[i], t.nodes[j]) < t.params.LinkDistance {
			n++
		}
	}
	return n
}

func EdgeAlpha(elapsedMs, phase float64) float64 {
	return 0.15 + math.Sin(elapsedMs*0.002+phase)*0.08
}

func NodeAlpha(elapsedMs, phase float64) float64 {
	return 0.4 + math.Sin(elapsedMs*0.003+phase)*0.25
}

func Appearance(k Kind) (radius float64, c surface.Color) {
	if k == Archive {
		return 6, surface.Teal
	}
	return 3, surface.Mint
}

// Render draws every stored edge once (reciprocal pairs are drawn twice),
// then the nodes on top.
func (t *Terrain) Render(s surface.Surface, elapsedMs float64) {
	s.Clear()
	for _, n := range t.nodes {
		st := surface.Style{
			Color:     surface.Mint,
			Alpha:     EdgeAlpha(elapsedMs, n.Phase),
			LineWidth: t.params.EdgeWidth,
		}
		for _, j := range n.Connections {
			o := t.nodes[j]
			s.StrokeLine(n.X, n.Y, o.X, o.Y, st)
		}
	}
	for _, n := range t.nodes {
		r, c := Appearance(n.Kind)
		s.FillCircle(n.X, n.Y, r, surface.Style{
			Color: c,
			Alpha: NodeAlpha(elapsedMs, n.Phase),
			Blur:  t.params.NodeBlur,
		})
	}
}
