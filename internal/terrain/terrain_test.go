package terrain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/portalsim/internal/surface"
)

var vp = surface.Viewport{Width: 1280, Height: 720}

func TestGenerateStructure(t *testing.T) {
	tr := New(DefaultParams(), rand.New(rand.NewSource(7)))
	tr.Generate(40, vp)

	if tr.Len() != 40 {
		t.Fatalf("expected 40 nodes, got %d", tr.Len())
	}
	for i, n := range tr.Nodes() {
		if n.Phase < 0 || n.Phase >= 2*math.Pi {
			t.Errorf("node %d phase %v out of range", i, n.Phase)
		}
		if len(n.Connections) > tr.Neighbours(i) {
			t.Errorf("node %d has %d edges but only %d neighbours", i, len(n.Connections), tr.Neighbours(i))
		}
		seen := map[int]bool{}
		for _, j := range n.Connections {
			if j == i {
				t.Errorf("node %d links to itself", i)
			}
			if seen[j] {
				t.Errorf("node %d links to %d twice", i, j)
			}
			seen[j] = true
			if d := Distance(n, tr.Nodes()[j]); d >= 180 {
				t.Errorf("edge %d->%d spans %v >= 180", i, j, d)
			}
		}
	}
}

func TestRegenerateDiscards(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	tr := New(DefaultParams(), rng)
	tr.Generate(40, vp)
	first := tr.Nodes()

	tr.Generate(40, vp)
	if tr.Len() != 40 {
		t.Fatalf("expected 40 nodes after regeneration, got %d", tr.Len())
	}
	if &first[0] == &tr.Nodes()[0] {
		t.Error("regeneration reused the previous node slice")
	}

	tr.Generate(5, vp)
	for i, n := range tr.Nodes() {
		for _, j := range n.Connections {
			if j >= 5 {
				t.Errorf("node %d kept stale edge to %d", i, j)
			}
		}
	}
}

func TestSeededDeterminism(t *testing.T) {
	a := New(DefaultParams(), rand.New(rand.NewSource(42)))
	b := New(DefaultParams(), rand.New(rand.NewSource(42)))
	a.Generate(30, vp)
	b.Generate(30, vp)
	if a.Edges() != b.Edges() {
		t.Errorf("same seed produced %d and %d edges", a.Edges(), b.Edges())
	}
}

func TestAcceptanceExtremes(t *testing.T) {
	all := New(Params{LinkP: 1, LinkDistance: 1e9}, rand.New(rand.NewSource(1)))
	all.Generate(6, vp)
	if all.Edges() != 6*5 {
		t.Errorf("full acceptance: expected 30 directed edges, got %d", all.Edges())
	}

	p := DefaultParams()
	p.LinkP = 0
	p.ArchiveP = 0
	none := New(p, rand.New(rand.NewSource(1)))
	none.Generate(6, vp)
	if none.Edges() != 0 {
		t.Errorf("zero acceptance: expected no edges, got %d", none.Edges())
	}
	for _, n := range none.Nodes() {
		if n.Kind == Archive {
			t.Error("archive_p 0 should never produce archive nodes")
		}
	}
}

func TestArchiveShare(t *testing.T) {
	tr := New(DefaultParams(), rand.New(rand.NewSource(9)))
	tr.Generate(2000, surface.Viewport{Width: 100000, Height: 100000})
	archive := 0
	for _, n := range tr.Nodes() {
		if n.Kind == Archive {
			archive++
		}
	}
	share := float64(archive) / 2000
	if share < 0.15 || share > 0.25 {
		t.Errorf("archive share %v, want about 0.2", share)
	}
}

func TestRenderDrawsEveryStoredEdge(t *testing.T) {
	tr := New(DefaultParams(), rand.New(rand.NewSource(10)))
	tr.nodes = []Node{
		{X: 0, Y: 0, Connections: []int{1}, Kind: Archive},
		{X: 10, Y: 0, Connections: []int{0}},
		{X: 20, Y: 0},
	}
	rec := surface.NewRecorder(100, 100)
	tr.Render(rec, 0)

	if rec.Clears != 1 {
		t.Errorf("expected one clear, got %d", rec.Clears)
	}
	if rec.Count("line") != 2 {
		t.Errorf("reciprocal edges should be drawn twice, got %d lines", rec.Count("line"))
	}
	if rec.Count("circle") != 3 {
		t.Errorf("expected 3 node circles, got %d", rec.Count("circle"))
	}
	if rec.Ops[0].Kind != "line" || rec.Ops[len(rec.Ops)-1].Kind != "circle" {
		t.Error("edges must be drawn before nodes")
	}

	arch := rec.Ops[2]
	if arch.R != 6 || arch.Style.Color != surface.Teal {
		t.Errorf("archive node drawn as %+v", arch)
	}
	if math.Abs(arch.Style.Alpha-0.4) > 1e-12 {
		t.Errorf("node alpha at t=0 phase=0 = %v, want 0.4", arch.Style.Alpha)
	}
	if math.Abs(rec.Ops[0].Style.Alpha-0.15) > 1e-12 {
		t.Errorf("edge alpha at t=0 phase=0 = %v, want 0.15", rec.Ops[0].Style.Alpha)
	}
}
