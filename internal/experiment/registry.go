package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/portalsim/internal/surface"
)

// PointerPath places the scripted pointer for frame i, or reports false to
// leave it where it is.
type PointerPath func(i int, vp surface.Viewport) (x, y float64, ok bool)

type Registry struct {
	paths map[string]PointerPath
}

func NewRegistry() *Registry {
	r := &Registry{paths: make(map[string]PointerPath)}

	r.paths["idle"] = func(int, surface.Viewport) (float64, float64, bool) {
		return 0, 0, false
	}
	r.paths["orbit"] = func(i int, vp surface.Viewport) (float64, float64, bool) {
		a := float64(i) * 2 * math.Pi / 120
		rad := math.Min(vp.W(), vp.H()) / 3
		return vp.W()/2 + rad*math.Cos(a), vp.H()/2 + rad*math.Sin(a), true
	}
	r.paths["scan"] = func(i int, vp surface.Viewport) (float64, float64, bool) {
		const step = 12.0
		cols := max(int(vp.W()/step), 1)
		rows := max(int(vp.H()/(4*step)), 1)
		row := (i / cols) % rows
		col := i % cols
		if row%2 == 1 {
			col = cols - 1 - col
		}
		return float64(col) * step, float64(row)*4*step + 2*step, true
	}
	return r
}

func (r *Registry) GetPath(name string) (PointerPath, error) {
	p, ok := r.paths[name]
	if !ok {
		return nil, fmt.Errorf("unknown pointer path: %s", name)
	}
	return p, nil
}

func (r *Registry) ListPaths() []string {
	names := make([]string, 0, len(r.paths))
	for name := range r.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
