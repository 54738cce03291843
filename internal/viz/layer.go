package viz

import (
	"math"

	"github.com/san-kum/portalsim/internal/surface"
)

// minInk hides strokes too faint to read as a whole braille dot.
const minInk = 0.04

// Layer is a surface.Surface drawn onto a braille canvas. One braille dot
// covers scale logical pixels on each axis.
type Layer struct {
	canvas *Canvas
	scale  float64
	w, h   int
}

func NewLayer(scale int) *Layer {
	return &Layer{canvas: NewCanvas(0, 0), scale: float64(max(scale, 1))}
}

// CellsFor returns the braille grid that covers a w x h logical viewport.
func CellsFor(w, h, scale int) (cols, rows int) {
	scale = max(scale, 1)
	return ceilDiv(max(w, 0), 2*scale), ceilDiv(max(h, 0), 4*scale)
}

// ViewportFor is the logical viewport covered by a cols x rows grid.
func ViewportFor(cols, rows, scale int) surface.Viewport {
	scale = max(scale, 1)
	return surface.Viewport{Width: max(cols, 0) * 2 * scale, Height: max(rows, 0) * 4 * scale}
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

func (l *Layer) Canvas() *Canvas { return l.canvas }

func (l *Layer) Size() (int, int) { return l.w, l.h }

func (l *Layer) Resize(w, h int) {
	l.w, l.h = max(w, 0), max(h, 0)
	cols, rows := CellsFor(l.w, l.h, int(l.scale))
	l.canvas = NewCanvas(cols, rows)
}

func (l *Layer) Clear() { l.canvas.Clear() }

func (l *Layer) FillCircle(x, y, r float64, st surface.Style) {
	if st.Alpha < minInk {
		return
	}
	l.canvas.FillDisc(x/l.scale, y/l.scale, r/l.scale, st.Color, st.Alpha)
}

func (l *Layer) StrokeLine(x0, y0, x1, y1 float64, st surface.Style) {
	if st.Alpha < minInk {
		return
	}
	l.canvas.DrawLine(
		int(math.Floor(x0/l.scale)), int(math.Floor(y0/l.scale)),
		int(math.Floor(x1/l.scale)), int(math.Floor(y1/l.scale)),
		st.Color, st.Alpha,
	)
}

// Compose overlays layers bottom to top onto dst.
func Compose(dst *Canvas, layers ...*Layer) {
	dst.Clear()
	for _, l := range layers {
		dst.Overlay(l.canvas)
	}
}
