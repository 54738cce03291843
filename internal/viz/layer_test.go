package viz

import (
	"testing"

	"github.com/san-kum/portalsim/internal/surface"
)

func TestCellsFor(t *testing.T) {
	tests := []struct {
		w, h, scale int
		cols, rows  int
	}{
		{1280, 720, 8, 80, 23},
		{16, 32, 8, 1, 1},
		{17, 33, 8, 2, 2},
		{0, 0, 8, 0, 0},
		{-5, 10, 0, 0, 3},
	}
	for _, tt := range tests {
		cols, rows := CellsFor(tt.w, tt.h, tt.scale)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("CellsFor(%d,%d,%d) = %dx%d, want %dx%d", tt.w, tt.h, tt.scale, cols, rows, tt.cols, tt.rows)
		}
	}
	if vp := ViewportFor(80, 23, 8); vp.Width != 1280 || vp.Height != 736 {
		t.Errorf("ViewportFor = %+v", vp)
	}
}

func TestLayerImplementsSurface(t *testing.T) {
	var _ surface.Surface = NewLayer(8)
}

func TestLayerDrawing(t *testing.T) {
	l := NewLayer(8)
	l.Resize(1280, 720)
	if w, h := l.Size(); w != 1280 || h != 720 {
		t.Fatalf("Size = %dx%d", w, h)
	}
	if l.Canvas().Width != 80 || l.Canvas().Height != 23 {
		t.Fatalf("canvas = %dx%d", l.Canvas().Width, l.Canvas().Height)
	}

	l.FillCircle(16, 32, 2, surface.Style{Color: surface.Mint, Alpha: 1})
	if l.Canvas().Grid[1][1] != blank|0x1 {
		t.Errorf("circle at (16,32) should light dot (2,4), got %U", l.Canvas().Grid[1][1])
	}

	l.Clear()
	l.FillCircle(16, 32, 2, surface.Style{Color: surface.Mint, Alpha: minInk / 2})
	l.StrokeLine(0, 0, 100, 100, surface.Style{Color: surface.Mint, Alpha: 0.01})
	if l.Canvas().Lit() != 0 {
		t.Error("faint strokes should be dropped")
	}

	l.StrokeLine(0, 0, 1279, 0, surface.Style{Color: surface.Teal, Alpha: 0.5})
	if l.Canvas().Lit() != 80 {
		t.Errorf("horizontal line should light the whole first row, got %d cells", l.Canvas().Lit())
	}
}

func TestCompose(t *testing.T) {
	a, b := NewLayer(1), NewLayer(1)
	a.Resize(4, 4)
	b.Resize(4, 4)
	a.FillCircle(0, 0, 0, surface.Style{Color: surface.Teal, Alpha: 1})
	b.FillCircle(1, 0, 0, surface.Style{Color: surface.Mint, Alpha: 1})

	dst := NewCanvas(2, 1)
	dst.Set(3, 3)
	Compose(dst, a, b)
	if dst.Grid[0][0] != blank|0x1|0x8 {
		t.Errorf("compose = %U", dst.Grid[0][0])
	}
	if dst.Grid[0][1] != blank {
		t.Error("compose should clear the destination first")
	}
	if dst.ink[0][0].color != surface.Mint {
		t.Error("later layers draw on top")
	}
}
