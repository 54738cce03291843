package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/portalsim/internal/surface"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, 0x2801},
		{1, 0, 0x2808},
		{0, 3, 0x2840},
		{1, 3, 0x2880},
	}
	for _, tt := range tests {
		c.Clear()
		c.Set(tt.x, tt.y)
		if c.Grid[0][0] != tt.want {
			t.Errorf("Set(%d,%d) = %U, want %U", tt.x, tt.y, c.Grid[0][0], tt.want)
		}
		c.Unset(tt.x, tt.y)
		if c.Grid[0][0] != blank {
			t.Errorf("Unset(%d,%d) left %U", tt.x, tt.y, c.Grid[0][0])
		}
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.Lit() != 0 {
		t.Error("out of range sets must be ignored")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 11, surface.Mint, 1)
	if c.Grid[0][0]&0x1 == 0 {
		t.Error("start point not lit")
	}
	if c.Grid[2][9] == blank {
		t.Error("end cell not lit")
	}
}

func TestCanvasFillDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillDisc(10, 10, 0.5, surface.Mint, 1)
	if c.Lit() != 1 {
		t.Errorf("sub-dot disc should light one cell, got %d", c.Lit())
	}

	c.Clear()
	c.FillDisc(10, 10, 4, surface.Mint, 1)
	dots := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			col, row := x/2, y/4
			if c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0 {
				dots++
			}
		}
	}
	// Lattice points inside a radius 4 circle.
	if dots != 49 {
		t.Errorf("expected 49 dots, got %d", dots)
	}
}

func TestCanvasRing(t *testing.T) {
	c := NewCanvas(20, 10)
	c.Ring(20, 20, 8, surface.Mint, 1)
	if c.Grid[5][10]&0x1 != 0 {
		t.Error("ring center should stay dark")
	}
	if c.Lit() == 0 {
		t.Error("ring drew nothing")
	}
	c.Clear()
	c.Ring(20, 20, 0, surface.Mint, 1)
	if c.Lit() != 0 {
		t.Error("zero radius ring should draw nothing")
	}
}

func TestCanvasOverlayTakesTopColor(t *testing.T) {
	bottom := NewCanvas(2, 1)
	top := NewCanvas(2, 1)
	bottom.Paint(0, 0, surface.Teal, 1)
	top.Paint(1, 1, surface.Mint, 0.5)
	bottom.Overlay(top)

	if bottom.Grid[0][0] != blank|0x1|0x10 {
		t.Errorf("overlay should union dots, got %U", bottom.Grid[0][0])
	}
	if bottom.ink[0][0].color != surface.Mint {
		t.Error("top layer color should win")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Paint(0, 0, surface.Mint, 1)
	out := c.Render(ThemePortal)
	if !strings.Contains(out, string(rune(0x2801))) {
		t.Error("rendered output lost the lit cell")
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
}

func TestThemeInk(t *testing.T) {
	bg := ThemePortal.background()
	if got := ThemePortal.inkHex(ink{color: surface.Mint, alpha: 1}, bg); got != "#00ffaa" {
		t.Errorf("full alpha mint = %s", got)
	}
	if got := ThemePortal.inkHex(ink{}, bg); got != string(ThemePortal.Primary) {
		t.Errorf("uncolored ink = %s, want primary", got)
	}
	if got := ThemeRetroGreen.inkHex(ink{color: surface.Mint, alpha: 1}, bg); got == "#00ffaa" {
		t.Error("tinted theme should shift colors")
	}
}

func TestThemeCycle(t *testing.T) {
	th := ThemePortal
	for range Themes {
		th = th.Next()
	}
	if th.Name != ThemePortal.Name {
		t.Errorf("cycling all themes ended at %s", th.Name)
	}
	if GetTheme("nope").Name != "portal" {
		t.Error("unknown theme should fall back to portal")
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 4); got != "────" {
		t.Errorf("empty sparkline = %q", got)
	}
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if SparklineChart(vals, 4) != SparklineChart(vals[4:], 4) {
		t.Error("sparkline should show the last values only")
	}
}
