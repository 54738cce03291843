package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/portalsim/internal/surface"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// ink is the strongest color drawn into a cell.
type ink struct {
	color surface.Color
	alpha float64
}

// Canvas is a braille dot grid where each cell also remembers the
// brightest color that touched it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	ink           [][]ink
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		ink:    make([][]ink, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.ink[i] = make([]ink, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return col, row, true
}

// Set lights sub-pixel (x, y) without changing the cell color.
func (c *Canvas) Set(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Paint lights a sub-pixel and records its color if it is the brightest
// one in the cell so far.
func (c *Canvas) Paint(x, y int, col surface.Color, alpha float64) {
	cx, cy, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[cy][cx] |= rune(pixelMap[y%4][x%2])
	if alpha >= c.ink[cy][cx].alpha {
		c.ink[cy][cx] = ink{color: col, alpha: alpha}
	}
}

func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.ink[i][j] = ink{}
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col surface.Color, alpha float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Paint(x0, y0, col, alpha)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillDisc fills every sub-pixel within r of (cx, cy). Discs smaller than a
// dot still light the center.
func (c *Canvas) FillDisc(cx, cy, r float64, col surface.Color, alpha float64) {
	if r < 1 {
		c.Paint(int(math.Floor(cx)), int(math.Floor(cy)), col, alpha)
		return
	}
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	r2 := r * r
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r2 {
				c.Paint(x, y, col, alpha)
			}
		}
	}
}

// Ring outlines a circle of radius r.
func (c *Canvas) Ring(cx, cy, r float64, col surface.Color, alpha float64) {
	if r <= 0 {
		return
	}
	steps := max(int(2*math.Pi*r), 8)
	for i := range steps {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.Paint(int(math.Round(cx+r*math.Cos(a))), int(math.Round(cy+r*math.Sin(a))), col, alpha)
	}
}

// Overlay merges the dots of src into c. Cells lit in src take src's color.
func (c *Canvas) Overlay(src *Canvas) {
	for row := 0; row < min(c.Height, src.Height); row++ {
		for col := 0; col < min(c.Width, src.Width); col++ {
			bits := src.Grid[row][col] - blank
			if bits == 0 {
				continue
			}
			c.Grid[row][col] |= bits
			c.ink[row][col] = src.ink[row][col]
		}
	}
}

// Ink returns the color and alpha recorded for a cell.
func (c *Canvas) Ink(col, row int) (surface.Color, float64) {
	if row < 0 || row >= c.Height || col < 0 || col >= c.Width {
		return surface.Color{}, 0
	}
	k := c.ink[row][col]
	return k.color, k.alpha
}

// Lit counts cells with at least one dot set.
func (c *Canvas) Lit() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colors each cell with its ink faded toward the theme background.
// Runs of the same color share one style.
func (c *Canvas) Render(th Theme) string {
	bg := th.background()
	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		var runColor string
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for col, r := range c.Grid[row] {
			hex := ""
			if r != blank {
				hex = th.inkHex(c.ink[row][col], bg)
			}
			if hex != runColor {
				flush()
				runColor = hex
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
