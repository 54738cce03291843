package surface

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear-free sRGB color; hosts convert it with RGB255 or Hex.
type Color = colorful.Color

// Style describes how a primitive is painted.
type Style struct {
	Color     Color
	Alpha     float64
	Blur      float64
	LineWidth float64
}

// Surface is an independent 2D drawing target. Every generator owns one.
type Surface interface {
	Size() (w, h int)
	Resize(w, h int)
	Clear()
	FillCircle(x, y, r float64, st Style)
	StrokeLine(x0, y0, x1, y1 float64, st Style)
}

// Viewport is the logical pixel area the generators populate.
type Viewport struct {
	Width, Height int
}

func (v Viewport) W() float64 { return float64(max(v.Width, 0)) }
func (v Viewport) H() float64 { return float64(max(v.Height, 0)) }

// MustHex parses a #rrggbb literal. It panics on malformed input and is
// only meant for package-level palette tables.
func MustHex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("surface: bad color " + s)
	}
	return c
}

// Fade blends c toward bg by 1-alpha, clamped to [0,1].
func Fade(c, bg Color, alpha float64) Color {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	return bg.BlendRgb(c, alpha).Clamped()
}
