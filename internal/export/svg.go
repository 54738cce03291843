package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/portalsim/internal/surface"
	"github.com/san-kum/portalsim/internal/viz"
)

// SVGSurface records draw calls as SVG elements. Blurred styles share a
// gaussian filter per distinct blur radius.
type SVGSurface struct {
	w, h    int
	body    strings.Builder
	filters map[float64]string
}

func NewSVGSurface(w, h int) *SVGSurface {
	return &SVGSurface{w: w, h: h, filters: map[float64]string{}}
}

func (s *SVGSurface) Size() (int, int) { return s.w, s.h }

func (s *SVGSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.Clear()
}

func (s *SVGSurface) Clear() { s.body.Reset() }

func (s *SVGSurface) filter(blur float64) string {
	if blur <= 0 {
		return ""
	}
	id, ok := s.filters[blur]
	if !ok {
		id = fmt.Sprintf("blur%d", len(s.filters))
		s.filters[blur] = id
	}
	return fmt.Sprintf(` filter="url(#%s)"`, id)
}

func (s *SVGSurface) FillCircle(x, y, r float64, st surface.Style) {
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f"%s/>`+"\n",
		x, y, r, st.Color.Hex(), st.Alpha, s.filter(st.Blur))
}

func (s *SVGSurface) StrokeLine(x0, y0, x1, y1 float64, st surface.Style) {
	fmt.Fprintf(&s.body, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"%s/>`+"\n",
		x0, y0, x1, y1, st.Color.Hex(), st.Alpha, st.LineWidth, s.filter(st.Blur))
}

// Elements is the number of drawn elements since the last Clear.
func (s *SVGSurface) Elements() int {
	return strings.Count(s.body.String(), "\n")
}

// WriteSVG stacks layers bottom to top over a solid background.
func WriteSVG(w io.Writer, bg surface.Color, layers ...*SVGSurface) error {
	width, height := 0, 0
	for _, l := range layers {
		width, height = max(width, l.w), max(height, l.h)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height)

	sb.WriteString("<defs>\n")
	for i, l := range layers {
		for blur, id := range l.filters {
			fmt.Fprintf(&sb, `<filter id="l%d%s" x="-50%%" y="-50%%" width="200%%" height="200%%"><feGaussianBlur stdDeviation="%.2f"/></filter>`+"\n",
				i, id, blur/2)
		}
	}
	sb.WriteString("</defs>\n")
	fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", bg.Hex())

	for i, l := range layers {
		fmt.Fprintf(&sb, "<g id=\"layer%d\">\n", i)
		// Filter ids are scoped per layer so two layers may share a radius.
		sb.WriteString(strings.ReplaceAll(l.body.String(), "url(#blur", fmt.Sprintf("url(#l%dblur", i)))
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// CanvasToSVG converts a braille canvas to SVG, one dot per set sub-pixel,
// colored with the cell's ink.
func CanvasToSVG(canvas *viz.Canvas, scale float64, bg surface.Color) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg.Hex())

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			c, alpha := canvas.Ink(col, row)
			fill := surface.Mint.Hex()
			if alpha > 0 {
				fill = c.Hex()
			} else {
				alpha = 1
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" fill-opacity="%.2f"/>`+"\n",
						cx, cy, dotRadius, fill, 0.35+0.65*alpha)
				}
			}
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// SeriesToSVG draws values as a polyline over their index, padded by 10%.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY, maxY = math.Min(minY, v), math.Max(maxY, v)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, surface.Void.Hex(), strokeColor)

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
