package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/portalsim/internal/graph"
	"github.com/san-kum/portalsim/internal/surface"
)

const (
	legendRow  = 18.0
	labelColor = "#d4c4a8"
)

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// GraphSVG writes the concept graph with node labels and a group legend.
// The layout is scaled to fit width x height.
func GraphSVG(w io.Writer, l *graph.Layout, width, height int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="monospace">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, surface.Void.Hex())

	project := fitTo(l, float64(width), float64(height))

	sb.WriteString("<g stroke=\"#9c8a70\" stroke-opacity=\"0.6\" stroke-width=\"1.5\">\n")
	for _, lk := range l.Links {
		x0, y0 := project(l.Nodes[lk.Source])
		x1, y1 := project(l.Nodes[lk.Target])
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1)
	}
	sb.WriteString("</g>\n<g>\n")
	for _, n := range l.Nodes {
		x, y := project(n)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="20" fill="%s" stroke="#0a0a14" stroke-width="1.5"><title>%s</title></circle>`+"\n",
			x, y, graph.GroupColor(n.Group).Hex(), escape(n.Group))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="11">%s</text>`+"\n",
			x+24, y+4, labelColor, escape(n.ID))
	}
	sb.WriteString("</g>\n")

	top := float64(height) - legendRow*float64(len(graph.Groups)) - 10
	sb.WriteString("<g font-size=\"11\">\n")
	for i, g := range graph.Groups {
		y := top + legendRow*float64(i)
		fmt.Fprintf(&sb, `<rect x="12" y="%.1f" width="12" height="12" fill="%s"/>`+"\n", y, g.Color.Hex())
		fmt.Fprintf(&sb, `<text x="30" y="%.1f" fill="%s">%s</text>`+"\n", y+10, labelColor, escape(g.Name))
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// fitTo maps layout coordinates into a width x height box with a margin
// wide enough for node radii and labels.
func fitTo(l *graph.Layout, width, height float64) func(graph.Node) (float64, float64) {
	const margin = 40.0
	minX, minY, maxX, maxY := l.Bounds()
	spanX, spanY := math.Max(maxX-minX, 1), math.Max(maxY-minY, 1)
	k := math.Min((width-4*margin)/spanX, (height-2*margin-legendRow*float64(len(graph.Groups)))/spanY)
	k = math.Max(math.Min(k, 1), 0.1)
	ox := (width - spanX*k) / 2
	oy := margin
	return func(n graph.Node) (float64, float64) {
		return ox + (n.X-minX)*k, oy + (n.Y-minY)*k
	}
}
