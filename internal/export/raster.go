package export

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/san-kum/portalsim/internal/surface"
)

// RasterSurface draws with the HTML5-style canvas on a software backend,
// so blur becomes a real shadow glow.
type RasterSurface struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	w, h    int
	glow    bool
}

// NewRasterSurface creates a transparent w x h surface. glow enables the
// shadow blur for styles that ask for it.
func NewRasterSurface(w, h int, glow bool) *RasterSurface {
	r := &RasterSurface{glow: glow}
	r.Resize(w, h)
	return r
}

func (r *RasterSurface) Size() (int, int) { return r.w, r.h }

func (r *RasterSurface) Resize(w, h int) {
	r.w, r.h = max(w, 1), max(h, 1)
	r.backend = softwarebackend.New(r.w, r.h)
	r.cv = canvas.New(r.backend)
}

func (r *RasterSurface) Clear() {
	r.cv.ClearRect(0, 0, float64(r.w), float64(r.h))
}

func (r *RasterSurface) style(st surface.Style) {
	r.cv.SetGlobalAlpha(math.Max(0, math.Min(1, st.Alpha)))
	if r.glow && st.Blur > 0 {
		r.cv.SetShadowColor(st.Color.Hex())
		r.cv.SetShadowBlur(st.Blur)
	} else {
		r.cv.SetShadowBlur(0)
	}
}

func (r *RasterSurface) FillCircle(x, y, rad float64, st surface.Style) {
	if rad <= 0 {
		return
	}
	r.style(st)
	r.cv.SetFillStyle(st.Color.Hex())
	r.cv.BeginPath()
	r.cv.Arc(x, y, rad, 0, 2*math.Pi, false)
	r.cv.Fill()
}

func (r *RasterSurface) StrokeLine(x0, y0, x1, y1 float64, st surface.Style) {
	r.style(st)
	r.cv.SetStrokeStyle(st.Color.Hex())
	r.cv.SetLineWidth(math.Max(st.LineWidth, 0.5))
	r.cv.BeginPath()
	r.cv.MoveTo(x0, y0)
	r.cv.LineTo(x1, y1)
	r.cv.Stroke()
}

func (r *RasterSurface) Image() *image.RGBA { return r.backend.Image }

// Flatten draws layers bottom to top over a solid background.
func Flatten(bg surface.Color, layers ...*RasterSurface) *image.RGBA {
	w, h := 1, 1
	for _, l := range layers {
		w, h = max(w, l.w), max(h, l.h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	for _, l := range layers {
		draw.Draw(dst, l.Image().Bounds(), l.Image(), image.Point{}, draw.Over)
	}
	return dst
}

// WritePNG flattens layers and encodes the result.
func WritePNG(w io.Writer, bg surface.Color, layers ...*RasterSurface) error {
	return png.Encode(w, Flatten(bg, layers...))
}
