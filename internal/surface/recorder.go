package surface

// Op is one recorded draw call.
type Op struct {
	Kind   string // "clear", "circle", "line"
	X, Y   float64
	X1, Y1 float64
	R      float64
	Style  Style
}

// Recorder is an in-memory Surface that keeps the draw calls of the last
// frame. Clear drops everything recorded so far.
type Recorder struct {
	W, H    int
	Ops     []Op
	Clears  int
	Resizes int
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) Resize(w, h int) {
	r.W, r.H = w, h
	r.Resizes++
}

func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.Clears++
}

func (r *Recorder) FillCircle(x, y, rad float64, st Style) {
	r.Ops = append(r.Ops, Op{Kind: "circle", X: x, Y: y, R: rad, Style: st})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1 float64, st Style) {
	r.Ops = append(r.Ops, Op{Kind: "line", X: x0, Y: y0, X1: x1, Y1: y1, Style: st})
}

// Count returns how many recorded ops have the given kind.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
