package surface

import (
	"math"
	"testing"
)

func TestMustHex(t *testing.T) {
	r, g, b := Mint.RGB255()
	if r != 0 || g != 255 || b != 170 {
		t.Errorf("Mint = %d,%d,%d, want 0,255,170", r, g, b)
	}
	if Teal.Hex() != "#4ecdc4" {
		t.Errorf("Teal.Hex() = %s", Teal.Hex())
	}
}

func TestMustHexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for malformed color")
		}
	}()
	MustHex("nope")
}

func TestFade(t *testing.T) {
	tests := []struct {
		alpha float64
		want  Color
	}{
		{1, Mint},
		{0, Void},
		{2, Mint},
		{-1, Void},
	}
	for _, tt := range tests {
		got := Fade(Mint, Void, tt.alpha)
		if math.Abs(got.R-tt.want.R) > 1e-9 || math.Abs(got.G-tt.want.G) > 1e-9 || math.Abs(got.B-tt.want.B) > 1e-9 {
			t.Errorf("Fade(alpha=%v) = %v, want %v", tt.alpha, got, tt.want)
		}
	}
}

func TestViewportClampsNegative(t *testing.T) {
	v := Viewport{Width: -5, Height: 10}
	if v.W() != 0 || v.H() != 10 {
		t.Errorf("got %v x %v", v.W(), v.H())
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(10, 20)
	r.FillCircle(1, 2, 3, Style{Alpha: 1})
	r.StrokeLine(0, 0, 5, 5, Style{})
	if r.Count("circle") != 1 || r.Count("line") != 1 {
		t.Errorf("unexpected ops: %+v", r.Ops)
	}
	r.Clear()
	if len(r.Ops) != 0 || r.Clears != 1 {
		t.Errorf("clear did not reset ops")
	}
	r.Resize(3, 4)
	if w, h := r.Size(); w != 3 || h != 4 || r.Resizes != 1 {
		t.Errorf("resize: got %dx%d (%d)", w, h, r.Resizes)
	}
}
