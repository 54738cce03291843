package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/portalsim/internal/surface"
)

// TextureSurface queues draw calls during a coordinator frame and replays
// them into its render texture on Flush, so generators never touch GL
// state directly. Textures are (re)allocated lazily after a Resize.
type TextureSurface struct {
	*surface.Recorder
	tex    rl.RenderTexture2D
	loaded bool
	dirty  bool
	glow   *rl.Texture2D
}

func NewTextureSurface(w, h int, glow *rl.Texture2D) *TextureSurface {
	return &TextureSurface{Recorder: surface.NewRecorder(w, h), dirty: true, glow: glow}
}

func (t *TextureSurface) Resize(w, h int) {
	t.Recorder.Resize(w, h)
	t.dirty = true
}

// Stale reports whether the texture must be reallocated before drawing.
func (t *TextureSurface) Stale() bool { return t.dirty || !t.loaded }

func toColor(c surface.Color, alpha float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.NewColor(r, g, b, uint8(min(max(alpha, 0), 1)*255))
}

// Flush replays the queued ops into the texture.
func (t *TextureSurface) Flush() {
	if t.Stale() {
		if t.loaded {
			rl.UnloadRenderTexture(t.tex)
		}
		t.tex = rl.LoadRenderTexture(int32(max(t.W, 1)), int32(max(t.H, 1)))
		t.loaded = true
		t.dirty = false
	}

	rl.BeginTextureMode(t.tex)
	rl.ClearBackground(rl.Blank)
	for _, op := range t.Ops {
		switch op.Kind {
		case "circle":
			if t.glow != nil && t.glow.ID != 0 && op.Style.Blur > 0 {
				size := float32(op.R*2 + op.Style.Blur*2)
				scale := size / float32(t.glow.Width)
				pos := rl.NewVector2(float32(op.X)-size/2, float32(op.Y)-size/2)
				rl.BeginBlendMode(rl.BlendAdditive)
				rl.DrawTextureEx(*t.glow, pos, 0, scale, toColor(op.Style.Color, op.Style.Alpha*0.5))
				rl.EndBlendMode()
			}
			rl.DrawCircleV(rl.NewVector2(float32(op.X), float32(op.Y)), float32(op.R), toColor(op.Style.Color, op.Style.Alpha))
		case "line":
			rl.DrawLineEx(
				rl.NewVector2(float32(op.X), float32(op.Y)),
				rl.NewVector2(float32(op.X1), float32(op.Y1)),
				float32(max(op.Style.LineWidth, 1)),
				toColor(op.Style.Color, op.Style.Alpha),
			)
		}
	}
	rl.EndTextureMode()
}

// Draw blits the texture at the window origin. Render textures are stored
// upside down, hence the negative source height.
func (t *TextureSurface) Draw() {
	if !t.loaded {
		return
	}
	src := rl.NewRectangle(0, 0, float32(t.tex.Texture.Width), -float32(t.tex.Texture.Height))
	rl.DrawTextureRec(t.tex.Texture, src, rl.NewVector2(0, 0), rl.White)
}

func (t *TextureSurface) Unload() {
	if t.loaded {
		rl.UnloadRenderTexture(t.tex)
		t.loaded = false
	}
}
