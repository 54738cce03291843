package gui

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/metrics"
	"github.com/san-kum/portalsim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 20, 255)
	ColAccent  = rl.NewColor(0, 255, 170, 255)
	ColTeal    = rl.NewColor(78, 205, 196, 255)
	ColText    = rl.NewColor(170, 190, 185, 255)
	ColTextDim = rl.NewColor(60, 75, 72, 255)
)

const (
	fontPath    = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	telemetryN  = 240
	rippleReach = 60
)

type App struct {
	cfg     *config.Config
	coord   *sim.Coordinator
	effects *sim.EffectLog

	Points    *TextureSurface
	Terrain   *TextureSurface
	Particles *TextureSurface

	Font      rl.Font
	GlowTex   rl.Texture2D
	Telemetry []float64
	Scanlines bool

	lastMouse rl.Vector2
}

func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), "portalsim")
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to the raylib default
// font when it is not installed.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// newApp wires the coordinator to three texture-backed layers. It does not
// touch GL state, so it can run before the window exists.
func newApp(cfg *config.Config, clock sim.Clock) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	a := &App{
		cfg:       cfg,
		effects:   sim.NewEffectLog(clock),
		Telemetry: make([]float64, 0, telemetryN),
	}
	a.Points = NewTextureSurface(cfg.Width, cfg.Height, &a.GlowTex)
	a.Terrain = NewTextureSurface(cfg.Width, cfg.Height, &a.GlowTex)
	a.Particles = NewTextureSurface(cfg.Width, cfg.Height, &a.GlowTex)

	opts := cfg.Options()
	opts.Rand = rand.New(rand.NewSource(seed))
	opts.Clock = clock
	opts.Effects = a.effects
	coord, err := sim.New(sim.Layers{Points: a.Points, Terrain: a.Terrain, Particles: a.Particles}, opts)
	if err != nil {
		return nil, fmt.Errorf("create coordinator: %w", err)
	}
	for _, m := range metrics.Defaults() {
		coord.AddMetric(m)
	}
	a.coord = coord
	return a, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config) error {
	a, err := newApp(cfg, sim.SystemClock{})
	if err != nil {
		return err
	}
	initWindow(cfg)
	defer rl.CloseWindow()

	a.Font = loadFont()
	img := rl.GenImageGradientRadial(32, 32, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	a.GlowTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(a.GlowTex)
	defer a.Points.Unload()
	defer a.Terrain.Unload()
	defer a.Particles.Unload()

	log.Printf("gui: window %dx%d at %d fps", cfg.Width, cfg.Height, cfg.FPS)
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update applies input and advances one frame. It returns false once the
// user asks to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		a.coord.Resize(w, h)
		log.Printf("gui: resized to %dx%d", w, h)
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if a.coord.Active() {
			a.coord.Pause()
		} else {
			a.coord.Resume()
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.coord.Regenerate()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.coord.ShowHome(!a.coord.Home())
	}
	if rl.IsKeyPressed(rl.KeyS) {
		a.Scanlines = !a.Scanlines
	}

	mouse := rl.GetMousePosition()
	if mouse != a.lastMouse {
		a.coord.PointerMove(float64(mouse.X), float64(mouse.Y))
		a.lastMouse = mouse
	}
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.coord.Click(float64(mouse.X), float64(mouse.Y))
	}

	if a.coord.Frame() {
		a.record(float64(a.coord.Stats().Particles))
	}
	return true
}

func (a *App) record(v float64) {
	if len(a.Telemetry) == telemetryN {
		copy(a.Telemetry, a.Telemetry[1:])
		a.Telemetry = a.Telemetry[:telemetryN-1]
	}
	a.Telemetry = append(a.Telemetry, v)
}

func (a *App) Draw() {
	a.Terrain.Flush()
	a.Points.Flush()
	a.Particles.Flush()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.coord.Home() {
		a.Terrain.Draw()
		a.Points.Draw()
		a.Particles.Draw()
		a.drawEffects()
	}
	if a.Scanlines {
		a.DrawScanlines()
	}
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) drawEffects() {
	now := time.Now()
	for _, e := range a.effects.Live() {
		p := float32(e.Progress(now))
		if e.Fragment {
			a.drawText(e.Text, int(e.X)+12, int(e.Y)-12-int(p*20), 14, rl.Fade(ColAccent, 1-p))
			continue
		}
		rl.DrawCircleLines(int32(e.X), int32(e.Y), p*rippleReach, rl.Fade(ColAccent, 1-p))
	}
}

func (a *App) DrawHUD() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	amb := a.coord.Ambient()

	a.drawText("portalsim", 30, 30, 24, ColAccent)
	a.drawText(":: "+a.coord.Coordinates(), 170, 34, 16, ColText)
	a.drawText(fmt.Sprintf("FRAGMENTS %d", a.coord.Fragments()), 30, 64, 14, ColText)
	a.drawText(fmt.Sprintf("DRONES    %d", amb.Drones), 30, 82, 14, ColText)
	a.drawText(fmt.Sprintf("PLANET    %s", amb.Planet), 30, 100, 14, ColText)
	a.drawText(fmt.Sprintf("SYNC      %d%%", amb.Sync), 30, 118, 14, ColTeal)

	status, col := "RUNNING", ColAccent
	switch {
	case !a.coord.Home():
		status, col = "AWAY", ColTextDim
	case !a.coord.Active():
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, w-130, 30, 16, col)

	a.DrawTelemetry(30, h-110, 400, 60)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-40, 14, ColTextDim)
	a.drawText("[SPACE] PAUSE  [R] REGEN  [H] HOME  [S] SCAN  [Q] QUIT", w-560, h-40, 14, ColTextDim)
}

// DrawScanlines darkens every fourth row for a CRT look.
func (a *App) DrawScanlines() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	for y := int32(0); y < h; y += 4 {
		rl.DrawRectangle(0, y, w, 2, rl.NewColor(0, 0, 0, 40))
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots the particle count history inside the given box.
func (a *App) DrawTelemetry(x, y, width, height int) {
	points := strip(a.Telemetry, x, y, width, height)
	if points == nil {
		return
	}
	rl.DrawLineStrip(points, ColAccent)
	last := a.Telemetry[len(a.Telemetry)-1]
	a.drawText(fmt.Sprintf("P: %.0f", last), x+width+10, y+height-10, 14, ColText)
}

// strip maps values onto a polyline filling the box, highest value on top.
func strip(values []float64, x, y, width, height int) []rl.Vector2 {
	if len(values) < 2 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	points := make([]rl.Vector2, len(values))
	for i, v := range values {
		px := float32(x) + float32(i)/float32(len(values)-1)*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	return points
}
