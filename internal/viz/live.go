package viz

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/graph"
	"github.com/san-kum/portalsim/internal/metrics"
	"github.com/san-kum/portalsim/internal/sim"
	"github.com/san-kum/portalsim/internal/surface"
)

const (
	panelWidth      = 36
	tabRows         = 1
	canvasPadX      = 2
	canvasPadY      = 1
	historyCapacity = 240
	rippleRadius    = 60.0
	dragReach       = 40.0
)

// Views in tab order. The first one is home.
var Views = []string{"Portal", "Research", "Methods", "Design", "Materials", "Community"}

const (
	viewPortal   = 0
	viewResearch = 1
)

var viewNotes = map[string][]string{
	"Methods": {
		"Terrain datasets from Titan and the Mars MOLA DEM",
		"are read as fields of points and archive nodes.",
		"",
		"Game simulation drives energy flows and data loops",
		"through the cyborg ecosystem.",
	},
	"Design": {
		"Vertical datascape drawings translate the loops",
		"into sections of a planetary urbanism.",
	},
	"Materials": {
		"Material gesture models record how robot",
		"infrastructure and bio-mimicry organisms meet.",
	},
	"Community": {
		"Archive fragments are collected by visitors.",
		"Click the portal field to recover one.",
	},
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(canvasPadY, canvasPadX)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(panelWidth)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffaa")).Padding(1, 0)
	notesStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899"))
)

type TickMsg time.Time

// Model is the terminal portal: three braille layers driven by a
// coordinator, the research graph and a readout panel.
type Model struct {
	cfg     *config.Config
	clock   sim.Clock
	coord   *sim.Coordinator
	effects *sim.EffectLog

	points, terrain, particles *Layer
	screen                     *Canvas
	scale                      int

	graph      *graph.Layout
	graphLayer *Layer
	dragging   int

	theme         Theme
	view          int
	width, height int
	history       []float64
	lastTick      time.Time
	fps           float64
	ticks         int
	showHelp      bool
}

// NewModel builds the coordinator and its layers from cfg. A nil clock
// means wall time.
func NewModel(cfg *config.Config, clock sim.Clock) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	if clock == nil {
		clock = sim.SystemClock{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	m := Model{
		cfg:       cfg,
		clock:     clock,
		effects:   sim.NewEffectLog(clock),
		points:    NewLayer(cfg.CellPixels),
		terrain:   NewLayer(cfg.CellPixels),
		particles: NewLayer(cfg.CellPixels),
		scale:     max(cfg.CellPixels, 1),
		dragging:  -1,
		theme:     GetTheme(cfg.Theme),
		history:   make([]float64, 0, historyCapacity),
	}

	cols, rows := CellsFor(cfg.Width, cfg.Height, m.scale)
	vp := ViewportFor(cols, rows, m.scale)
	opts := cfg.Options()
	opts.Viewport = vp
	opts.Rand = rng
	opts.Clock = clock
	opts.Effects = m.effects

	coord, err := sim.New(sim.Layers{Points: m.points, Terrain: m.terrain, Particles: m.particles}, opts)
	if err != nil {
		return Model{}, fmt.Errorf("create coordinator: %w", err)
	}
	for _, mt := range metrics.Defaults() {
		coord.AddMetric(mt)
	}
	m.coord = coord
	m.screen = NewCanvas(cols, rows)
	m.graph = graph.Default(vp.W(), vp.H(), rng)
	m.graphLayer = NewLayer(m.scale)
	m.graphLayer.Resize(vp.Width, vp.Height)
	return m, nil
}

func (m Model) Coordinator() *sim.Coordinator { return m.coord }

func (m Model) View() string {
	return m.render()
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and runs one coordinator frame per tick. The
// tick is re-armed unconditionally so a paused portal can resume.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.view == viewPortal {
				if m.coord.Active() {
					m.coord.Pause()
				} else {
					m.coord.Resume()
				}
			}
		case "tab", "right", "l":
			m.setView(m.view + 1)
		case "shift+tab", "left", "h":
			m.setView(m.view - 1)
		case "p", "home":
			m.setView(viewPortal)
		case "r":
			if m.view == viewResearch {
				m.graph.Reheat(1)
			} else {
				m.coord.Regenerate()
			}
		case "t":
			m.theme = m.theme.Next()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.step(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) setView(i int) {
	n := len(Views)
	m.view = ((i % n) + n) % n
	m.coord.ShowHome(m.view == viewPortal)
	if m.dragging >= 0 {
		_ = m.graph.Release(m.dragging)
		m.dragging = -1
	}
	log.Printf("view %s", Views[m.view])
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	cols := max(width-panelWidth-1-2*canvasPadX, 1)
	rows := max(height-tabRows-2*canvasPadY-1, 1)
	vp := ViewportFor(cols, rows, m.scale)
	m.coord.Resize(vp.Width, vp.Height)
	m.screen = NewCanvas(cols, rows)
	m.graphLayer.Resize(vp.Width, vp.Height)
	m.graph.Resize(vp.W(), vp.H())
	log.Printf("resize %dx%d cells -> %dx%d px", cols, rows, vp.Width, vp.Height)
}

// toLogical maps a terminal cell to the logical pixel at its center.
func (m *Model) toLogical(x, y int) (float64, float64, bool) {
	col := x - canvasPadX
	row := y - tabRows - canvasPadY
	if col < 0 || row < 0 || col >= m.screen.Width || row >= m.screen.Height {
		return 0, 0, false
	}
	s := float64(m.scale)
	return float64(col*2+1) * s, float64(row*4+2) * s, true
}

func (m *Model) mouse(msg tea.MouseMsg) {
	x, y, ok := m.toLogical(msg.X, msg.Y)
	if !ok {
		return
	}
	switch m.view {
	case viewPortal:
		switch {
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			m.coord.Click(x, y)
		case msg.Action == tea.MouseActionMotion:
			m.coord.PointerMove(x, y)
		}
	case viewResearch:
		switch msg.Action {
		case tea.MouseActionPress:
			if i := m.graph.Nearest(x, y, dragReach); i >= 0 {
				m.dragging = i
				_ = m.graph.Pin(i, x, y)
			}
		case tea.MouseActionMotion:
			if m.dragging >= 0 {
				_ = m.graph.Pin(m.dragging, x, y)
			}
		case tea.MouseActionRelease:
			if m.dragging >= 0 {
				_ = m.graph.Release(m.dragging)
				m.dragging = -1
			}
		}
	}
}

func (m *Model) step(now time.Time) {
	m.ticks++
	if !m.lastTick.IsZero() {
		if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
			m.fps = 0.9*m.fps + 0.1/dt
		}
	}
	m.lastTick = now

	if m.coord.Frame() {
		Compose(m.screen, m.terrain, m.points, m.particles)
		m.drawEffects()
		m.history = append(m.history, float64(m.coord.Stats().Particles))
		if len(m.history) > historyCapacity {
			m.history = m.history[1:]
		}
	}
	if m.view == viewResearch {
		if !m.graph.Settled() {
			m.graph.Tick()
		}
		m.graph.Render(m.graphLayer)
		Compose(m.screen, m.graphLayer)
	}
}

func (m *Model) drawEffects() {
	now := m.clock.Now()
	s := float64(m.scale)
	for _, e := range m.effects.Live() {
		p := e.Progress(now)
		cx, cy := e.X/s, e.Y/s
		if e.Fragment {
			m.screen.FillDisc(cx, cy, 1.5, surface.Teal, 1-p)
			continue
		}
		m.screen.Ring(cx, cy, 1+p*rippleRadius/s, surface.Mint, 1-p)
	}
}

func (m Model) render() string {
	var body string
	switch m.view {
	case viewPortal, viewResearch:
		body = strings.TrimSuffix(m.screen.Render(m.theme), "\n")
	default:
		body = notesStyle.Width(m.screen.Width).Height(m.screen.Height).Render(strings.Join(viewNotes[Views[m.view]], "\n"))
	}
	canvasView := canvasStyle.Render(body)
	statsView := statsStyle.Render(m.panel())
	mainView := lipgloss.JoinVertical(lipgloss.Left, m.tabs(), lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView))
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, GlassPanel.Render(helpText), mainView)
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

Space      Pause/Resume the portal
Tab / →    Next view
S-Tab / ←  Previous view
P          Back to the portal
R          Regenerate field (portal) or reheat graph
T          Cycle themes
?          Toggle this help
Q          Quit

Mouse: move to trail, click to collect, drag graph nodes`

func (m Model) tabs() string {
	parts := make([]string, len(Views))
	for i, v := range Views {
		if i == m.view {
			parts[i] = TabActive.Render(v)
		} else {
			parts[i] = TabIdle.Render(v)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func statRow(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value) + "\n"
}

func (m Model) panel() string {
	var s strings.Builder
	title := "PORTAL // " + strings.ToUpper(Views[m.view])
	s.WriteString(GradientText(title, m.theme.Primary, m.theme.Secondary) + "\n\n")

	switch {
	case m.coord.Active():
		s.WriteString(StatusRunning.Render(AnimatedSpinner(m.ticks)+" LIVE") + "\n\n")
	case m.coord.Home():
		s.WriteString(StatusPaused.Render("❚❚ PAUSED") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("○ AWAY") + "\n\n")
	}

	if m.view == viewResearch {
		s.WriteString(m.graphPanel())
	} else {
		s.WriteString(m.portalPanel())
	}

	s.WriteString("\n" + Separator(panelWidth-4) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause TAB:View T:Theme\nR:Regen  ?:Help  Q:Quit"))
	return s.String()
}

func (m Model) portalPanel() string {
	var s strings.Builder
	amb := m.coord.Ambient()
	stats := m.coord.Stats()
	mv := m.coord.MetricValues()

	s.WriteString(statRow("Coords", m.coord.Coordinates()))
	s.WriteString(statRow("Fragments", fmt.Sprintf("%d", m.coord.Fragments())))
	s.WriteString(statRow("Drones", fmt.Sprintf("%d", amb.Drones)))
	s.WriteString(statRow("Planet", amb.Planet))
	s.WriteString(MetricLabel.Render("Sync") + ProgressBar(float64(amb.Sync)/100, 12) + MetricValue.Render(fmt.Sprintf(" %d%%", amb.Sync)) + "\n")
	s.WriteString(statRow("Particles", fmt.Sprintf("%-5d", stats.Particles)+SparklineChart(m.history, 12)))
	s.WriteString(statRow("Frames", fmt.Sprintf("%d", stats.Frame)))
	s.WriteString(statRow("FPS", fmt.Sprintf("%.0f", m.fps)))
	s.WriteString(statRow("Frame", fmt.Sprintf("%.2fms", mv["frame_ms"])))
	s.WriteString(statRow("Peak", fmt.Sprintf("%.0f", mv["peak_particles"])))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(panelWidth-12), asciigraph.Caption("Particles"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	ripples, fragments := 0, 0
	for _, e := range m.effects.Live() {
		if e.Fragment {
			fragments++
		} else {
			ripples++
		}
	}
	s.WriteString(statRow("Ripples", fmt.Sprintf("%d", ripples)))
	s.WriteString(statRow("Popups", fmt.Sprintf("%d", fragments)))
	if last := m.effects.LastFragment(); last != "" {
		s.WriteString("\n" + FragmentText.Width(panelWidth-4).Render("“"+last+"”") + "\n")
	}
	return s.String()
}

func (m Model) graphPanel() string {
	var s strings.Builder
	s.WriteString(statRow("Nodes", fmt.Sprintf("%d", len(m.graph.Nodes))))
	s.WriteString(statRow("Links", fmt.Sprintf("%d", len(m.graph.Links))))
	s.WriteString(statRow("Alpha", fmt.Sprintf("%.3f", m.graph.Alpha())))
	s.WriteString(statRow("Ticks", fmt.Sprintf("%d", m.graph.Ticks())))
	if m.dragging >= 0 {
		s.WriteString(statRow("Dragging", m.graph.Nodes[m.dragging].ID))
	}
	s.WriteString("\n")
	for _, g := range graph.Groups {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color.Hex())).Render("●")
		s.WriteString(dot + " " + Subtle.Render(g.Name) + "\n")
	}
	return s.String()
}
