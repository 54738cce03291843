package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/portalsim/internal/surface"
)

var (
	// Help overlay frame
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#2a3a44")).
			Padding(1, 2)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4a5a66"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffaa"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(11)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4a5a66")).
		Italic(true)

	// Active view tab
	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0a0a14")).
			Background(lipgloss.Color("#00ffaa")).
			Padding(0, 1)

	TabIdle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899")).
		Padding(0, 1)

	FragmentText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4c4a8")).
			Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffaa"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2a5a66"))
)

// GradientText colors each rune along a Lab blend between two colors.
func GradientText(text string, from, to lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	a := hexOr(from, surface.Mint)
	b := hexOr(to, surface.Teal)
	var out strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendLab(b, t).Clamped()
		out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return out.String()
}

var (
	spinner = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")
	levels  = []rune("▁▂▃▄▅▆▇█")
)

// AnimatedSpinner returns the spinner glyph for a frame number.
func AnimatedSpinner(frame int) string {
	return string(spinner[(frame%len(spinner)+len(spinner))%len(spinner)])
}

// sparkStyle buckets a normalized value into the three spark colors.
func sparkStyle(norm float64) lipgloss.Style {
	switch {
	case norm > 0.7:
		return SparkHigh
	case norm > 0.3:
		return SparkMid
	}
	return SparkLow
}

// ProgressBar renders percent in [0,1] as a bar colored by how full it is.
func ProgressBar(percent float64, width int) string {
	width = max(width, 0)
	filled := min(max(int(percent*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return sparkStyle(percent).Render(bar)
}

// SparklineChart renders the most recent width values as a sparkline.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var out strings.Builder
	top := len(levels) - 1
	for _, v := range values {
		norm := (v - lo) / span
		idx := min(max(int(norm*float64(top)), 0), top)
		out.WriteString(sparkStyle(norm).Render(string(levels[idx])))
	}
	return out.String()
}

// Separator is a rule with a centered diamond.
func Separator(width int) string {
	if width < 6 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	half := (width - 3) / 2
	return Subtle.Render(strings.Repeat("─", half) + " ◆ " + strings.Repeat("─", width-3-half))
}
