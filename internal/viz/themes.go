package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/portalsim/internal/surface"
)

// Theme defines color scheme for the TUI. A theme with a Tint pulls every
// generator color toward it; without one the site palette shows through.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Tint       lipgloss.Color
}

var (
	ThemePortal = Theme{
		Name:       "portal",
		Primary:    lipgloss.Color("#00ffaa"), // Mint
		Secondary:  lipgloss.Color("#4ecdc4"), // Teal
		Accent:     lipgloss.Color("#d4c4a8"),
		Background: lipgloss.Color("#0a0a14"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4a5a66"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Primary:    lipgloss.Color("#39ff7a"), // P1 phosphor
		Secondary:  lipgloss.Color("#1fbf5a"),
		Accent:     lipgloss.Color("#a8ffc4"),
		Background: lipgloss.Color("#020d06"),
		Text:       lipgloss.Color("#39ff7a"),
		Muted:      lipgloss.Color("#0f4a24"),
		Tint:       lipgloss.Color("#39ff7a"),
	}

	ThemeEuropa = Theme{
		Name:       "europa",
		Primary:    lipgloss.Color("#cfe8ff"), // ice
		Secondary:  lipgloss.Color("#7fb2e5"),
		Accent:     lipgloss.Color("#b07a5a"),
		Background: lipgloss.Color("#06101c"),
		Text:       lipgloss.Color("#eef6ff"),
		Muted:      lipgloss.Color("#3d5570"),
		Tint:       lipgloss.Color("#a9d4ff"),
	}

	ThemeTitan = Theme{
		Name:       "titan",
		Primary:    lipgloss.Color("#e8a94f"), // haze
		Secondary:  lipgloss.Color("#c47a2c"),
		Accent:     lipgloss.Color("#6fa3a0"),
		Background: lipgloss.Color("#1a1008"),
		Text:       lipgloss.Color("#f5e6cf"),
		Muted:      lipgloss.Color("#6b5238"),
		Tint:       lipgloss.Color("#d9913a"),
	}

	Themes = []Theme{
		ThemePortal,
		ThemeRetroGreen,
		ThemeEuropa,
		ThemeTitan,
	}
)

// GetTheme returns a theme by name, falling back to the portal theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePortal
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t in Themes.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func hexOr(c lipgloss.Color, fallback surface.Color) surface.Color {
	if c == "" {
		return fallback
	}
	v, err := colorful.Hex(string(c))
	if err != nil {
		return fallback
	}
	return v
}

func (t Theme) background() surface.Color {
	return hexOr(t.Background, surface.Void)
}

// inkHex resolves a cell color for the terminal. Faint strokes are lifted so
// that low-alpha edges remain visible on a character grid.
func (t Theme) inkHex(k ink, bg surface.Color) string {
	c := k.color
	if k.alpha == 0 {
		return string(t.Primary)
	}
	if t.Tint != "" {
		c = c.BlendLab(hexOr(t.Tint, c), 0.7)
	}
	return surface.Fade(c, bg, 0.35+0.65*k.alpha).Hex()
}
