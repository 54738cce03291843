package graph

import "github.com/san-kum/portalsim/internal/surface"

// Groups in legend order with their fill colors.
var Groups = []struct {
	Name  string
	Color surface.Color
}{
	{"Data Source", surface.MustHex("#8b7355")},
	{"Geographic Feature", surface.MustHex("#a67c52")},
	{"System Component", surface.MustHex("#7a6b47")},
	{"System Layer", surface.MustHex("#6b5b42")},
	{"Theme", surface.MustHex("#5c4b37")},
	{"Dynamic Process", surface.MustHex("#9c8a70")},
	{"Platform", surface.MustHex("#b8a085")},
	{"Output", surface.MustHex("#d4c4a8")},
}

// GroupColor returns the fill for a group, falling back to the first one.
func GroupColor(group string) surface.Color {
	for _, g := range Groups {
		if g.Name == group {
			return g.Color
		}
	}
	return Groups[0].Color
}

type Concept struct {
	ID    string
	Group string
}

// Concepts and Relations form the research concept map.
var Concepts = []Concept{
	{"Titan Terrain Data", "Data Source"},
	{"Mars MOLA DEM", "Data Source"},
	{"Methane Lakes", "Geographic Feature"},
	{"Robot Infrastructure", "System Component"},
	{"Bio-mimicry Organisms", "System Component"},
	{"Cyborg Ecosystem", "System Layer"},
	{"Planetary Urbanism", "Theme"},
	{"Post-Human Society", "Theme"},
	{"Energy Flows", "Dynamic Process"},
	{"Data Loops", "Dynamic Process"},
	{"Game Simulation", "Platform"},
	{"Vertical Datascape Drawing", "Output"},
	{"Material Gesture Model", "Output"},
}

var Relations = [][2]string{
	{"Titan Terrain Data", "Methane Lakes"},
	{"Mars MOLA DEM", "Robot Infrastructure"},
	{"Methane Lakes", "Bio-mimicry Organisms"},
	{"Robot Infrastructure", "Cyborg Ecosystem"},
	{"Bio-mimicry Organisms", "Cyborg Ecosystem"},
	{"Cyborg Ecosystem", "Planetary Urbanism"},
	{"Cyborg Ecosystem", "Post-Human Society"},
	{"Cyborg Ecosystem", "Energy Flows"},
	{"Energy Flows", "Data Loops"},
	{"Data Loops", "Game Simulation"},
	{"Game Simulation", "Vertical Datascape Drawing"},
	{"Game Simulation", "Material Gesture Model"},
}
