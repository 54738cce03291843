package sim

var Planets = []string{"TITAN", "EUROPA", "MARS", "ENCELADUS"}

var FragmentTexts = []string{
	"MEMORY.LOG: Children in synthetic gardens",
	"BIOME.DATA: Methane lake resonance patterns",
	"RITUAL.REC: Pre-migration coffee ceremonies",
	"SPECIES.DNA: Cyborg butterfly neural maps",
	"ECHO.FRAGMENT: Titan wind formations",
	"CULTURAL.SEED: Server-lichen communication",
	"ECOSYSTEM.GHOST: Post-human footprints",
	"DATA.ARCHIVE: Algorithmic forest growth",
	"SIGNAL.TRACE: Biomimetic drone memories",
}

// pick returns a uniform index in [0, n).
func pick(rng Rand, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
