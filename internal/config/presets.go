package config

import "sort"

// Presets are overlays on DefaultConfig, keyed by name.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Field.Count = 300
		c.Field.Amplitude = 6
		c.Terrain.Count = 24
		c.Terrain.LinkP = 0.15
		c.Input.RippleP = 0.02
	},
	"dense": func(c *Config) {
		c.Field.Count = 1500
		c.Terrain.Count = 90
		c.Terrain.LinkDistance = 140
	},
	"storm": func(c *Config) {
		c.Field.Amplitude = 40
		c.Particles.Spread = 4
		c.Input.RippleP = 0.2
		c.Input.CollectP = 0.7
		c.Ambient.FragmentP = 0.8
	},
	"sparse": func(c *Config) {
		c.Field.Count = 120
		c.Terrain.Count = 12
		c.Terrain.LinkDistance = 320
		c.Terrain.LinkP = 0.5
	},
}

func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
