package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/portalsim/internal/field"
	"github.com/san-kum/portalsim/internal/particles"
	"github.com/san-kum/portalsim/internal/sim"
	"github.com/san-kum/portalsim/internal/surface"
	"github.com/san-kum/portalsim/internal/terrain"
)

const (
	DefaultWidth      = 1280
	DefaultHeight     = 720
	DefaultFPS        = 60
	DefaultPoints     = 600
	DefaultNodes      = 40
	DefaultCellPixels = 8
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	FPS        int            `yaml:"fps"`
	Seed       int64          `yaml:"seed"`
	Theme      string         `yaml:"theme"`
	CellPixels int            `yaml:"cell_pixels"`
	DataDir    string         `yaml:"data_dir"`
	Field      FieldConfig    `yaml:"field"`
	Terrain    TerrainConfig  `yaml:"terrain"`
	Particles  ParticleConfig `yaml:"particles"`
	Input      InputConfig    `yaml:"input"`
	Ambient    AmbientConfig  `yaml:"ambient"`
}

type FieldConfig struct {
	Count       int     `yaml:"count"`
	Amplitude   float64 `yaml:"amplitude"`
	Margin      float64 `yaml:"margin"`
	Focal       float64 `yaml:"focal"`
	Attenuation float64 `yaml:"attenuation"`
}

type TerrainConfig struct {
	Count        int     `yaml:"count"`
	LinkDistance float64 `yaml:"link_distance"`
	LinkP        float64 `yaml:"link_p"`
	ArchiveP     float64 `yaml:"archive_p"`
}

type ParticleConfig struct {
	Spread float64 `yaml:"spread"`
	Limit  int     `yaml:"limit"`
}

type InputConfig struct {
	RippleP  float64 `yaml:"ripple_p"`
	CollectP float64 `yaml:"collect_p"`
}

type AmbientConfig struct {
	DataInterval     time.Duration `yaml:"data_interval"`
	FragmentInterval time.Duration `yaml:"fragment_interval"`
	FragmentP        float64       `yaml:"fragment_p"`
	DroneP           float64       `yaml:"drone_p"`
}

func DefaultConfig() *Config {
	fp := field.DefaultParams()
	tp := terrain.DefaultParams()
	return &Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FPS:        DefaultFPS,
		Theme:      "portal",
		CellPixels: DefaultCellPixels,
		DataDir:    ".portalsim",
		Field: FieldConfig{
			Count:       DefaultPoints,
			Amplitude:   fp.Amplitude,
			Margin:      fp.Margin,
			Focal:       fp.Focal,
			Attenuation: fp.Attenuation,
		},
		Terrain: TerrainConfig{
			Count:        DefaultNodes,
			LinkDistance: tp.LinkDistance,
			LinkP:        tp.LinkP,
			ArchiveP:     tp.ArchiveP,
		},
		Particles: ParticleConfig{Spread: particles.DefaultParams().Spread},
		Input:     InputConfig{RippleP: 0.05, CollectP: 0.4},
		Ambient: AmbientConfig{
			DataInterval:     8 * time.Second,
			FragmentInterval: 6 * time.Second,
			FragmentP:        0.3,
			DroneP:           0.2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	if c.CellPixels <= 0 {
		return fmt.Errorf("%w: cell_pixels must be positive, got %d", ErrInvalidConfig, c.CellPixels)
	}
	if c.Field.Count < 0 || c.Terrain.Count < 0 {
		return fmt.Errorf("%w: negative generator count", ErrInvalidConfig)
	}
	if c.Particles.Limit < 0 {
		return fmt.Errorf("%w: particles.limit must not be negative", ErrInvalidConfig)
	}
	probs := map[string]float64{
		"terrain.link_p":     c.Terrain.LinkP,
		"terrain.archive_p":  c.Terrain.ArchiveP,
		"input.ripple_p":     c.Input.RippleP,
		"input.collect_p":    c.Input.CollectP,
		"ambient.fragment_p": c.Ambient.FragmentP,
		"ambient.drone_p":    c.Ambient.DroneP,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: %s must be within [0,1], got %g", ErrInvalidConfig, name, p)
		}
	}
	return nil
}

func (c *Config) Viewport() surface.Viewport {
	return surface.Viewport{Width: c.Width, Height: c.Height}
}

// Options maps the file layout onto coordinator options. Rand, Clock and
// Effects are left for the host to fill in.
func (c *Config) Options() sim.Options {
	opts := sim.DefaultOptions()
	opts.Viewport = c.Viewport()
	opts.PointCount = c.Field.Count
	opts.NodeCount = c.Terrain.Count
	opts.Field.Amplitude = c.Field.Amplitude
	opts.Field.Margin = c.Field.Margin
	opts.Field.Focal = c.Field.Focal
	opts.Field.Attenuation = c.Field.Attenuation
	opts.Terrain.LinkDistance = c.Terrain.LinkDistance
	opts.Terrain.LinkP = c.Terrain.LinkP
	opts.Terrain.ArchiveP = c.Terrain.ArchiveP
	opts.Particles.Spread = c.Particles.Spread
	opts.Particles.Limit = c.Particles.Limit
	opts.RippleP = c.Input.RippleP
	opts.CollectP = c.Input.CollectP
	opts.DataInterval = c.Ambient.DataInterval
	opts.FragmentInterval = c.Ambient.FragmentInterval
	opts.AmbientFragmentP = c.Ambient.FragmentP
	opts.DroneChangeP = c.Ambient.DroneP
	return opts
}

func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
