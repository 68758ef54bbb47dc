package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/dwell"
	"github.com/san-kum/gesturenav/internal/manifold"
)

const (
	DefaultVariant      = controller.VariantPath
	DefaultTickMs       = 100
	DefaultDwellMs      = 250
	DefaultTransitionMs = 300
	DefaultLogLevel     = "info"
	DefaultHistoryLimit = 64
)

var (
	ErrInvalidVariant = errors.New("config: invalid variant")
	ErrInvalidTiming  = errors.New("config: tick and dwell must be positive")
	ErrInvalidLabels  = errors.New("config: labels must be distinct and non-empty")
	ErrInvalidOrbit   = errors.New("config: invalid orbit geometry")
	ErrInvalidPath    = errors.New("config: invalid path geometry")
)

type Config struct {
	Variant    string           `yaml:"variant"`
	Seed       int64            `yaml:"seed"`
	Path       PathConfig       `yaml:"path"`
	Orbit      OrbitConfig      `yaml:"orbit"`
	Dwell      DwellConfig      `yaml:"dwell"`
	Transition TransitionConfig `yaml:"transition"`
	Labels     LabelsConfig     `yaml:"labels"`
	Log        LogConfig        `yaml:"log"`
	History    HistoryConfig    `yaml:"history"`
}

type PathConfig struct {
	MarginX           float64 `yaml:"margin_x"`
	MarginY           float64 `yaml:"margin_y"`
	MinInterior       int     `yaml:"min_interior"`
	MaxInterior       int     `yaml:"max_interior"`
	SamplesPerSegment int     `yaml:"samples_per_segment"`
	Amplitude         float64 `yaml:"amplitude"`
	Jitter            float64 `yaml:"jitter"`
	SnapThreshold     float64 `yaml:"snap_threshold"`
	InitialT          float64 `yaml:"initial_t"`
	DefaultWhisker    float64 `yaml:"default_whisker"`
	MaxWhisker        float64 `yaml:"max_whisker"`
}

type OrbitConfig struct {
	MinSeparation        float64      `yaml:"min_separation"`
	RadiusRanges         [][2]float64 `yaml:"radius_ranges"`
	MinRadius            float64      `yaml:"min_radius"`
	MaxRadius            float64      `yaml:"max_radius"`
	MagneticSnapDistance float64      `yaml:"magnetic_snap_distance"`
	SnapThreshold        float64      `yaml:"snap_threshold"`
	// Blend is "linear" or "smoothstep".
	Blend string `yaml:"blend"`
}

type DwellConfig struct {
	TickMs  int `yaml:"tick_ms"`
	DwellMs int `yaml:"dwell_ms"`
}

type TransitionConfig struct {
	DelayMs int `yaml:"delay_ms"`
}

type LabelsConfig struct {
	Start string   `yaml:"start"`
	End   string   `yaml:"end"`
	Orbit []string `yaml:"orbit"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type HistoryConfig struct {
	Dir   string `yaml:"dir"`
	Limit int    `yaml:"limit"`
}

func DefaultConfig() *Config {
	po := controller.DefaultPathOptions()
	oo := controller.DefaultOrbitOptions()
	return &Config{
		Variant: DefaultVariant,
		Path: PathConfig{
			MarginX:           po.MarginX,
			MarginY:           po.MarginY,
			MinInterior:       po.MinInterior,
			MaxInterior:       po.MaxInterior,
			SamplesPerSegment: po.SamplesPerSegment,
			Amplitude:         po.Amplitude,
			Jitter:            po.Jitter,
			SnapThreshold:     po.SnapThreshold,
			InitialT:          po.InitialT,
			DefaultWhisker:    po.DefaultWhisker,
			MaxWhisker:        po.MaxWhisker,
		},
		Orbit: OrbitConfig{
			MinSeparation:        oo.MinSeparation,
			RadiusRanges:         oo.RadiusRanges,
			MinRadius:            oo.MinRadius,
			MaxRadius:            oo.MaxRadius,
			MagneticSnapDistance: oo.MagneticSnapDistance,
			SnapThreshold:        oo.SnapThreshold,
			Blend:                "linear",
		},
		Dwell:      DwellConfig{TickMs: DefaultTickMs, DwellMs: DefaultDwellMs},
		Transition: TransitionConfig{DelayMs: DefaultTransitionMs},
		Labels: LabelsConfig{
			Start: po.StartLabel,
			End:   po.EndLabel,
			Orbit: oo.Labels,
		},
		Log:     LogConfig{Level: DefaultLogLevel},
		History: HistoryConfig{Limit: DefaultHistoryLimit},
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
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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
	switch c.Variant {
	case controller.VariantPath, controller.VariantOrbit:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidVariant, c.Variant)
	}
	if c.Dwell.TickMs <= 0 || c.Dwell.DwellMs <= 0 {
		return ErrInvalidTiming
	}
	if c.Labels.Start == "" || c.Labels.End == "" || c.Labels.Start == c.Labels.End {
		return ErrInvalidLabels
	}
	seen := make(map[string]bool, len(c.Labels.Orbit))
	for _, l := range c.Labels.Orbit {
		if l == "" || seen[l] {
			return ErrInvalidLabels
		}
		seen[l] = true
	}
	if c.Path.MinInterior < 0 || c.Path.MaxInterior < c.Path.MinInterior {
		return fmt.Errorf("%w: interior points %d..%d", ErrInvalidPath, c.Path.MinInterior, c.Path.MaxInterior)
	}
	if c.Path.InitialT < 0 || c.Path.InitialT > 1 {
		return fmt.Errorf("%w: initial_t %v outside [0,1]", ErrInvalidPath, c.Path.InitialT)
	}
	if c.Orbit.MinRadius <= 0 || c.Orbit.MaxRadius <= c.Orbit.MinRadius {
		return fmt.Errorf("%w: radius bounds %v..%v", ErrInvalidOrbit, c.Orbit.MinRadius, c.Orbit.MaxRadius)
	}
	if len(c.Orbit.RadiusRanges) < len(c.Labels.Orbit) {
		return fmt.Errorf("%w: %d radius ranges for %d labels", ErrInvalidOrbit, len(c.Orbit.RadiusRanges), len(c.Labels.Orbit))
	}
	if _, err := blendFunc(c.Orbit.Blend); err != nil {
		return err
	}
	return nil
}

func blendFunc(name string) (manifold.BlendFunc, error) {
	switch name {
	case "", "linear":
		return manifold.LinearBlend, nil
	case "smoothstep":
		return manifold.SmoothstepBlend, nil
	}
	return nil, fmt.Errorf("%w: unknown blend %q", ErrInvalidOrbit, name)
}

func (c *Config) PathOptions() controller.PathOptions {
	return controller.PathOptions{
		PathOptions: manifold.PathOptions{
			MarginX:           c.Path.MarginX,
			MarginY:           c.Path.MarginY,
			MinInterior:       c.Path.MinInterior,
			MaxInterior:       c.Path.MaxInterior,
			SamplesPerSegment: c.Path.SamplesPerSegment,
			Amplitude:         c.Path.Amplitude,
			Jitter:            c.Path.Jitter,
		},
		StartLabel:     c.Labels.Start,
		EndLabel:       c.Labels.End,
		SnapThreshold:  c.Path.SnapThreshold,
		InitialT:       c.Path.InitialT,
		DefaultWhisker: c.Path.DefaultWhisker,
		MaxWhisker:     c.Path.MaxWhisker,
	}
}

func (c *Config) OrbitOptions() controller.OrbitOptions {
	blend, err := blendFunc(c.Orbit.Blend)
	if err != nil {
		blend = manifold.LinearBlend
	}
	oo := manifold.DefaultOrbitOptions()
	oo.MinSeparation = c.Orbit.MinSeparation
	oo.RadiusRanges = c.Orbit.RadiusRanges
	oo.MinRadius = c.Orbit.MinRadius
	oo.MaxRadius = c.Orbit.MaxRadius
	return controller.OrbitOptions{
		OrbitOptions:         oo,
		Labels:               append([]string(nil), c.Labels.Orbit...),
		MagneticSnapDistance: c.Orbit.MagneticSnapDistance,
		SnapThreshold:        c.Orbit.SnapThreshold,
		Blend:                blend,
	}
}

func (c *Config) DwellConfig() dwell.Config {
	return dwell.Config{
		Tick:  time.Duration(c.Dwell.TickMs) * time.Millisecond,
		Dwell: time.Duration(c.Dwell.DwellMs) * time.Millisecond,
	}
}

func (c *Config) TransitionDelay() time.Duration {
	return time.Duration(c.Transition.DelayMs) * time.Millisecond
}
