package config

import (
	"sort"

	"github.com/brunoga/deep"
)

// Presets tune the interaction for different input devices. Each is a
// full configuration derived from DefaultConfig.
var Presets = map[string]*Config{
	"desktop": DefaultConfig(),
	"mobile": with(func(c *Config) {
		c.Path.SnapThreshold = 36
		c.Path.DefaultWhisker = 48
		c.Path.MarginX, c.Path.MarginY = 32, 48
		c.Orbit.MagneticSnapDistance = 44
		c.Orbit.SnapThreshold = 22
		c.Orbit.RadiusRanges = [][2]float64{{70, 95}, {115, 145}}
		c.Orbit.MaxRadius = 170
	}),
	"patient": with(func(c *Config) {
		c.Dwell.DwellMs = 800
		c.Transition.DelayMs = 600
		c.Orbit.Blend = "smoothstep"
	}),
}

func with(fn func(*Config)) *Config {
	cfg := DefaultConfig()
	fn(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := deep.MustCopy(*cfg)
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
