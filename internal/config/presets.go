package config

import (
	"sort"

	"github.com/samber/lo"
)

var Presets = map[string]*Config{
	"demo": DefaultConfig(),
	"straight": with(func(c *Config) {
		c.Scenario.Path = "straight"
	}),
	"offset": with(func(c *Config) {
		c.Scenario.Path = "straight"
		c.Scenario.TargetSpeedKmh = 18
		c.Scenario.InitialSpeed = 5
		c.Scenario.Offset = OffsetConfig{Lateral: 1.0}
	}),
	"lane_change": with(func(c *Config) {
		c.Scenario.Path = "lane_change"
	}),
	"arc": with(func(c *Config) {
		c.Scenario.Path = "arc"
		c.Scenario.TargetSpeedKmh = 20
	}),
	"slow": with(func(c *Config) {
		c.Scenario.TargetSpeedKmh = 10
	}),
	"stiff": with(func(c *Config) {
		c.LQR.Q = [4]float64{2.0, 0, 2.0, 0}
		c.LQR.R = 0.5
	}),
}

func with(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	sort.Strings(names)
	return names
}
