package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/path"
	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/vehicle"
)

const (
	DefaultDt             = 0.1
	DefaultMaxTime        = 500.0
	DefaultPath           = "sine"
	DefaultDs             = 0.1
	DefaultTargetSpeedKmh = 25.0
	DefaultInitialSpeed   = 1.0
	DefaultGoalDistance   = 0.3
	DefaultGoalSpeed      = 5.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Dt           float64                    `yaml:"dt"`
	MaxTime      float64                    `yaml:"max_time"`
	Vehicle      vehicle.Params             `yaml:"vehicle"`
	Limits       vehicle.Limits             `yaml:"limits"`
	LQR          control.LQRConfig          `yaml:"lqr"`
	Longitudinal control.LongitudinalConfig `yaml:"longitudinal"`
	Scenario     ScenarioConfig             `yaml:"scenario"`
}

type ScenarioConfig struct {
	Path           string       `yaml:"path"`
	Ds             float64      `yaml:"ds"`
	TargetSpeedKmh float64      `yaml:"target_speed_kmh"`
	InitialSpeed   float64      `yaml:"initial_speed"` // [m/s]
	Gear           vehicle.Gear `yaml:"gear"`
	Offset         OffsetConfig `yaml:"offset"`
	GoalDistance   float64      `yaml:"goal_distance"`
	GoalSpeed      float64      `yaml:"goal_speed"`
}

// OffsetConfig perturbs the start pose relative to the first path sample.
type OffsetConfig struct {
	Lateral float64 `yaml:"lateral"` // along the left normal [m]
	Heading float64 `yaml:"heading"` // [rad]
}

func DefaultConfig() *Config {
	return &Config{
		Dt:           DefaultDt,
		MaxTime:      DefaultMaxTime,
		Vehicle:      vehicle.DefaultParams(),
		Limits:       vehicle.DefaultLimits(),
		LQR:          control.DefaultLQRConfig(),
		Longitudinal: control.DefaultLongitudinalConfig(),
		Scenario: ScenarioConfig{
			Path:           DefaultPath,
			Ds:             DefaultDs,
			TargetSpeedKmh: DefaultTargetSpeedKmh,
			InitialSpeed:   DefaultInitialSpeed,
			Gear:           vehicle.Drive,
			GoalDistance:   DefaultGoalDistance,
			GoalSpeed:      DefaultGoalSpeed,
		},
	}
}

// Load reads a YAML file over the defaults, so partial files are allowed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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
	if c.MaxTime <= 0 {
		return fmt.Errorf("%w: max_time must be positive, got %g", ErrInvalid, c.MaxTime)
	}
	if err := c.VehicleConfig().Validate(); err != nil {
		return err
	}
	if err := c.LQR.Validate(); err != nil {
		return err
	}
	if err := c.Longitudinal.Validate(); err != nil {
		return err
	}

	s := c.Scenario
	if !lo.Contains(path.Shapes(), s.Path) {
		return fmt.Errorf("%w: unknown path %q (available: %v)", ErrInvalid, s.Path, path.Shapes())
	}
	if s.Ds <= 0 {
		return fmt.Errorf("%w: ds must be positive, got %g", ErrInvalid, s.Ds)
	}
	if s.TargetSpeedKmh < 0 || s.TargetSpeedKmh > c.Limits.MaxSpeedKmh {
		return fmt.Errorf("%w: target_speed_kmh %g outside [0, %g]", ErrInvalid, s.TargetSpeedKmh, c.Limits.MaxSpeedKmh)
	}
	if s.Gear != vehicle.Drive && s.Gear != vehicle.Reverse {
		return fmt.Errorf("%w: gear must be drive or reverse", ErrInvalid)
	}
	if s.GoalDistance < 0 || s.GoalSpeed < 0 {
		return fmt.Errorf("%w: goal thresholds must be non-negative", ErrInvalid)
	}
	return nil
}

func (c *Config) VehicleConfig() vehicle.Config {
	return vehicle.Config{Dt: c.Dt, Params: c.Vehicle, Limits: c.Limits}
}

func (c *Config) LateralConfig() control.LateralConfig {
	return control.LateralConfig{Vehicle: c.VehicleConfig(), LQR: c.LQR}
}

func (c *Config) LongitudinalConfig() control.LongitudinalConfig {
	return c.Longitudinal
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:           c.Dt,
		MaxTime:      c.MaxTime,
		TargetSpeed:  c.Scenario.TargetSpeedKmh / 3.6,
		GoalDistance: c.Scenario.GoalDistance,
		GoalSpeed:    c.Scenario.GoalSpeed,
		Gear:         c.Scenario.Gear,
	}
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
