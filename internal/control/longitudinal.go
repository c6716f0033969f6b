package control

import (
	"fmt"

	"github.com/san-kum/trackctl/internal/vehicle"
)

// LongitudinalConfig holds the speed gain and the goal braking override.
type LongitudinalConfig struct {
	Kp                float64 `yaml:"kp"`
	StopDistance      float64 `yaml:"stop_distance"`       // [m]
	ForwardBrakeSpeed float64 `yaml:"forward_brake_speed"` // [m/s]
	ForwardBrake      float64 `yaml:"forward_brake"`       // [m/s^2]
	ReverseBrakeSpeed float64 `yaml:"reverse_brake_speed"` // [m/s], negative
	ReverseBrake      float64 `yaml:"reverse_brake"`       // [m/s^2]
}

func DefaultLongitudinalConfig() LongitudinalConfig {
	return LongitudinalConfig{
		Kp:                0.3,
		StopDistance:      11.0,
		ForwardBrakeSpeed: 2.0,
		ForwardBrake:      -3.0,
		ReverseBrakeSpeed: -2.0,
		ReverseBrake:      -1.0,
	}
}

func (c LongitudinalConfig) Validate() error {
	if c.Kp <= 0 {
		return fmt.Errorf("%w: kp must be positive, got %g", ErrInvalidConfig, c.Kp)
	}
	if c.StopDistance < 0 {
		return fmt.Errorf("%w: stop_distance must be non-negative, got %g", ErrInvalidConfig, c.StopDistance)
	}
	return nil
}

// Longitudinal is a proportional speed controller. It keeps no state.
type Longitudinal struct {
	cfg LongitudinalConfig
}

func NewLongitudinal(cfg LongitudinalConfig) *Longitudinal {
	return &Longitudinal{cfg: cfg}
}

func (c *Longitudinal) Config() LongitudinalConfig { return c.cfg }

// ComputeAcceleration returns Kp·(target − v), replaced by a fixed braking
// command once the goal is closer than StopDistance and the vehicle is
// still moving faster than the brake speed thresholds.
func (c *Longitudinal) ComputeAcceleration(target float64, s *vehicle.State, distToGoal float64) float64 {
	a := c.cfg.Kp * (target - s.V)

	if distToGoal < c.cfg.StopDistance {
		if s.V > c.cfg.ForwardBrakeSpeed {
			a = c.cfg.ForwardBrake
		} else if s.V < c.cfg.ReverseBrakeSpeed {
			a = c.cfg.ReverseBrake
		}
	}
	return a
}
