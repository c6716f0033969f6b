package vehicle

import (
	"errors"
	"fmt"
)

// ErrInvalidParams indicates a physical constant that cannot describe a vehicle.
var ErrInvalidParams = errors.New("vehicle: invalid parameters")

// Params are the bicycle-model constants of one vehicle.
type Params struct {
	FrontToCG      float64 `yaml:"front_to_cg"`     // l_f [m]
	RearToCG       float64 `yaml:"rear_to_cg"`      // l_r [m]
	FrontMass      float64 `yaml:"front_mass"`      // m_f [kg]
	RearMass       float64 `yaml:"rear_mass"`       // m_r [kg]
	FrontCornering float64 `yaml:"front_cornering"` // c_f [N/rad]
	RearCornering  float64 `yaml:"rear_cornering"`  // c_r [N/rad]
	YawInertia     float64 `yaml:"yaw_inertia"`     // I_z [kg m^2]
}

// Limits are the actuator and speed saturation bounds.
type Limits struct {
	MaxSteer    float64 `yaml:"max_steer"`     // [rad]
	MaxAccel    float64 `yaml:"max_accel"`     // [m/s^2]
	MaxSpeedKmh float64 `yaml:"max_speed_kmh"` // [km/h]
}

// Config bundles everything a State needs to integrate itself.
type Config struct {
	Dt     float64
	Params Params
	Limits Limits
}

func DefaultParams() Params {
	p := Params{
		FrontToCG:      1.165,
		RearToCG:       1.165,
		FrontMass:      570,
		RearMass:       570,
		FrontCornering: 155494.663,
		RearCornering:  155494.663,
	}
	p.YawInertia = p.FrontToCG*p.FrontToCG*p.FrontMass + p.RearToCG*p.RearToCG*p.RearMass
	return p
}

func DefaultLimits() Limits {
	return Limits{
		MaxSteer:    0.6981317, // 40°
		MaxAccel:    5.0,
		MaxSpeedKmh: 35.0,
	}
}

func DefaultConfig() Config {
	return Config{Dt: 0.1, Params: DefaultParams(), Limits: DefaultLimits()}
}

func (p Params) Wheelbase() float64 { return p.FrontToCG + p.RearToCG }
func (p Params) Mass() float64      { return p.FrontMass + p.RearMass }

// UndersteerGradient is the k_v term of the steady-state steering relation.
func (p Params) UndersteerGradient() float64 {
	m, l := p.Mass(), p.Wheelbase()
	return p.RearToCG*m/(2*p.FrontCornering*l) - p.FrontToCG*m/(2*p.RearCornering*l)
}

func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"front_to_cg", p.FrontToCG},
		{"rear_to_cg", p.RearToCG},
		{"front_mass", p.FrontMass},
		{"rear_mass", p.RearMass},
		{"front_cornering", p.FrontCornering},
		{"rear_cornering", p.RearCornering},
		{"yaw_inertia", p.YawInertia},
	}
	for _, f := range fields {
		if f.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParams, f.name, f.v)
		}
	}
	return nil
}

// MaxSpeed returns the speed bound in m/s.
func (l Limits) MaxSpeed() float64 { return l.MaxSpeedKmh / 3.6 }

func (l Limits) Validate() error {
	if l.MaxSteer <= 0 || l.MaxAccel <= 0 || l.MaxSpeedKmh <= 0 {
		return fmt.Errorf("%w: limits must be positive (steer=%g accel=%g speed=%g)",
			ErrInvalidParams, l.MaxSteer, l.MaxAccel, l.MaxSpeedKmh)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, c.Dt)
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return c.Limits.Validate()
}
