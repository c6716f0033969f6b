// Package vehicle models the tracked vehicle: its physical constants,
// actuator limits and the discrete kinematic update applied once per tick.
package vehicle

import "math"

// State is the running pose and speed of the vehicle together with the
// tracking errors of the previous tick. It is owned by a single control
// loop and is not safe for concurrent use.
type State struct {
	X, Y   float64 // [m]
	Yaw    float64 // [rad]
	V      float64 // signed longitudinal speed [m/s]
	Gear   Gear
	ECg    float64 // lateral error of the last tick [m]
	ThetaE float64 // heading error of the last tick [rad]

	cfg Config
}

func New(cfg Config, x, y, yaw, v float64, gear Gear) *State {
	if gear == 0 {
		gear = Drive
	}
	return &State{X: x, Y: y, Yaw: yaw, V: v, Gear: gear, cfg: cfg}
}

func (s *State) Config() Config { return s.cfg }

func (s *State) Clone() *State {
	c := *s
	return &c
}

// UpdateState applies one tick of the forward-Euler bicycle model.
// Steering and acceleration are saturated to the configured limits before
// use and the resulting speed is saturated to the speed limit.
func (s *State) UpdateState(steer, accel, eCg, thetaE float64, gear Gear) {
	steer, accel = s.RegulateInput(steer, accel)
	dt := s.cfg.Dt

	s.Gear = gear
	s.X += s.V * math.Cos(s.Yaw) * dt
	s.Y += s.V * math.Sin(s.Yaw) * dt
	s.Yaw += s.V / s.cfg.Params.Wheelbase() * math.Tan(steer) * dt
	s.ECg = eCg
	s.ThetaE = thetaE

	if gear == Reverse {
		s.V -= accel * dt
	} else {
		s.V += accel * dt
	}
	s.V = s.RegulateOutput(s.V)
}

// RegulateInput clamps steer to ±MaxSteer and accel to ±MaxAccel.
func (s *State) RegulateInput(steer, accel float64) (float64, float64) {
	l := s.cfg.Limits
	return clamp(steer, -l.MaxSteer, l.MaxSteer), clamp(accel, -l.MaxAccel, l.MaxAccel)
}

// RegulateOutput clamps a speed to ±MaxSpeed.
func (s *State) RegulateOutput(v float64) float64 {
	max := s.cfg.Limits.MaxSpeed()
	return clamp(v, -max, max)
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
