package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/trajectory"
	"github.com/san-kum/trackctl/internal/vehicle"
)

var log = logrus.WithField("module", "sim")

const timeEps = 1e-9

// maxSampleHint caps the preallocated sample buffer; longer runs grow it.
const maxSampleHint = 1 << 16

// Simulator drives one vehicle along one reference path. Each Simulator
// owns its state and analyzer; run independent instances for parallel work.
type Simulator struct {
	lat   *control.Lateral
	lon   *control.Longitudinal
	an    *trajectory.Analyzer
	state *vehicle.State

	initial   *vehicle.State
	metrics   []Metric
	observers []Observer

	t        float64
	steps    int
	warnings int
}

func New(lat *control.Lateral, lon *control.Longitudinal, an *trajectory.Analyzer, state *vehicle.State) *Simulator {
	return &Simulator{
		lat:       lat,
		lon:       lon,
		an:        an,
		state:     state,
		initial:   state.Clone(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) State() *vehicle.State          { return s.state }
func (s *Simulator) Analyzer() *trajectory.Analyzer { return s.an }
func (s *Simulator) Time() float64                  { return s.t }

// Reset rewinds the simulator to its initial state and a fresh cursor.
func (s *Simulator) Reset() {
	s.state = s.initial.Clone()
	s.an = trajectory.NewAnalyzer(s.an.Path())
	s.t, s.steps, s.warnings = 0, 0, 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg, err := s.resolve(cfg)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, min(int(cfg.MaxTime/cfg.Dt)+1, maxSampleHint)),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	var runErr error
	for result.Stop == StopNone {
		select {
		case <-ctx.Done():
			result.Stop = StopCanceled
			runErr = ctx.Err()
			continue
		default:
		}

		sample, err := s.Step(cfg)
		switch {
		case errors.Is(err, trajectory.ErrPathExhausted):
			result.Stop = StopPathEnd
			continue
		case err != nil:
			var simErr SimError
			if !errors.As(err, &simErr) {
				return nil, err
			}
			result.Stop = StopInvalid
			runErr = err
			continue
		}

		result.Samples = append(result.Samples, sample)
		result.Stop = s.Check(cfg, sample)
	}

	result.Steps = s.steps
	result.Warnings = s.warnings
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.WithFields(logrus.Fields{
		"steps":    result.Steps,
		"stop":     result.Stop.String(),
		"warnings": result.Warnings,
		"t":        s.t,
	}).Debug("run finished")

	return result, runErr
}

// Step advances one control tick: distance to goal, steering, acceleration,
// then the state update.
func (s *Simulator) Step(cfg Config) (Sample, error) {
	cfg, err := s.resolve(cfg)
	if err != nil {
		return Sample{}, err
	}

	st := s.state
	st.Gear = cfg.Gear
	gx, gy := s.an.Path().End()
	dist := math.Hypot(st.X-gx, st.Y-gy)

	steer, err := s.lat.ComputeSteering(st, s.an)
	if err != nil {
		return Sample{}, err
	}
	accel := s.lon.ComputeAcceleration(cfg.TargetSpeed, gearFrame(st), dist)
	appliedSteer, appliedAccel := st.RegulateInput(steer.Angle, accel)

	st.UpdateState(steer.Angle, accel, steer.LateralError, steer.HeadingError, cfg.Gear)
	s.t += cfg.Dt
	s.steps++
	if !steer.Converged {
		s.warnings++
	}

	sample := Sample{
		T:            s.t,
		X:            st.X,
		Y:            st.Y,
		Yaw:          st.Yaw,
		V:            st.V,
		Steer:        appliedSteer,
		Accel:        appliedAccel,
		LateralError: steer.LateralError,
		HeadingError: steer.HeadingError,
		Index:        steer.Index,
		DistToGoal:   dist,
		Converged:    steer.Converged,
	}
	if !finite(st.X, st.Y, st.Yaw, st.V) {
		return sample, SimError{Time: s.t, Step: s.steps, Message: "invalid state (NaN/Inf)"}
	}

	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
	return sample, nil
}

// Check reports why a run should stop after sample, or StopNone.
// The goal test uses the distance measured before the tick's update.
func (s *Simulator) Check(cfg Config, smp Sample) StopReason {
	switch {
	case smp.DistToGoal < cfg.GoalDistance && math.Abs(smp.V) < cfg.GoalSpeed:
		return StopGoal
	case s.pastEnd():
		return StopPathEnd
	case cfg.MaxTime > 0 && smp.T >= cfg.MaxTime-timeEps:
		return StopTime
	}
	return StopNone
}

// pastEnd is true once the cursor sits on the last sample and the vehicle
// lies ahead of it along the final path segment.
func (s *Simulator) pastEnd() bool {
	p := s.an.Path()
	n := p.Len()
	if n < 2 || s.an.Cursor() < n-1 {
		return false
	}
	tx := p.X[n-1] - p.X[n-2]
	ty := p.Y[n-1] - p.Y[n-2]
	return (s.state.X-p.X[n-1])*tx+(s.state.Y-p.Y[n-1])*ty > 0
}

// gearFrame returns a copy of st whose speed is measured along the gear's
// direction of travel. The longitudinal law and UpdateState both work in
// that frame, so reverse uses the same target and brake constants as drive.
func gearFrame(st *vehicle.State) *vehicle.State {
	gs := *st
	gs.V = st.Gear.Sign() * st.V
	return &gs
}

func (s *Simulator) resolve(cfg Config) (Config, error) {
	vdt := s.state.Config().Dt
	if cfg.Dt == 0 {
		cfg.Dt = vdt
	}
	if cfg.Gear == 0 {
		cfg.Gear = s.state.Gear
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	if math.Abs(cfg.Dt-vdt) > timeEps {
		return cfg, fmt.Errorf("dt %g does not match the vehicle tick %g", cfg.Dt, vdt)
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.MaxTime <= 0 {
		return fmt.Errorf("max_time must be positive, got %f", cfg.MaxTime)
	}
	if cfg.TargetSpeed < 0 {
		return fmt.Errorf("target_speed must be non-negative, got %f", cfg.TargetSpeed)
	}
	if cfg.GoalDistance < 0 || cfg.GoalSpeed < 0 {
		return fmt.Errorf("goal thresholds must be non-negative")
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
