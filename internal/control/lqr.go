package control

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/trackctl/internal/lqr"
	"github.com/san-kum/trackctl/internal/trajectory"
	"github.com/san-kum/trackctl/internal/vehicle"
	"gonum.org/v1/gonum/mat"
)

// StateSize is the length of the lateral error state
// [e, ė, θ, θ̇].
const StateSize = 4

// ErrInvalidConfig indicates controller settings that cannot be used.
var ErrInvalidConfig = errors.New("control: invalid configuration")

// LQRConfig holds the cost weights and solver settings.
type LQRConfig struct {
	Q             [StateSize]float64 `yaml:"q"`
	R             float64            `yaml:"r"`
	Tolerance     float64            `yaml:"tolerance"`
	MaxIterations int                `yaml:"max_iterations"`
	// MinSpeed floors |v| when building the model, which divides by v.
	MinSpeed float64 `yaml:"min_speed"`
}

type LateralConfig struct {
	Vehicle vehicle.Config
	LQR     LQRConfig
}

// DefaultLQRConfig weights lateral and heading error, Q = diag(0.5, 0, 1, 0),
// and leaves their rates free.
func DefaultLQRConfig() LQRConfig {
	return LQRConfig{
		Q:             [StateSize]float64{0.5, 0.0, 1.0, 0.0},
		R:             1.0,
		Tolerance:     0.01,
		MaxIterations: 150,
		MinSpeed:      0.1,
	}
}

func DefaultLateralConfig() LateralConfig {
	return LateralConfig{Vehicle: vehicle.DefaultConfig(), LQR: DefaultLQRConfig()}
}

func (c LQRConfig) Validate() error {
	for i, q := range c.Q {
		if q < 0 {
			return fmt.Errorf("%w: q[%d] must be non-negative, got %g", ErrInvalidConfig, i, q)
		}
	}
	if c.R <= 0 {
		return fmt.Errorf("%w: r must be positive, got %g", ErrInvalidConfig, c.R)
	}
	if c.Tolerance <= 0 || c.MaxIterations <= 0 {
		return fmt.Errorf("%w: tolerance and max_iterations must be positive", ErrInvalidConfig)
	}
	if c.MinSpeed <= 0 {
		return fmt.Errorf("%w: min_speed must be positive, got %g", ErrInvalidConfig, c.MinSpeed)
	}
	return nil
}

func (c LateralConfig) Validate() error {
	if err := c.Vehicle.Validate(); err != nil {
		return err
	}
	return c.LQR.Validate()
}

// Steering is the lateral command of one tick and the values behind it.
type Steering struct {
	Angle        float64 // feedback + feedforward [rad], before saturation
	Feedback     float64
	Feedforward  float64
	LateralError float64
	HeadingError float64
	RefCurvature float64
	Index        int
	Gain         [StateSize]float64
	Iterations   int
	Converged    bool
}

// Lateral is the LQR steering controller.
type Lateral struct {
	cfg LateralConfig
	q   *mat.Dense
	r   *mat.Dense
}

func NewLateral(cfg LateralConfig) *Lateral {
	q := mat.NewDense(StateSize, StateSize, nil)
	for i, w := range cfg.LQR.Q {
		q.Set(i, i, w)
	}
	return &Lateral{
		cfg: cfg,
		q:   q,
		r:   mat.NewDense(1, 1, []float64{cfg.LQR.R}),
	}
}

func (l *Lateral) Config() LateralConfig { return l.cfg }

// Model returns the continuous bicycle model at speed v:
//
//	A = [0  a01            a02          0
//	     0  -(cf+cr)/m/v   (cf+cr)/m    (lr·cr-lf·cf)/m/v
//	     0  0              0            1
//	     0  (lr·cr-lf·cf)/Iz/v  (lf·cf-lr·cr)/Iz  -(lf²·cf+lr²·cr)/Iz/v]
//	B = [0, cf/m, 0, lf·cf/Iz]ᵀ
//
// where the gear decides a01 and a02.
func (l *Lateral) Model(v float64, gear vehicle.Gear) (*mat.Dense, *mat.Dense) {
	p := l.cfg.Vehicle.Params
	v = l.floorSpeed(v, gear)

	m := p.Mass()
	cf, cr := p.FrontCornering, p.RearCornering
	lf, lr := p.FrontToCG, p.RearToCG
	iz := p.YawInertia

	a := mat.NewDense(StateSize, StateSize, nil)
	a01, a02 := lawFor(gear).kinematicRow(v)
	a.Set(0, 1, a01)
	a.Set(0, 2, a02)
	a.Set(1, 1, -(cf+cr)/m/v)
	a.Set(1, 2, (cf+cr)/m)
	a.Set(1, 3, (lr*cr-lf*cf)/m/v)
	a.Set(2, 3, 1)
	a.Set(3, 1, (lr*cr-lf*cf)/iz/v)
	a.Set(3, 2, (lf*cf-lr*cr)/iz)
	a.Set(3, 3, -(lf*lf*cf+lr*lr*cr)/iz/v)

	b := mat.NewDense(StateSize, 1, nil)
	b.Set(1, 0, cf/m)
	b.Set(3, 0, lf*cf/iz)
	return a, b
}

// floorSpeed keeps |v| at or above MinSpeed. A zero speed takes the
// direction of the gear.
func (l *Lateral) floorSpeed(v float64, gear vehicle.Gear) float64 {
	floor := l.cfg.LQR.MinSpeed
	if math.Abs(v) >= floor {
		return v
	}
	if v == 0 {
		return gear.Sign() * floor
	}
	return math.Copysign(floor, v)
}

// Discretize returns the Tustin-discretized model at speed v.
func (l *Lateral) Discretize(v float64, gear vehicle.Gear) (*mat.Dense, *mat.Dense, error) {
	a, b := l.Model(v, gear)
	dt := l.cfg.Vehicle.Dt

	ad, err := lqr.Bilinear(a, dt)
	if err != nil {
		return nil, nil, err
	}
	var bd mat.Dense
	bd.Scale(dt, b)
	return ad, &bd, nil
}

// Gain solves the Riccati equation for the model at speed v.
func (l *Lateral) Gain(v float64, gear vehicle.Gear) (*lqr.Solution, error) {
	ad, bd, err := l.Discretize(v, gear)
	if err != nil {
		return nil, err
	}
	return lqr.Solve(ad, bd, l.q, l.r, l.cfg.LQR.Tolerance, l.cfg.LQR.MaxIterations)
}

// Feedforward is the steering needed to hold curvature kRef in steady state.
func (l *Lateral) Feedforward(v, kRef float64, gear vehicle.Gear, k mat.Matrix) float64 {
	return lawFor(gear).feedforward(l.cfg.Vehicle.Params, v, kRef, k.At(0, 2))
}

// ComputeSteering projects s onto the analyzer's path and returns the
// steering command. Error rates are finite differences against the errors
// cached on s by the previous UpdateState.
func (l *Lateral) ComputeSteering(s *vehicle.State, an *trajectory.Analyzer) (Steering, error) {
	dt := l.cfg.Vehicle.Dt
	eOld, thetaOld := s.ECg, s.ThetaE

	proj, err := an.ProjectState(s)
	if err != nil {
		return Steering{}, err
	}

	sol, err := l.Gain(s.V, s.Gear)
	if err != nil {
		return Steering{}, err
	}

	x := mat.NewVecDense(StateSize, []float64{
		proj.LateralError,
		(proj.LateralError - eOld) / dt,
		proj.HeadingError,
		(proj.HeadingError - thetaOld) / dt,
	})
	var kx mat.VecDense
	kx.MulVec(sol.K, x)

	feedback := -kx.AtVec(0)
	feedforward := l.Feedforward(s.V, proj.RefCurvature, s.Gear, sol.K)

	out := Steering{
		Angle:        feedback + feedforward,
		Feedback:     feedback,
		Feedforward:  feedforward,
		LateralError: proj.LateralError,
		HeadingError: proj.HeadingError,
		RefCurvature: proj.RefCurvature,
		Index:        proj.Index,
		Iterations:   sol.Iterations,
		Converged:    sol.Converged,
	}
	for i := range out.Gain {
		out.Gain[i] = sol.K.At(0, i)
	}
	return out, nil
}
