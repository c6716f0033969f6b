// Package path generates reference paths for the tracking controller. It
// stands in for an external planner: a set of waypoints is fitted with a
// 2-D cubic spline and resampled at a fixed arc-length step, producing the
// x, y, yaw and curvature arrays a trajectory.Analyzer consumes.
package path

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/trackctl/internal/trajectory"
	"gonum.org/v1/gonum/interp"
)

var (
	ErrTooFewWaypoints   = errors.New("path: at least two waypoints are required")
	ErrDuplicateWaypoint = errors.New("path: consecutive waypoints must differ")
	ErrInvalidStep       = errors.New("path: sample step must be positive")
)

// derivStep is the arc-length offset used to difference the first
// derivative into a second derivative.
const derivStep = 1e-4

// Spline2D is a planar curve x(s), y(s) parametrised by the cumulative
// chord length s between waypoints.
type Spline2D struct {
	s      []float64
	sx, sy interp.NaturalCubic
}

func NewSpline2D(ax, ay []float64) (*Spline2D, error) {
	if len(ax) != len(ay) {
		return nil, fmt.Errorf("path: waypoint lengths differ (x=%d y=%d)", len(ax), len(ay))
	}
	if len(ax) < 2 {
		return nil, ErrTooFewWaypoints
	}

	s := make([]float64, len(ax))
	for i := 1; i < len(ax); i++ {
		d := math.Hypot(ax[i]-ax[i-1], ay[i]-ay[i-1])
		if d == 0 {
			return nil, fmt.Errorf("%w: index %d", ErrDuplicateWaypoint, i)
		}
		s[i] = s[i-1] + d
	}

	sp := &Spline2D{s: s}
	if err := sp.sx.Fit(s, ax); err != nil {
		return nil, fmt.Errorf("path: fit x: %w", err)
	}
	if err := sp.sy.Fit(s, ay); err != nil {
		return nil, fmt.Errorf("path: fit y: %w", err)
	}
	return sp, nil
}

// Length is the total chord length of the waypoints.
func (sp *Spline2D) Length() float64 { return sp.s[len(sp.s)-1] }

func (sp *Spline2D) Position(s float64) (float64, float64) {
	return sp.sx.Predict(s), sp.sy.Predict(s)
}

func (sp *Spline2D) Yaw(s float64) float64 {
	return math.Atan2(sp.sy.PredictDerivative(s), sp.sx.PredictDerivative(s))
}

// Curvature is the signed curvature from first and second derivatives in s.
func (sp *Spline2D) Curvature(s float64) float64 {
	dx, dy := sp.sx.PredictDerivative(s), sp.sy.PredictDerivative(s)
	ddx, ddy := sp.second(&sp.sx, s), sp.second(&sp.sy, s)
	return (ddy*dx - ddx*dy) / math.Pow(dx*dx+dy*dy, 1.5)
}

func (sp *Spline2D) second(c *interp.NaturalCubic, s float64) float64 {
	lo := math.Max(s-derivStep, 0)
	hi := math.Min(s+derivStep, sp.Length())
	return (c.PredictDerivative(hi) - c.PredictDerivative(lo)) / (hi - lo)
}

// Course fits the waypoints and samples the curve every ds metres from the
// start up to, but excluding, its end.
func Course(ax, ay []float64, ds float64) (trajectory.Path, error) {
	if ds <= 0 {
		return trajectory.Path{}, fmt.Errorf("%w, got %g", ErrInvalidStep, ds)
	}
	sp, err := NewSpline2D(ax, ay)
	if err != nil {
		return trajectory.Path{}, err
	}

	n := int(math.Ceil(sp.Length() / ds))
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	yaw := make([]float64, 0, n)
	k := make([]float64, 0, n)
	for i := 0; ; i++ {
		s := float64(i) * ds
		if s >= sp.Length() {
			break
		}
		px, py := sp.Position(s)
		x = append(x, px)
		y = append(y, py)
		yaw = append(yaw, sp.Yaw(s))
		k = append(k, sp.Curvature(s))
	}
	return trajectory.NewPath(x, y, yaw, k)
}
