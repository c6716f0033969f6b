// Package trajectory projects the vehicle onto a reference path and reports
// the path-relative tracking errors used by the lateral controller.
package trajectory

import (
	"errors"
	"fmt"
)

var (
	// ErrPathLength indicates empty or mismatched reference arrays.
	ErrPathLength = errors.New("trajectory: reference arrays must be non-empty and of equal length")

	// ErrPathExhausted indicates the search cursor ran past the last sample.
	ErrPathExhausted = errors.New("trajectory: reference path exhausted")
)

// Path is a reference polyline sampled in arc-length order.
type Path struct {
	X, Y []float64
	Yaw  []float64 // [rad]
	K    []float64 // curvature [1/m]
}

// NewPath copies the four sequences so the result cannot be mutated by the
// caller afterwards.
func NewPath(x, y, yaw, k []float64) (Path, error) {
	n := len(x)
	if n == 0 || len(y) != n || len(yaw) != n || len(k) != n {
		return Path{}, fmt.Errorf("%w (x=%d y=%d yaw=%d k=%d)", ErrPathLength, len(x), len(y), len(yaw), len(k))
	}
	return Path{
		X:   append([]float64(nil), x...),
		Y:   append([]float64(nil), y...),
		Yaw: append([]float64(nil), yaw...),
		K:   append([]float64(nil), k...),
	}, nil
}

func (p Path) Len() int { return len(p.X) }

// End returns the last sample, which the driver uses as the goal.
func (p Path) End() (float64, float64) {
	n := p.Len()
	if n == 0 {
		return 0, 0
	}
	return p.X[n-1], p.Y[n-1]
}
