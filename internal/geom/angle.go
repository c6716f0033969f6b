// Package geom holds small planar geometry helpers shared by the tracking
// controllers.
package geom

import "math"

// NormalizeAngle maps theta into (-π, π]. Any number of full turns is
// removed, so NormalizeAngle(θ + 2πk) equals NormalizeAngle(θ) for integer k.
func NormalizeAngle(theta float64) float64 {
	a := math.Mod(theta+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LeftNormal returns the unit vector 90° counter-clockwise of heading yaw.
func LeftNormal(yaw float64) (float64, float64) {
	return math.Cos(yaw + math.Pi/2), math.Sin(yaw + math.Pi/2)
}
