package sim

import (
	"fmt"

	"github.com/san-kum/trackctl/internal/vehicle"
)

// Sample is one closed-loop tick as seen after the state update.
type Sample struct {
	T            float64 `json:"t"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Yaw          float64 `json:"yaw"`
	V            float64 `json:"v"`
	Steer        float64 `json:"steer"` // applied, after saturation
	Accel        float64 `json:"accel"` // applied, after saturation
	LateralError float64 `json:"lateral_error"`
	HeadingError float64 `json:"heading_error"`
	Index        int     `json:"index"`
	DistToGoal   float64 `json:"dist_to_goal"`
	Converged    bool    `json:"converged"`
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(s Sample)

func (f ObserverFunc) OnStep(s Sample) { f(s) }

type Config struct {
	Dt           float64      `json:"dt"`            // [s], zero takes the vehicle tick
	MaxTime      float64      `json:"max_time"`      // [s]
	TargetSpeed  float64      `json:"target_speed"`  // [m/s]
	GoalDistance float64      `json:"goal_distance"` // [m]
	GoalSpeed    float64      `json:"goal_speed"`    // [m/s]
	Gear         vehicle.Gear `json:"gear"`
}

// DefaultConfig mirrors the reference demo: 25 km/h until within 0.3 m of
// the path end at under 5 m/s, or 500 s.
func DefaultConfig() Config {
	return Config{
		Dt:           0.1,
		MaxTime:      500,
		TargetSpeed:  25.0 / 3.6,
		GoalDistance: 0.3,
		GoalSpeed:    5.0,
		Gear:         vehicle.Drive,
	}
}

type StopReason int

const (
	StopNone StopReason = iota
	StopGoal
	StopTime
	StopPathEnd
	StopCanceled
	StopInvalid
)

func (r StopReason) String() string {
	switch r {
	case StopGoal:
		return "goal"
	case StopTime:
		return "time"
	case StopPathEnd:
		return "path_end"
	case StopCanceled:
		return "canceled"
	case StopInvalid:
		return "invalid"
	default:
		return "none"
	}
}

type Result struct {
	Samples  []Sample
	Metrics  map[string]float64
	Steps    int
	Stop     StopReason
	Warnings int
}

// Final returns the last recorded sample, or the zero Sample for an empty run.
func (r *Result) Final() Sample {
	if len(r.Samples) == 0 {
		return Sample{}
	}
	return r.Samples[len(r.Samples)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("sim error at t=%.4f (step %d): %s", e.Time, e.Step, e.Message)
}
