package path

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"github.com/san-kum/trackctl/internal/trajectory"
)

var shapes = map[string]func() ([]float64, []float64){
	"sine": func() ([]float64, []float64) {
		ax := make([]float64, 0, 100)
		ay := make([]float64, 0, 100)
		for x := 0.0; x < 50; x += 0.5 {
			ax = append(ax, x)
			ay = append(ay, math.Sin(x/5.0)*x/3.0)
		}
		return ax, ay
	},
	"straight": func() ([]float64, []float64) {
		ax := make([]float64, 0, 11)
		for x := 0.0; x <= 50; x += 5 {
			ax = append(ax, x)
		}
		return ax, make([]float64, len(ax))
	},
	"lane_change": func() ([]float64, []float64) {
		ax := make([]float64, 0, 31)
		ay := make([]float64, 0, 31)
		for x := 0.0; x <= 60; x += 2 {
			ax = append(ax, x)
			ay = append(ay, 3.5/(1+math.Exp(-(x-25)/2.5)))
		}
		return ax, ay
	},
	"arc": func() ([]float64, []float64) {
		const radius = 20.0
		ax := make([]float64, 0, 11)
		ay := make([]float64, 0, 11)
		for i := 0; i <= 10; i++ {
			th := float64(i) * math.Pi / 20
			ax = append(ax, radius*math.Sin(th))
			ay = append(ay, radius*(1-math.Cos(th)))
		}
		return ax, ay
	},
}

// Shapes lists the built-in waypoint sets.
func Shapes() []string {
	names := lo.Keys(shapes)
	sort.Strings(names)
	return names
}

func Waypoints(name string) ([]float64, []float64, error) {
	fn, ok := shapes[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown path shape: %s (available: %v)", name, Shapes())
	}
	ax, ay := fn()
	return ax, ay, nil
}

// Named builds the course for a built-in shape.
func Named(name string, ds float64) (trajectory.Path, error) {
	ax, ay, err := Waypoints(name)
	if err != nil {
		return trajectory.Path{}, err
	}
	return Course(ax, ay, ds)
}
