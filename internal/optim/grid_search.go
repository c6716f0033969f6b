package optim

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/scenario"
	"github.com/san-kum/trackctl/internal/sim"
)

var log = logrus.WithField("module", "optim")

// Tunable names accepted by Apply.
var Tunable = []string{"q0", "q1", "q2", "q3", "r", "kp"}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

type Candidate struct {
	Params map[string]float64
	Value  float64
	Stop   sim.StopReason
}

type SearchResult struct {
	Best       map[string]float64
	BestValue  float64
	Candidates []Candidate
}

// Search runs every grid point against base and minimises metricName.
// Runs that do not reach the goal score +Inf.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*SearchResult, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("got %d parameter names but %d ranges", len(g.paramNames), len(g.ranges))
	}

	points := g.enumerate()
	cfgs := make([]*config.Config, len(points))
	for i, p := range points {
		cfg := base.Clone()
		if err := Apply(cfg, p); err != nil {
			return nil, err
		}
		cfgs[i] = cfg
	}

	results, err := scenario.RunAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{BestValue: math.Inf(1), Candidates: make([]Candidate, len(points))}
	for i, r := range results {
		val, ok := r.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", metricName)
		}
		if r.Stop != sim.StopGoal {
			val = math.Inf(1)
		}
		out.Candidates[i] = Candidate{Params: points[i], Value: val, Stop: r.Stop}

		if val < out.BestValue {
			out.BestValue = val
			out.Best = points[i]
		}
	}

	log.WithFields(logrus.Fields{
		"candidates": len(points),
		"metric":     metricName,
		"best":       out.BestValue,
	}).Info("grid search finished")

	return out, nil
}

func (g *GridSearch) enumerate() []map[string]float64 {
	var points []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &points)
	return points
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, points *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*points = append(*points, current)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(depth+1, newParams, points)
	}
}

// Apply writes tunable parameters into cfg.
func Apply(cfg *config.Config, params map[string]float64) error {
	for name, val := range params {
		switch strings.ToLower(name) {
		case "q0":
			cfg.LQR.Q[0] = val
		case "q1":
			cfg.LQR.Q[1] = val
		case "q2":
			cfg.LQR.Q[2] = val
		case "q3":
			cfg.LQR.Q[3] = val
		case "r":
			cfg.LQR.R = val
		case "kp":
			cfg.Longitudinal.Kp = val
		default:
			return fmt.Errorf("unknown parameter: %s (tunable: %v)", name, Tunable)
		}
	}
	return nil
}
