package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/optim"
	"github.com/san-kum/trackctl/internal/scenario"
	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/storage"
)

var log = logrus.WithField("module", "automation")

// Suite defines a scripted sequence of tracking runs
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single run in a suite. Fields left empty keep the base config.
type Step struct {
	Name           string               `yaml:"name"`
	Preset         string               `yaml:"preset"`
	Config         string               `yaml:"config"`
	Path           string               `yaml:"path"`
	TargetSpeedKmh float64              `yaml:"target_speed_kmh"`
	Offset         *config.OffsetConfig `yaml:"offset"`
	Params         map[string]float64   `yaml:"params"`
	SaveAs         string               `yaml:"save_as"`
}

// StepResult pairs a step with its run.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *sim.Result
	RunID  string
}

// LoadSuite loads a suite from a YAML file. Step config paths are
// resolved relative to the suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range suite.Steps {
		if c := suite.Steps[i].Config; c != "" && !filepath.IsAbs(c) {
			suite.Steps[i].Config = filepath.Join(dir, c)
		}
	}
	return &suite, nil
}

// Resolve builds the config for a step.
func (s Step) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Path != "" {
		cfg.Scenario.Path = s.Path
	}
	if s.TargetSpeedKmh > 0 {
		cfg.Scenario.TargetSpeedKmh = s.TargetSpeedKmh
	}
	if s.Offset != nil {
		cfg.Scenario.Offset = *s.Offset
	}
	if err := optim.Apply(cfg, s.Params); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s Step) label(i int) string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Preset != "":
		return s.Preset
	case s.Path != "":
		return s.Path
	}
	return fmt.Sprintf("step%d", i+1)
}

// RunSuite executes all steps concurrently. Steps with SaveAs are written
// to store when it is non-nil.
func RunSuite(ctx context.Context, suite *Suite, store *storage.Store) ([]StepResult, error) {
	cfgs := make([]*config.Config, len(suite.Steps))
	for i, step := range suite.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		cfgs[i] = cfg
	}

	runs, err := scenario.RunAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	results := make([]StepResult, len(runs))
	for i, r := range runs {
		step := suite.Steps[i]
		results[i] = StepResult{Name: step.label(i), Config: cfgs[i], Result: r}

		if step.SaveAs != "" && store != nil {
			id, err := store.Save(step.SaveAs, cfgs[i], r)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			results[i].RunID = id
		}

		log.WithFields(logrus.Fields{
			"step":  results[i].Name,
			"stop":  r.Stop,
			"steps": r.Steps,
		}).Info("suite step finished")
	}

	return results, nil
}

// Sweep runs one tunable parameter over a linear range
type Sweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds one sweep point
type SweepResult struct {
	Value   float64
	Stop    sim.StopReason
	Metrics map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *Sweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	values := make([]float64, sweep.NumSteps)
	cfgs := make([]*config.Config, sweep.NumSteps)
	for i := range values {
		values[i] = sweep.Min + float64(i)*step
		cfg := sweep.Base.Clone()
		if err := optim.Apply(cfg, map[string]float64{sweep.Param: values[i]}); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, values[i], err)
		}
		cfgs[i] = cfg
	}

	runs, err := scenario.RunAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{Value: values[i], Stop: r.Stop, Metrics: r.Metrics}
	}
	return results, nil
}

// MonteCarloConfig perturbs the start pose of a base scenario
type MonteCarloConfig struct {
	Base          *config.Config
	LateralSpread float64 // uniform in [-spread, spread] [m]
	HeadingSpread float64 // [rad]
	NumTrials     int
	Seed          int64
}

// MonteCarloResult holds one trial
type MonteCarloResult struct {
	TrialID  int
	Offset   config.OffsetConfig
	Stop     sim.StopReason
	MaxError float64
	RMS      float64
}

// Reached reports whether the trial stopped at the goal.
func (r MonteCarloResult) Reached() bool { return r.Stop == sim.StopGoal }

// RunMonteCarlo executes trials with random start offsets
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	offsets := make([]config.OffsetConfig, cfg.NumTrials)
	cfgs := make([]*config.Config, cfg.NumTrials)
	for i := range cfgs {
		off := cfg.Base.Scenario.Offset
		off.Lateral += (rng.Float64() - 0.5) * 2 * cfg.LateralSpread
		off.Heading += (rng.Float64() - 0.5) * 2 * cfg.HeadingSpread
		offsets[i] = off

		c := cfg.Base.Clone()
		c.Scenario.Offset = off
		cfgs[i] = c
	}

	runs, err := scenario.RunAll(ctx, cfgs)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:  i,
			Offset:   offsets[i],
			Stop:     r.Stop,
			MaxError: r.Metrics["max_lateral_error"],
			RMS:      r.Metrics["cross_track_rms"],
		}
	}

	reached, failed := MonteCarloStats(results)
	log.WithFields(logrus.Fields{"reached": reached, "failed": failed}).Info("monte carlo finished")
	return results, nil
}

// MonteCarloStats counts trials that did and did not reach the goal
func MonteCarloStats(results []MonteCarloResult) (reached int, failed int) {
	for _, r := range results {
		if r.Reached() {
			reached++
		} else {
			failed++
		}
	}
	return
}
