// Package scenario assembles a runnable closed-loop simulation from a
// config: course, start pose, controllers and the default metrics.
package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/geom"
	"github.com/san-kum/trackctl/internal/metrics"
	"github.com/san-kum/trackctl/internal/path"
	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/trajectory"
	"github.com/san-kum/trackctl/internal/vehicle"
)

type Scenario struct {
	cfg       *config.Config
	course    trajectory.Path
	simulator *sim.Simulator
}

func Build(cfg *config.Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	course, err := path.Named(cfg.Scenario.Path, cfg.Scenario.Ds)
	if err != nil {
		return nil, fmt.Errorf("build course: %w", err)
	}

	state := StartState(cfg, course)
	lat := control.NewLateral(cfg.LateralConfig())
	lon := control.NewLongitudinal(cfg.LongitudinalConfig())

	s := sim.New(lat, lon, trajectory.NewAnalyzer(course), state)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}

	return &Scenario{cfg: cfg.Clone(), course: course, simulator: s}, nil
}

// StartState places the vehicle on the first course sample, shifted by the
// configured lateral and heading offsets.
func StartState(cfg *config.Config, course trajectory.Path) *vehicle.State {
	sc := cfg.Scenario
	nx, ny := geom.LeftNormal(course.Yaw[0])
	return vehicle.New(
		cfg.VehicleConfig(),
		course.X[0]+sc.Offset.Lateral*nx,
		course.Y[0]+sc.Offset.Lateral*ny,
		geom.NormalizeAngle(course.Yaw[0]+sc.Offset.Heading),
		sc.Gear.Sign()*sc.InitialSpeed,
		sc.Gear,
	)
}

func (s *Scenario) Run(ctx context.Context) (*sim.Result, error) {
	return s.simulator.Run(ctx, s.cfg.SimConfig())
}

func (s *Scenario) Config() *config.Config    { return s.cfg }
func (s *Scenario) Course() trajectory.Path   { return s.course }
func (s *Scenario) Simulator() *sim.Simulator { return s.simulator }
func (s *Scenario) SimConfig() sim.Config     { return s.cfg.SimConfig() }

// RunAll builds and runs every config concurrently, results in input order.
func RunAll(ctx context.Context, cfgs []*config.Config) ([]*sim.Result, error) {
	builds := make([]sim.Build, len(cfgs))
	for i, cfg := range cfgs {
		builds[i] = func() (*sim.Simulator, sim.Config, error) {
			sc, err := Build(cfg)
			if err != nil {
				return nil, sim.Config{}, err
			}
			return sc.simulator, sc.SimConfig(), nil
		}
	}
	return sim.RunBatch(ctx, builds)
}
