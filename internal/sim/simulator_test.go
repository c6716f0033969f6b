package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/path"
	"github.com/san-kum/trackctl/internal/trajectory"
	"github.com/san-kum/trackctl/internal/vehicle"
)

func newTestSim(t testing.TB, shape string, x, y, yaw, v float64) *Simulator {
	t.Helper()
	return newGearSim(t, shape, x, y, yaw, v, vehicle.Drive)
}

func newGearSim(t testing.TB, shape string, x, y, yaw, v float64, gear vehicle.Gear) *Simulator {
	t.Helper()

	course, err := path.Named(shape, 0.1)
	if err != nil {
		t.Fatalf("build course: %v", err)
	}
	lat := control.NewLateral(control.DefaultLateralConfig())
	lon := control.NewLongitudinal(control.DefaultLongitudinalConfig())
	state := vehicle.New(vehicle.DefaultConfig(), x, y, yaw, v, gear)

	return New(lat, lon, trajectory.NewAnalyzer(course), state)
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative dt", Config{Dt: -0.1, MaxTime: 1}},
		{"zero max time", Config{Dt: 0.1, MaxTime: 0}},
		{"negative target", Config{Dt: 0.1, MaxTime: 1, TargetSpeed: -1}},
		{"negative goal distance", Config{Dt: 0.1, MaxTime: 1, GoalDistance: -1}},
		{"dt mismatch", Config{Dt: 0.05, MaxTime: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Run(context.Background(), tt.cfg)
			if err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorTimeBudget(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	cfg := DefaultConfig()
	cfg.MaxTime = 1.0

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Stop != StopTime {
		t.Errorf("expected stop %v, got %v", StopTime, result.Stop)
	}
	if result.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", result.Steps)
	}
	if len(result.Samples) != result.Steps {
		t.Errorf("expected %d samples, got %d", result.Steps, len(result.Samples))
	}
	if got := result.Final().T; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("expected final time 1.0, got %f", got)
	}
}

func TestSimulatorSpeedsUp(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	cfg := DefaultConfig()
	cfg.MaxTime = 2.0

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	prev := 1.0
	for _, smp := range result.Samples {
		if smp.V <= prev {
			t.Fatalf("speed did not increase at t=%.1f: %f <= %f", smp.T, smp.V, prev)
		}
		prev = smp.V
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s Sample) {
	t.count++
	t.sum += math.Abs(s.LateralError)
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	metric := &testMetric{}
	s.AddMetric(metric)

	var seen int
	s.AddObserver(ObserverFunc(func(Sample) { seen++ }))

	cfg := DefaultConfig()
	cfg.MaxTime = 1.0

	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if seen != 10 {
		t.Errorf("expected 10 observer calls, got %d", seen)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Stop != StopCanceled {
		t.Errorf("expected stop %v, got %v", StopCanceled, result.Stop)
	}
	if result.Steps != 0 {
		t.Errorf("expected no steps, got %d", result.Steps)
	}
}

func TestSimulatorHugeMaxTime(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.MaxTime = 1e15
	result, err := s.Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Stop != StopCanceled || result.Steps != 0 {
		t.Errorf("expected canceled run with no steps, got %v after %d", result.Stop, result.Steps)
	}
	if c := cap(result.Samples); c > maxSampleHint {
		t.Errorf("sample buffer capacity %d exceeds %d", c, maxSampleHint)
	}
}

func TestSimulatorBrakesNearGoal(t *testing.T) {
	tests := []struct {
		name string
		gear vehicle.Gear
		v    float64
		want float64
	}{
		{"drive", vehicle.Drive, 5, 4.7},
		{"reverse", vehicle.Reverse, -5, -4.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 5 m short of the goal, inside the stop distance.
			s := newGearSim(t, "straight", 45, 0, 0, tt.v, tt.gear)
			cfg := DefaultConfig()
			cfg.Gear = tt.gear

			smp, err := s.Step(cfg)
			if err != nil {
				t.Fatalf("step failed: %v", err)
			}
			if math.Abs(smp.V-tt.want) > 1e-9 {
				t.Errorf("expected v=%v after braking, got %v", tt.want, smp.V)
			}
		})
	}
}

func TestSimulatorReverseHoldsTarget(t *testing.T) {
	s := newGearSim(t, "straight", 0, 0, 0, -1, vehicle.Reverse)
	cfg := DefaultConfig()
	cfg.Gear = vehicle.Reverse

	prev := math.Abs(-1 + cfg.TargetSpeed)
	for i := 0; i < 30; i++ {
		smp, err := s.Step(cfg)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if smp.V >= 0 {
			t.Fatalf("step %d: expected negative speed, got %v", i, smp.V)
		}
		gap := math.Abs(smp.V + cfg.TargetSpeed)
		if gap >= prev {
			t.Fatalf("step %d: speed error grew from %v to %v", i, prev, gap)
		}
		prev = gap
	}
}

func TestSimulatorStepUsesConfigGear(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gear = vehicle.Reverse

	// Same pose, state gear disagrees with the config on the first tick.
	mismatched := newGearSim(t, "sine", 0, 0.5, 0, -1, vehicle.Drive)
	matched := newGearSim(t, "sine", 0, 0.5, 0, -1, vehicle.Reverse)

	got, err := mismatched.Step(cfg)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	want, err := matched.Step(cfg)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if got != want {
		t.Errorf("first tick differs from a reverse-geared state:\n got %+v\nwant %+v", got, want)
	}
	if g := mismatched.State().Gear; g != vehicle.Reverse {
		t.Errorf("expected state gear %v, got %v", vehicle.Reverse, g)
	}
}

func TestSimulatorPastEnd(t *testing.T) {
	// Start beyond the last sample of the course, too fast to count as goal.
	s := newTestSim(t, "straight", 52, 0, 0, 6)

	result, err := s.Run(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Stop != StopPathEnd {
		t.Errorf("expected stop %v, got %v", StopPathEnd, result.Stop)
	}
	if result.Steps != 1 {
		t.Errorf("expected a single step, got %d", result.Steps)
	}
}

func TestSimulatorReset(t *testing.T) {
	s := newTestSim(t, "straight", 0, 0, 0, 1)

	cfg := DefaultConfig()
	cfg.MaxTime = 1.0

	first, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	s.Reset()
	if s.Time() != 0 || s.Analyzer().Cursor() != 0 {
		t.Fatalf("reset left t=%f cursor=%d", s.Time(), s.Analyzer().Cursor())
	}
	if s.State().X != 0 || s.State().V != 1 {
		t.Fatalf("reset left x=%f v=%f", s.State().X, s.State().V)
	}

	second, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if first.Final() != second.Final() {
		t.Errorf("runs differ after reset: %+v vs %+v", first.Final(), second.Final())
	}
}

func TestRunBatch(t *testing.T) {
	shapes := []string{"straight", "arc", "lane_change"}
	builds := make([]Build, len(shapes))
	for i, shape := range shapes {
		s := newTestSim(t, shape, 0, 0, 0, 1)
		builds[i] = func() (*Simulator, Config, error) {
			cfg := DefaultConfig()
			cfg.MaxTime = 2.0
			return s, cfg, nil
		}
	}

	results, err := RunBatch(context.Background(), builds)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(results) != len(shapes) {
		t.Fatalf("expected %d results, got %d", len(shapes), len(results))
	}
	for i, r := range results {
		if r.Steps != 20 {
			t.Errorf("%s: expected 20 steps, got %d", shapes[i], r.Steps)
		}
	}
}

func TestRunBatchError(t *testing.T) {
	boom := errors.New("boom")
	ok := newTestSim(t, "straight", 0, 0, 0, 1)
	builds := []Build{
		func() (*Simulator, Config, error) { return ok, Config{Dt: 0.1, MaxTime: 0.5}, nil },
		func() (*Simulator, Config, error) { return nil, Config{}, boom },
	}

	_, err := RunBatch(context.Background(), builds)
	if !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
}
