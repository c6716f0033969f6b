package scenario

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/vehicle"
)

func TestBuildDefault(t *testing.T) {
	sc, err := Build(config.DefaultConfig())
	require.NoError(t, err)

	st := sc.Simulator().State()
	assert.Equal(t, sc.Course().X[0], st.X)
	assert.Equal(t, sc.Course().Y[0], st.Y)
	assert.Equal(t, 1.0, st.V)
	assert.Equal(t, vehicle.Drive, st.Gear)
}

func TestBuildInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario.Path = "nowhere"

	_, err := Build(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestStartStateOffset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario.Path = "straight"
	cfg.Scenario.Offset = config.OffsetConfig{Lateral: 1.0, Heading: 0.1}

	sc, err := Build(cfg)
	require.NoError(t, err)

	st := sc.Simulator().State()
	assert.InDelta(t, 0.0, st.X, 1e-12)
	assert.InDelta(t, 1.0, st.Y, 1e-12)
	assert.InDelta(t, 0.1, st.Yaw, 1e-12)
}

func TestStartStateReverse(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario.Gear = vehicle.Reverse
	cfg.Scenario.InitialSpeed = 2

	sc, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, -2.0, sc.Simulator().State().V)
	assert.Equal(t, vehicle.Reverse, sc.SimConfig().Gear)
}

func TestBuildDoesNotAliasConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	sc, err := Build(cfg)
	require.NoError(t, err)

	cfg.MaxTime = 1
	assert.Equal(t, config.DefaultMaxTime, sc.Config().MaxTime)
}

func TestRunOffsetPreset(t *testing.T) {
	cfg := config.GetPreset("offset")
	cfg.MaxTime = 6

	sc, err := Build(cfg)
	require.NoError(t, err)

	result, err := sc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sim.StopTime, result.Stop)
	assert.InDelta(t, 1.0, result.Samples[0].LateralError, 1e-9)
	assert.Less(t, math.Abs(result.Final().LateralError), 0.05)
	for _, name := range []string{"cross_track_rms", "max_lateral_error", "heading_rms", "steer_effort", "steer_rate", "stability"} {
		assert.Contains(t, result.Metrics, name)
	}
	assert.InDelta(t, 1.0, result.Metrics["max_lateral_error"], 1e-9)
}

func TestRunAll(t *testing.T) {
	var cfgs []*config.Config
	for _, name := range []string{"demo", "arc", "lane_change"} {
		cfg := config.GetPreset(name)
		require.NotNil(t, cfg, name)
		cfgs = append(cfgs, cfg)
	}

	results, err := RunAll(context.Background(), cfgs)
	require.NoError(t, err)
	require.Len(t, results, len(cfgs))
	for i, r := range results {
		assert.Equal(t, sim.StopGoal, r.Stop, "config %d", i)
	}
}

func TestRunAllInvalid(t *testing.T) {
	bad := config.DefaultConfig()
	bad.Scenario.Ds = 0

	_, err := RunAll(context.Background(), []*config.Config{config.DefaultConfig(), bad})
	assert.ErrorIs(t, err, config.ErrInvalid)
}
