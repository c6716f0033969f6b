package trajectory

import (
	"math"
	"testing"

	"github.com/san-kum/trackctl/internal/vehicle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightPath(t *testing.T, n int, yaw float64) Path {
	t.Helper()
	x := make([]float64, n)
	y := make([]float64, n)
	h := make([]float64, n)
	k := make([]float64, n)
	for i := range x {
		x[i] = float64(i) * math.Cos(yaw)
		y[i] = float64(i) * math.Sin(yaw)
		h[i] = yaw
	}
	p, err := NewPath(x, y, h, k)
	require.NoError(t, err)
	return p
}

func at(x, y, yaw float64) *vehicle.State {
	return vehicle.New(vehicle.DefaultConfig(), x, y, yaw, 1.0, vehicle.Drive)
}

func TestNewPath(t *testing.T) {
	_, err := NewPath(nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrPathLength)

	_, err = NewPath([]float64{0, 1}, []float64{0}, []float64{0, 0}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrPathLength)

	x := []float64{0, 1, 2}
	p, err := NewPath(x, []float64{0, 0, 0}, []float64{0, 0, 0}, []float64{0, 0, 0})
	require.NoError(t, err)
	x[2] = 99
	assert.Equal(t, 2.0, p.X[2], "path must not alias caller slices")

	ex, ey := p.End()
	assert.Equal(t, 2.0, ex)
	assert.Equal(t, 0.0, ey)
	assert.Equal(t, 3, p.Len())
}

func TestProjectStateOnPath(t *testing.T) {
	an := NewAnalyzer(straightPath(t, 10, 0))

	proj, err := an.ProjectState(at(4, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 4, proj.Index)
	assert.Equal(t, 4, an.Cursor())
	assert.Equal(t, 0.0, proj.LateralError)
	assert.Equal(t, 0.0, proj.HeadingError)
	assert.Equal(t, 0.0, proj.RefCurvature)
}

func TestProjectStateSign(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want float64
	}{
		{"left of path", 0.5, 0.5},
		{"right of path", -0.5, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an := NewAnalyzer(straightPath(t, 10, 0))
			proj, err := an.ProjectState(at(3, tt.y, 0))
			require.NoError(t, err)
			assert.InDelta(t, tt.want, proj.LateralError, 1e-12)
		})
	}
}

func TestProjectStateHeadingWrap(t *testing.T) {
	an := NewAnalyzer(straightPath(t, 10, -3.1))

	proj, err := an.ProjectState(at(0, 0, 3.1))
	require.NoError(t, err)
	assert.InDelta(t, 6.2-2*math.Pi, proj.HeadingError, 1e-12)
	assert.Equal(t, -3.1, proj.RefYaw)
}

func TestProjectStateTieBreak(t *testing.T) {
	an := NewAnalyzer(straightPath(t, 6, 0))

	proj, err := an.ProjectState(at(2.5, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 2, proj.Index)
}

func TestProjectStateCursorMonotonic(t *testing.T) {
	an := NewAnalyzer(straightPath(t, 50, 0))

	last := an.Cursor()
	for x := 0.0; x < 49; x += 0.7 {
		_, err := an.ProjectState(at(x, 0.3, 0))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, an.Cursor(), last)
		last = an.Cursor()
	}

	// a vehicle that falls back stays matched to the furthest sample
	proj, err := an.ProjectState(at(5, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, last, proj.Index)
	assert.InDelta(t, -float64(last-5), proj.LateralError, 1e-9)
}

func TestProjectStateExhausted(t *testing.T) {
	an := NewAnalyzer(Path{})
	_, err := an.ProjectState(at(0, 0, 0))
	assert.ErrorIs(t, err, ErrPathExhausted)
}
