package control

import (
	"testing"

	"github.com/san-kum/trackctl/internal/vehicle"
)

func TestComputeAcceleration(t *testing.T) {
	lon := NewLongitudinal(DefaultLongitudinalConfig())
	cfg := vehicle.DefaultConfig()

	tests := []struct {
		name   string
		target float64
		v      float64
		dist   float64
		want   float64
	}{
		{"proportional far from goal", 5, 10, 50, -1.5},
		{"speed up", 7, 2, 50, 1.5},
		{"brake forward near goal", 5, 10, 5, -3.0},
		{"brake reverse near goal", 0, -3, 5, -1.0},
		{"slow forward near goal", 5, 1, 5, 1.2},
		{"slow reverse near goal", 0, -1, 5, 0.3},
		{"boundary distance not braking", 5, 10, 11, -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := vehicle.New(cfg, 0, 0, 0, tt.v, vehicle.Drive)
			got := lon.ComputeAcceleration(tt.target, s, tt.dist)
			if d := got - tt.want; d > 1e-12 || d < -1e-12 {
				t.Errorf("ComputeAcceleration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLongitudinalConfigValidate(t *testing.T) {
	if err := DefaultLongitudinalConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	cfg := DefaultLongitudinalConfig()
	cfg.Kp = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero kp")
	}
}
