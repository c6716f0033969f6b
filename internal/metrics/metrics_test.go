package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/trackctl/internal/sim"
)

func feed(m sim.Metric, samples ...sim.Sample) float64 {
	for _, s := range samples {
		m.Observe(s)
	}
	return m.Value()
}

func TestCrossTrackRMS(t *testing.T) {
	m := NewCrossTrackRMS()
	got := feed(m, sim.Sample{LateralError: 3}, sim.Sample{LateralError: -4})

	expected := math.Sqrt(12.5)
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("expected %f, got %f", expected, got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestMaxLateralError(t *testing.T) {
	m := NewMaxLateralError()
	got := feed(m,
		sim.Sample{LateralError: 0.2},
		sim.Sample{LateralError: -0.7},
		sim.Sample{LateralError: 0.5},
	)
	if got != 0.7 {
		t.Errorf("expected 0.7, got %f", got)
	}
}

func TestHeadingRMS(t *testing.T) {
	m := NewHeadingRMS()
	got := feed(m, sim.Sample{HeadingError: 0.1}, sim.Sample{HeadingError: -0.1})
	if math.Abs(got-0.1) > 1e-12 {
		t.Errorf("expected 0.1, got %f", got)
	}
}

func TestSteerEffort(t *testing.T) {
	m := NewSteerEffort()
	got := feed(m, sim.Sample{Steer: 0.2}, sim.Sample{Steer: -0.4})
	if math.Abs(got-0.3) > 1e-12 {
		t.Errorf("expected 0.3, got %f", got)
	}
}

func TestSteerRate(t *testing.T) {
	m := NewSteerRate()

	if got := feed(m, sim.Sample{T: 0.1, Steer: 0.1}); got != 0 {
		t.Errorf("expected 0 with one sample, got %f", got)
	}

	got := feed(m,
		sim.Sample{T: 0.2, Steer: 0.3},
		sim.Sample{T: 0.3, Steer: 0.2},
	)
	// (0.2/0.1 + 0.1/0.1) / 2
	if math.Abs(got-1.5) > 1e-9 {
		t.Errorf("expected 1.5, got %f", got)
	}

	m.Reset()
	if got := feed(m, sim.Sample{T: 1.0, Steer: 5}); got != 0 {
		t.Errorf("expected rate history cleared by reset, got %f", got)
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.5)
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	got := feed(m,
		sim.Sample{LateralError: 0.1},
		sim.Sample{LateralError: -0.6},
		sim.Sample{LateralError: 0.4},
		sim.Sample{LateralError: 0.9},
	)
	if got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestStandardNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Standard() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 metrics, got %d", len(seen))
	}
}
