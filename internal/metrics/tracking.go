package metrics

import (
	"math"

	"github.com/san-kum/trackctl/internal/sim"
)

// CrossTrackRMS is the root mean square of the lateral error.
type CrossTrackRMS struct {
	name    string
	sumSq   float64
	samples int
}

func NewCrossTrackRMS() *CrossTrackRMS {
	return &CrossTrackRMS{name: "cross_track_rms"}
}

func (c *CrossTrackRMS) Name() string { return c.name }

func (c *CrossTrackRMS) Observe(s sim.Sample) {
	c.sumSq += s.LateralError * s.LateralError
	c.samples++
}

func (c *CrossTrackRMS) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return math.Sqrt(c.sumSq / float64(c.samples))
}

func (c *CrossTrackRMS) Reset() {
	c.sumSq = 0
	c.samples = 0
}

type MaxLateralError struct {
	name string
	max  float64
}

func NewMaxLateralError() *MaxLateralError {
	return &MaxLateralError{name: "max_lateral_error"}
}

func (m *MaxLateralError) Name() string { return m.name }

func (m *MaxLateralError) Observe(s sim.Sample) {
	m.max = math.Max(m.max, math.Abs(s.LateralError))
}

func (m *MaxLateralError) Value() float64 { return m.max }
func (m *MaxLateralError) Reset()         { m.max = 0 }

type HeadingRMS struct {
	name    string
	sumSq   float64
	samples int
}

func NewHeadingRMS() *HeadingRMS {
	return &HeadingRMS{name: "heading_rms"}
}

func (h *HeadingRMS) Name() string { return h.name }

func (h *HeadingRMS) Observe(s sim.Sample) {
	h.sumSq += s.HeadingError * s.HeadingError
	h.samples++
}

func (h *HeadingRMS) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return math.Sqrt(h.sumSq / float64(h.samples))
}

func (h *HeadingRMS) Reset() {
	h.sumSq = 0
	h.samples = 0
}

// Standard returns a fresh set of every tracking metric.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewCrossTrackRMS(),
		NewMaxLateralError(),
		NewHeadingRMS(),
		NewSteerEffort(),
		NewSteerRate(),
		NewStability(0.5),
	}
}
