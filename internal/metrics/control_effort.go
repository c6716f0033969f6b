package metrics

import (
	"math"

	"github.com/san-kum/trackctl/internal/sim"
)

// SteerEffort is the mean absolute applied steering angle.
type SteerEffort struct {
	name    string
	sum     float64
	samples int
}

func NewSteerEffort() *SteerEffort {
	return &SteerEffort{
		name: "steer_effort",
	}
}

func (c *SteerEffort) Name() string {
	return c.name
}

func (c *SteerEffort) Observe(s sim.Sample) {
	c.sum += math.Abs(s.Steer)
	c.samples++
}

func (c *SteerEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *SteerEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// SteerRate is the mean absolute steering rate between consecutive samples.
type SteerRate struct {
	name    string
	sum     float64
	samples int

	have      bool
	lastSteer float64
	lastT     float64
}

func NewSteerRate() *SteerRate {
	return &SteerRate{name: "steer_rate"}
}

func (r *SteerRate) Name() string { return r.name }

func (r *SteerRate) Observe(s sim.Sample) {
	if r.have && s.T > r.lastT {
		r.sum += math.Abs(s.Steer-r.lastSteer) / (s.T - r.lastT)
		r.samples++
	}
	r.have = true
	r.lastSteer = s.Steer
	r.lastT = s.T
}

func (r *SteerRate) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *SteerRate) Reset() {
	r.sum = 0
	r.samples = 0
	r.have = false
}
