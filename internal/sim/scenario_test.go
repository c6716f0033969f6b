package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/path"
	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/trajectory"
	"github.com/san-kum/trackctl/internal/vehicle"
)

func build(shape string, x, y, yaw, v float64) *sim.Simulator {
	return buildGear(shape, x, y, yaw, v, vehicle.Drive)
}

func buildGear(shape string, x, y, yaw, v float64, gear vehicle.Gear) *sim.Simulator {
	course, err := path.Named(shape, 0.1)
	Expect(err).NotTo(HaveOccurred())

	state := vehicle.New(vehicle.DefaultConfig(), x, y, yaw, v, gear)
	return sim.New(
		control.NewLateral(control.DefaultLateralConfig()),
		control.NewLongitudinal(control.DefaultLongitudinalConfig()),
		trajectory.NewAnalyzer(course),
		state,
	)
}

func maxAbs(samples []sim.Sample, field func(sim.Sample) float64) float64 {
	m := 0.0
	for _, s := range samples {
		m = math.Max(m, math.Abs(field(s)))
	}
	return m
}

var _ = Describe("Closed-loop tracking", func() {
	var cfg sim.Config

	BeforeEach(func() {
		cfg = sim.DefaultConfig()
		cfg.MaxTime = 60
	})

	Context("on a straight path starting on the path", func() {
		It("barely steers and reaches the goal", func() {
			result, err := build("straight", 0, 0, 0, 1).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Stop).To(Equal(sim.StopGoal))
			Expect(result.Samples[0].Steer).To(BeNumerically("~", 0, 1e-12))
			Expect(maxAbs(result.Samples, func(s sim.Sample) float64 { return s.Steer })).To(BeNumerically("<", 0.1))
			Expect(maxAbs(result.Samples, func(s sim.Sample) float64 { return s.Y })).To(BeNumerically("<", 0.05))
			Expect(result.Warnings).To(BeZero())
		})
	})

	Context("with a +1 m lateral offset and the path heading", func() {
		var samples []sim.Sample

		BeforeEach(func() {
			cfg.TargetSpeed = 5
			cfg.MaxTime = 6
			result, err := build("straight", 0, 1, 0, 5).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stop).To(Equal(sim.StopTime))
			samples = result.Samples
		})

		It("starts left of the path and steers right", func() {
			Expect(samples[0].LateralError).To(BeNumerically("~", 1.0, 1e-9))
			Expect(samples[0].Steer).To(BeNumerically("<", 0))
		})

		It("reduces the lateral error monotonically while closing in", func() {
			for i := 1; i <= 10; i++ {
				Expect(math.Abs(samples[i].LateralError)).To(
					BeNumerically("<=", math.Abs(samples[i-1].LateralError)+1e-12),
					"tick %d", i)
			}
			Expect(math.Abs(samples[10].LateralError)).To(BeNumerically("<", 0.1))
		})

		It("settles close to the path", func() {
			Expect(maxAbs(samples[12:], func(s sim.Sample) float64 { return s.LateralError })).To(BeNumerically("<", 0.2))
			Expect(maxAbs(samples[40:], func(s sim.Sample) float64 { return s.LateralError })).To(BeNumerically("<", 0.05))
		})
	})

	Context("in reverse gear", func() {
		It("backs up and holds the target speed", func() {
			cfg.Gear = vehicle.Reverse
			cfg.MaxTime = 5
			result, err := buildGear("straight", 0, 0, 0, -1, vehicle.Reverse).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Stop).To(Equal(sim.StopTime))

			gap := math.Abs(-1 + cfg.TargetSpeed)
			for i, s := range result.Samples {
				Expect(s.V).To(BeNumerically("<", 0), "tick %d", i)
				next := math.Abs(s.V + cfg.TargetSpeed)
				Expect(next).To(BeNumerically("<=", gap+1e-12), "tick %d", i)
				gap = next
			}
			Expect(gap).To(BeNumerically("<", 1.5))
		})
	})

	DescribeTable("built-in courses reach the goal",
		func(shape string, maxError float64) {
			result, err := build(shape, 0, 0, 0, 1).Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Stop).To(Equal(sim.StopGoal))
			Expect(result.Final().T).To(BeNumerically("<", 30))
			Expect(math.Abs(result.Final().V)).To(BeNumerically("<", cfg.GoalSpeed))
			Expect(maxAbs(result.Samples, func(s sim.Sample) float64 { return s.LateralError })).To(BeNumerically("<", maxError))
		},
		Entry("sine", "sine", 1.5),
		Entry("lane change", "lane_change", 0.5),
		Entry("arc", "arc", 0.5),
	)

	It("keeps the analyzer cursor moving forward", func() {
		result, err := build("sine", 0, 0, 0, 1).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		last := 0
		for _, s := range result.Samples {
			Expect(s.Index).To(BeNumerically(">=", last))
			last = s.Index
		}
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		s := build("sine", 0, 0, 0, 1)
		s.AddObserver(sim.ObserverFunc(func(smp sim.Sample) {
			if smp.T >= 1.0-1e-9 {
				cancel()
			}
		}))

		result, err := s.Run(ctx, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.Stop).To(Equal(sim.StopCanceled))
		Expect(result.Steps).To(Equal(10))
	})
})
