package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/m-weigel/relorbit/internal/analysis"
	"github.com/m-weigel/relorbit/internal/geodesic"
	"github.com/m-weigel/relorbit/internal/integrators"
	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/sim"
	"github.com/m-weigel/relorbit/internal/spacetime"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

var _ = Describe("Schwarzschild geodesics", func() {
	var m *metric.Schwarzschild

	BeforeEach(func() {
		var err error
		m, err = metric.NewSchwarzschild(1, spacetime.Geometrized)
		Expect(err).NotTo(HaveOccurred())
	})

	run := func(x0 spacetime.State, cfg sim.Config, integ spacetime.Integrator) (*trajectory.Record, sim.Status) {
		rec, status, err := sim.New(m, integ).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		return rec, status
	}

	Describe("a circular orbit at r=10", func() {
		var cfg sim.Config

		BeforeEach(func() {
			cfg = sim.DefaultConfig()
			cfg.Dt = 0.05
			cfg.MaxProperTime = 400 // about two revolutions
			cfg.MinRadius = 2.5
			cfg.MaxRadius = 1e4
			cfg.DriftTolerance = 1e-6
			cfg.DriftCeiling = 1e-2
		})

		It("holds its radius", func() {
			x0, err := geodesic.CircularOrbit(m, 10)
			Expect(err).NotTo(HaveOccurred())

			rec, status := run(x0, cfg, integrators.NewRK4())
			Expect(status).To(Equal(sim.StatusTimeLimitReached))

			for _, r := range rec.Radii() {
				Expect(r).To(BeNumerically("~", 10, 1e-6))
			}
		})

		It("shows the analytic time dilation dt/dtau = 1/sqrt(1-3M/r)", func() {
			x0, err := geodesic.CircularOrbit(m, 10)
			Expect(err).NotTo(HaveOccurred())

			rec, _ := run(x0, cfg, integrators.NewRK4())
			last, ok := rec.Last()
			Expect(ok).To(BeTrue())

			want := 1 / math.Sqrt(1-3.0/10)
			Expect(last.T / last.Tau).To(BeNumerically("~", want, 1e-8))
		})

		It("keeps the four-velocity normalized throughout", func() {
			x0, err := geodesic.CircularOrbit(m, 10)
			Expect(err).NotTo(HaveOccurred())

			rec, _ := run(x0, cfg, integrators.NewRK4())
			Expect(rec.Warnings()).To(BeZero())
		})
	})

	Describe("an eccentric bound orbit", func() {
		It("precesses by about 6 pi GM / (c^2 a (1-e^2)) per orbit", func() {
			// Released at aphelion r=120 with the tangential
			// velocity of a Newtonian a=100, e=0.2 ellipse.
			vphi := math.Sqrt((1.0/100)*(0.8/1.2)) / 120
			x0, err := geodesic.TimelikeState(m, 120, math.Pi/2, 0, 0, 0, vphi)
			Expect(err).NotTo(HaveOccurred())

			cfg := sim.DefaultConfig()
			cfg.Dt = 0.5
			cfg.Adaptive = true
			cfg.Tolerance = 1e-10
			cfg.MinDt = 1e-6
			cfg.MaxDt = 5
			cfg.MaxProperTime = 22000 // three perihelion passages
			cfg.MinRadius = 2.5
			cfg.MaxRadius = 1e4
			cfg.DriftTolerance = 1e-6
			cfg.DriftCeiling = 1e-2

			rec, status := run(x0, cfg, integrators.NewRK45())
			Expect(status).To(Equal(sim.StatusTimeLimitReached))

			report, err := analysis.Precession(m, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Orbits).To(BeNumerically(">=", 2))
			// The prediction is first order in rs/a; a few percent
			// of disagreement is expected this close to the hole.
			Expect(report.MeanAdvance).To(BeNumerically("~", report.Predicted, 0.1*report.Predicted))
			Expect(report.MeanAdvance).To(BeNumerically(">", 0))
		})
	})

	Describe("radial infall from rest", func() {
		It("reaches the minimum radius in the free-fall proper time", func() {
			r0 := 8.0
			x0, err := geodesic.TimelikeState(m, r0, math.Pi/2, 0, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())

			cfg := sim.DefaultConfig()
			cfg.Dt = 0.001
			cfg.MaxProperTime = 100
			cfg.MinRadius = 2.1
			cfg.MaxRadius = 1e4
			cfg.DriftTolerance = 1e-6
			cfg.DriftCeiling = 1e-2

			rec, status := run(x0, cfg, integrators.NewRK4())
			Expect(status).To(Equal(sim.StatusHorizonApproach))

			// Proper time from rest at r0 to r, cycloid solution:
			// tau = sqrt(r0^3/(8M)) (eta + sin(eta)) with
			// r = r0 (1+cos(eta))/2.
			last, _ := rec.Last()
			eta := math.Acos(2*last.State.R()/r0 - 1)
			want := math.Sqrt(r0*r0*r0/8) * (eta + math.Sin(eta))
			Expect(last.Tau).To(BeNumerically("~", want, 1e-2))
		})

		It("never moves in the angular coordinates", func() {
			x0, err := geodesic.TimelikeState(m, 8, math.Pi/2, 1.25, 0, 0, 0)
			Expect(err).NotTo(HaveOccurred())

			cfg := sim.DefaultConfig()
			cfg.Dt = 0.001
			cfg.MaxProperTime = 100
			cfg.MinRadius = 2.1
			cfg.MaxRadius = 1e4
			cfg.DriftTolerance = 1e-6
			cfg.DriftCeiling = 1e-2

			rec, _ := run(x0, cfg, integrators.NewRK4())
			it := rec.Iter()
			for {
				s, ok := it.Next()
				if !ok {
					break
				}
				Expect(s.State.Theta()).To(Equal(math.Pi / 2))
				Expect(s.State.Phi()).To(Equal(1.25))
			}
		})
	})

	Describe("unit systems", func() {
		It("reproduces the geometrized orbit in SI units", func() {
			si, err := metric.NewSchwarzschild(spacetime.SolarMass, spacetime.SI)
			Expect(err).NotTo(HaveOccurred())

			// r = 10 GM/c^2 around the sun.
			halfRs := si.Rs() / 2
			x0, err := geodesic.CircularOrbit(si, 10*halfRs)
			Expect(err).NotTo(HaveOccurred())

			cfg := sim.DefaultConfig()
			cfg.Dt = 1e-6
			cfg.MaxProperTime = 1e-3
			cfg.MinRadius = si.Rs()
			cfg.MaxRadius = 1e12
			cfg.DriftTolerance = 1e-6
			cfg.DriftCeiling = 1e-2

			rec, status, err := sim.New(si, integrators.NewRK4()).Run(context.Background(), x0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(sim.StatusTimeLimitReached))
			for _, r := range rec.Radii() {
				Expect(r / halfRs).To(BeNumerically("~", 10, 1e-6))
			}
		})
	})
})
