package metrics

import (
	"math"

	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/spacetime"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

// EnergyDrift watches the conserved specific energy of geodesic
// motion, E = (1 - rs/r) c^2 u^t, and reports the largest relative
// deviation from its initial value. Growth means the integrator is
// leaking the time-translation invariant.
type EnergyDrift struct {
	metric   *metric.Schwarzschild
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift(m *metric.Schwarzschild) *EnergyDrift {
	return &EnergyDrift{metric: m}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) OnSample(s trajectory.Sample) {
	c := e.metric.Const.C
	r := s.State.R()
	energy := (1 - e.metric.Rs()/r) * c * c * s.State[spacetime.VelT]

	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift watches L = r^2 sin^2(theta) u^phi, conserved
// by the axial symmetry of the metric. Purely radial motion has L = 0
// and the metric reports zero drift.
type AngularMomentumDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{}
}

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) OnSample(s trajectory.Sample) {
	r := s.State.R()
	sin := math.Sin(s.State.Theta())
	l := r * r * sin * sin * s.State[spacetime.VelPhi]

	if a.samples == 0 {
		a.initial = l
	}
	a.samples++

	if a.initial != 0 {
		drift := math.Abs(l-a.initial) / math.Abs(a.initial)
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}
