// Package metrics holds per-run diagnostics that watch a trajectory as
// it is produced. Every metric is a sim.Observer; its Value is read
// after the run and stored alongside the record.
package metrics

import (
	"math"

	"github.com/m-weigel/relorbit/internal/trajectory"
)

type Metric interface {
	Name() string
	OnSample(s trajectory.Sample)
	Value() float64
	Reset()
}

// MaxDrift tracks the worst normalization drift seen over the run.
type MaxDrift struct {
	max float64
}

func NewMaxDrift() *MaxDrift { return &MaxDrift{} }

func (m *MaxDrift) Name() string { return "max_drift" }

func (m *MaxDrift) OnSample(s trajectory.Sample) {
	m.max = math.Max(m.max, math.Abs(s.Drift))
}

func (m *MaxDrift) Value() float64 { return m.max }

func (m *MaxDrift) Reset() { m.max = 0 }

// RMin tracks the smallest radial coordinate reached.
type RMin struct {
	min     float64
	samples int
}

func NewRMin() *RMin { return &RMin{} }

func (m *RMin) Name() string { return "r_min" }

func (m *RMin) OnSample(s trajectory.Sample) {
	r := s.State.R()
	if m.samples == 0 || r < m.min {
		m.min = r
	}
	m.samples++
}

func (m *RMin) Value() float64 { return m.min }

func (m *RMin) Reset() { m.min = 0; m.samples = 0 }

// RMax tracks the largest radial coordinate reached.
type RMax struct {
	max     float64
	samples int
}

func NewRMax() *RMax { return &RMax{} }

func (m *RMax) Name() string { return "r_max" }

func (m *RMax) OnSample(s trajectory.Sample) {
	r := s.State.R()
	if m.samples == 0 || r > m.max {
		m.max = r
	}
	m.samples++
}

func (m *RMax) Value() float64 { return m.max }

func (m *RMax) Reset() { m.max = 0; m.samples = 0 }
