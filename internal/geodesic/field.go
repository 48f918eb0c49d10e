package geodesic

import (
	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/spacetime"
)

// Field is the geodesic right-hand side for a given metric: the
// derivative of position is the four-velocity, the derivative of the
// four-velocity is a^mu = -Gamma^mu_{ab} u^a u^b. It holds no mutable
// state and is safe for concurrent use across independent trajectories.
type Field struct {
	Metric *metric.Schwarzschild
}

func NewField(m *metric.Schwarzschild) *Field {
	return &Field{Metric: m}
}

// Derive implements spacetime.Field. The system is autonomous; tau is
// accepted only to satisfy the integrator contract.
func (f *Field) Derive(x spacetime.State, tau float64) (spacetime.State, error) {
	_, r, theta, _ := x.Point()
	ch, err := Symbols(f.Metric, r, theta)
	if err != nil {
		return nil, err
	}

	ut, ur, uth, uph := x.Velocity()

	d := make(spacetime.State, spacetime.StateDim)
	d[spacetime.CoordT] = ut
	d[spacetime.CoordR] = ur
	d[spacetime.CoordTheta] = uth
	d[spacetime.CoordPhi] = uph

	d[spacetime.VelT] = -2 * ch.TTR * ut * ur
	d[spacetime.VelR] = -(ch.RTT*ut*ut + ch.RRR*ur*ur + ch.RThTh*uth*uth + ch.RPhPh*uph*uph)
	d[spacetime.VelTheta] = -(2*ch.ThRTh*ur*uth + ch.ThPhPh*uph*uph)
	d[spacetime.VelPhi] = -(2*ch.PhRPh*ur*uph + 2*ch.PhThPh*uth*uph)

	if !d.IsValid() {
		return nil, spacetime.ErrNonFinite
	}
	return d, nil
}
