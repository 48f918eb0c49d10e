package geodesic

import (
	"github.com/m-weigel/relorbit/internal/metric"
)

// Christoffel holds the connection coefficients of the Schwarzschild
// metric that are not identically zero. The symbols are symmetric in
// their lower indices; each field stores one representative. Every
// component not listed here vanishes algebraically and is treated as
// exactly zero by the geodesic equation, never accumulated as round-off.
type Christoffel struct {
	TTR    float64 // Gamma^t_{t r}
	RTT    float64 // Gamma^r_{t t}
	RRR    float64 // Gamma^r_{r r}
	RThTh  float64 // Gamma^r_{theta theta}
	RPhPh  float64 // Gamma^r_{phi phi}
	ThRTh  float64 // Gamma^theta_{r theta}
	ThPhPh float64 // Gamma^theta_{phi phi}
	PhRPh  float64 // Gamma^phi_{r phi}
	PhThPh float64 // Gamma^phi_{theta phi}
}

// Symbols computes the connection coefficients at (r, theta) from the
// metric tensor and its first partial derivatives,
//
//	Gamma^b_{a n} = 1/2 g^{b b} (d_a g_{b n} + d_n g_{b a} - d_b g_{a n}),
//
// using the diagonal inverse. It propagates the metric's unphysical-
// coordinate error unchanged.
func Symbols(m *metric.Schwarzschild, r, theta float64) (Christoffel, error) {
	d, err := m.Derivatives(r, theta)
	if err != nil {
		return Christoffel{}, err
	}
	g, err := m.Tensor(r, theta)
	if err != nil {
		return Christoffel{}, err
	}
	inv := g.Inverse()

	return Christoffel{
		TTR:    0.5 * inv[0] * d.DR[0],
		RTT:    -0.5 * inv[1] * d.DR[0],
		RRR:    0.5 * inv[1] * d.DR[1],
		RThTh:  -0.5 * inv[1] * d.DR[2],
		RPhPh:  -0.5 * inv[1] * d.DR[3],
		ThRTh:  0.5 * inv[2] * d.DR[2],
		ThPhPh: -0.5 * inv[2] * d.DTheta[3],
		PhRPh:  0.5 * inv[3] * d.DR[3],
		PhThPh: 0.5 * inv[3] * d.DTheta[3],
	}, nil
}
