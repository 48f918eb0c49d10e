package geodesic

import (
	"fmt"
	"math"

	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/spacetime"
)

// TimelikeState builds the initial ODE state for a massive particle at
// (r, theta, phi) with spatial proper velocity (vr, vtheta, vphi). The
// time component u^t is derived from the normalization condition
// g_{mu nu} u^mu u^nu = c^2, taking the future-directed root.
// Coordinate time starts at zero.
func TimelikeState(m *metric.Schwarzschild, r, theta, phi, vr, vtheta, vphi float64) (spacetime.State, error) {
	g, err := m.Tensor(r, theta)
	if err != nil {
		return nil, err
	}

	c := m.Const.C
	spatial := g[1]*vr*vr + g[2]*vtheta*vtheta + g[3]*vphi*vphi
	utSq := (c*c - spatial) / g[0]
	if utSq <= 0 || math.IsNaN(utSq) {
		return nil, fmt.Errorf("no timelike four-velocity for v=(%g,%g,%g) at r=%g: %w",
			vr, vtheta, vphi, r, spacetime.ErrUnphysical)
	}

	x := make(spacetime.State, spacetime.StateDim)
	x[spacetime.CoordR] = r
	x[spacetime.CoordTheta] = theta
	x[spacetime.CoordPhi] = phi
	x[spacetime.VelT] = math.Sqrt(utSq)
	x[spacetime.VelR] = vr
	x[spacetime.VelTheta] = vtheta
	x[spacetime.VelPhi] = vphi
	return x, nil
}

// NormDrift returns g_{mu nu} u^mu u^nu - c^2 for the state's
// four-velocity. Zero for an exactly normalized timelike worldline;
// growth along a trajectory signals integration drift.
func NormDrift(m *metric.Schwarzschild, x spacetime.State) (float64, error) {
	_, r, theta, _ := x.Point()
	g, err := m.Tensor(r, theta)
	if err != nil {
		return 0, err
	}
	u := []float64{x[spacetime.VelT], x[spacetime.VelR], x[spacetime.VelTheta], x[spacetime.VelPhi]}
	c := m.Const.C
	return g.Inner(u, u) - c*c, nil
}

// CircularOrbit returns the state of a circular equatorial orbit of
// coordinate radius r, orbiting in the +phi direction. The angular
// velocity follows from the geodesic equation: d(phi)/dt = sqrt(GM/r^3).
// Only radii outside 3/2 rs admit timelike circular orbits.
func CircularOrbit(m *metric.Schwarzschild, r float64) (spacetime.State, error) {
	g, err := m.Tensor(r, math.Pi/2)
	if err != nil {
		return nil, err
	}

	c := m.Const.C
	omega := math.Sqrt(m.Const.G * m.M / (r * r * r)) // coordinate angular velocity
	// c^2 = g_tt (u^t)^2 + g_phph (omega u^t)^2
	den := g[0] + g[3]*omega*omega
	if den <= 0 {
		return nil, fmt.Errorf("no timelike circular orbit at r=%g: %w", r, spacetime.ErrUnphysical)
	}
	ut := c / math.Sqrt(den)

	x := make(spacetime.State, spacetime.StateDim)
	x[spacetime.CoordR] = r
	x[spacetime.CoordTheta] = math.Pi / 2
	x[spacetime.VelT] = ut
	x[spacetime.VelPhi] = omega * ut
	return x, nil
}
