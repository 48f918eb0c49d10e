// Package analysis extracts orbital diagnostics from recorded
// trajectories: turning points of the radial coordinate and the
// relativistic advance of the perihelion per orbit.
package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

var (
	// ErrTooFewOrbits: the record does not cover enough radial
	// periods to measure an advance.
	ErrTooFewOrbits = errors.New("analysis: need at least two perihelion passages")
	// ErrNotEquatorial: precession analysis assumes motion in the
	// equatorial plane.
	ErrNotEquatorial = errors.New("analysis: trajectory leaves the equatorial plane")
)

// TurningPoint is a refined local extremum of the radial coordinate.
type TurningPoint struct {
	Tau float64
	R   float64
	Phi float64 // accumulated azimuth, never wrapped
}

// PrecessionReport compares the measured perihelion advance against
// the first-order prediction 6 pi GM / (c^2 a (1-e^2)) built from the
// same trajectory's turning points.
type PrecessionReport struct {
	Orbits       int     // number of full radial periods measured
	MeanAdvance  float64 // radians per orbit
	StdDev       float64
	Predicted    float64
	SemiMajor    float64
	Eccentricity float64
}

// Perihelia returns the radial minima of the record, one per orbit,
// refined by fitting a parabola through the discrete minimum and its
// neighbors. Endpoints are never reported: a minimum needs samples on
// both sides.
func Perihelia(rec *trajectory.Record) []TurningPoint {
	return turningPoints(rec, func(a, b, c float64) bool { return b < a && b <= c })
}

// Aphelia returns the radial maxima of the record, refined the same
// way as Perihelia.
func Aphelia(rec *trajectory.Record) []TurningPoint {
	return turningPoints(rec, func(a, b, c float64) bool { return b > a && b >= c })
}

func turningPoints(rec *trajectory.Record, isExtremum func(a, b, c float64) bool) []TurningPoint {
	n := rec.Len()
	var out []TurningPoint
	for i := 1; i < n-1; i++ {
		prev := rec.At(i - 1)
		cur := rec.At(i)
		next := rec.At(i + 1)
		r0, r1, r2 := prev.State.R(), cur.State.R(), next.State.R()
		if !isExtremum(r0, r1, r2) {
			continue
		}
		out = append(out, refine(prev, cur, next))
	}
	return out
}

// refine fits r(tau) with the quadratic through three samples and
// evaluates the vertex, then interpolates phi linearly to the vertex
// time. Falls back to the discrete sample when the fit degenerates.
func refine(s0, s1, s2 trajectory.Sample) TurningPoint {
	t0, t1, t2 := s0.Tau, s1.Tau, s2.Tau
	r0, r1, r2 := s0.State.R(), s1.State.R(), s2.State.R()

	num := (t1-t0)*(t1-t0)*(r1-r2) - (t1-t2)*(t1-t2)*(r1-r0)
	den := (t1-t0)*(r1-r2) - (t1-t2)*(r1-r0)
	if den == 0 {
		return TurningPoint{Tau: t1, R: r1, Phi: s1.State.Phi()}
	}
	tv := t1 - 0.5*num/den

	lo, hi := s0, s1
	if tv > t1 {
		lo, hi = s1, s2
	}
	frac := 0.0
	if dtau := hi.Tau - lo.Tau; dtau > 0 {
		frac = (tv - lo.Tau) / dtau
	}
	phi := lo.State.Phi() + frac*(hi.State.Phi()-lo.State.Phi())
	r := lo.State.R() + frac*(hi.State.R()-lo.State.R())
	return TurningPoint{Tau: tv, R: r, Phi: phi}
}

// Precession measures the per-orbit perihelion advance of an
// equatorial trajectory and the first-order prediction from its own
// turning-point geometry.
func Precession(m *metric.Schwarzschild, rec *trajectory.Record) (PrecessionReport, error) {
	it := rec.Iter()
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		if math.Abs(s.State.Theta()-math.Pi/2) > 1e-3 {
			return PrecessionReport{}, fmt.Errorf("%w: theta=%g at tau=%g",
				ErrNotEquatorial, s.State.Theta(), s.Tau)
		}
	}

	peri := Perihelia(rec)
	if len(peri) < 2 {
		return PrecessionReport{}, fmt.Errorf("%w: found %d", ErrTooFewOrbits, len(peri))
	}
	aph := Aphelia(rec)
	if len(aph) == 0 {
		return PrecessionReport{}, fmt.Errorf("%w: no aphelion passage", ErrTooFewOrbits)
	}

	advances := make([]float64, len(peri)-1)
	for i := range advances {
		advances[i] = math.Abs(peri[i+1].Phi-peri[i].Phi) - 2*math.Pi
	}

	rmin := meanR(peri)
	rmax := meanR(aph)
	a := (rmin + rmax) / 2
	e := (rmax - rmin) / (rmax + rmin)

	c := m.Const.C
	predicted := 6 * math.Pi * m.Const.G * m.M / (c * c * a * (1 - e*e))

	report := PrecessionReport{
		Orbits:       len(advances),
		MeanAdvance:  stat.Mean(advances, nil),
		Predicted:    predicted,
		SemiMajor:    a,
		Eccentricity: e,
	}
	if len(advances) > 1 {
		report.StdDev = stat.StdDev(advances, nil)
	}
	return report, nil
}

func meanR(pts []TurningPoint) float64 {
	rs := make([]float64, len(pts))
	for i, p := range pts {
		rs[i] = p.R
	}
	return stat.Mean(rs, nil)
}
