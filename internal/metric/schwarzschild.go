package metric

import (
	"fmt"
	"math"

	"github.com/m-weigel/relorbit/internal/spacetime"
)

// Schwarzschild models the spacetime around a single non-rotating,
// uncharged central mass. All methods are pure functions of their
// inputs; the tensor is recomputed at every evaluation point.
type Schwarzschild struct {
	M     float64             // central mass
	Const spacetime.Constants // unit system the mass is expressed in

	rs float64
}

// NewSchwarzschild builds the metric model for mass m (in the units of k).
func NewSchwarzschild(m float64, k spacetime.Constants) (*Schwarzschild, error) {
	if m <= 0 {
		return nil, fmt.Errorf("metric: mass must be positive, got %g", m)
	}
	if k.G <= 0 || k.C <= 0 {
		return nil, fmt.Errorf("metric: constants must be positive, got G=%g c=%g", k.G, k.C)
	}
	return &Schwarzschild{
		M:     m,
		Const: k,
		rs:    2 * k.G * m / (k.C * k.C),
	}, nil
}

// Rs returns the Schwarzschild radius 2GM/c^2.
func (s *Schwarzschild) Rs() float64 { return s.rs }

// checkRadius rejects radii where these coordinates are singular.
func (s *Schwarzschild) checkRadius(r float64) error {
	if r <= 0 || r <= s.rs {
		return fmt.Errorf("r=%g with rs=%g: %w", r, s.rs, spacetime.ErrUnphysical)
	}
	return nil
}

// Tensor evaluates the metric at radius r and polar angle theta:
//
//	g_tt   = c^2 (1 - rs/r)
//	g_rr   = -1 / (1 - rs/r)
//	g_thth = -r^2
//	g_phph = -r^2 sin^2(theta)
func (s *Schwarzschild) Tensor(r, theta float64) (Tensor, error) {
	if err := s.checkRadius(r); err != nil {
		return Tensor{}, err
	}
	f := 1 - s.rs/r
	sin := math.Sin(theta)
	return Tensor{
		s.Const.C * s.Const.C * f,
		-1 / f,
		-r * r,
		-r * r * sin * sin,
	}, nil
}

// Derivatives evaluates the first partial derivatives of the metric
// components at (r, theta).
func (s *Schwarzschild) Derivatives(r, theta float64) (Derivatives, error) {
	if err := s.checkRadius(r); err != nil {
		return Derivatives{}, err
	}
	f := 1 - s.rs/r
	sin, cos := math.Sincos(theta)
	return Derivatives{
		DR: Tensor{
			s.Const.C * s.Const.C * s.rs / (r * r),
			s.rs / (f * f * r * r),
			-2 * r,
			-2 * r * sin * sin,
		},
		DTheta: Tensor{
			0,
			0,
			0,
			-2 * r * r * sin * cos,
		},
	}, nil
}
