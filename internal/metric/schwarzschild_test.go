package metric

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/m-weigel/relorbit/internal/spacetime"
)

func TestSchwarzschildRadius(t *testing.T) {
	s, err := NewSchwarzschild(spacetime.SolarMass, spacetime.SI)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}

	// ~2.95 km for one solar mass.
	if math.Abs(s.Rs()-2953.25) > 1.0 {
		t.Errorf("solar rs: expected ~2953 m, got %f", s.Rs())
	}

	g, err := NewSchwarzschild(1, spacetime.Geometrized)
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	if g.Rs() != 2 {
		t.Errorf("geometrized rs: expected 2, got %f", g.Rs())
	}
}

func TestNewSchwarzschildRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		m    float64
		k    spacetime.Constants
	}{
		{"zero mass", 0, spacetime.SI},
		{"negative mass", -1, spacetime.SI},
		{"zero c", 1, spacetime.Constants{G: 1, C: 0}},
		{"negative G", 1, spacetime.Constants{G: -1, C: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSchwarzschild(tt.m, tt.k); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestTensorDiagonal(t *testing.T) {
	s, _ := NewSchwarzschild(1, spacetime.Geometrized)

	r, theta := 10.0, math.Pi/3
	g, err := s.Tensor(r, theta)
	if err != nil {
		t.Fatalf("tensor failed: %v", err)
	}

	f := 1 - 2.0/r
	sin := math.Sin(theta)
	want := []float64{f, -1 / f, -r * r, -r * r * sin * sin}
	for i, w := range want {
		if !scalar.EqualWithinAbs(g[i], w, 1e-14) {
			t.Errorf("component %d: expected %g, got %g", i, w, g[i])
		}
	}
}

func TestTensorInvertible(t *testing.T) {
	s, _ := NewSchwarzschild(1, spacetime.Geometrized)

	for _, r := range []float64{2.1, 3, 10, 1e3, 1e6} {
		g, err := s.Tensor(r, math.Pi/2)
		if err != nil {
			t.Fatalf("tensor at r=%g failed: %v", r, err)
		}

		// Entry-wise reciprocal must agree with a full matrix inverse.
		var inv mat.Dense
		if err := inv.Inverse(g.Sym()); err != nil {
			t.Fatalf("tensor at r=%g not invertible: %v", r, err)
		}
		gi := g.Inverse()
		for i := 0; i < 4; i++ {
			if !scalar.EqualWithinAbsOrRel(gi[i], inv.At(i, i), 1e-12, 1e-12) {
				t.Errorf("r=%g inverse[%d]: expected %g, got %g", r, i, inv.At(i, i), gi[i])
			}
		}
	}
}

func TestMinkowskiLimit(t *testing.T) {
	s, _ := NewSchwarzschild(1, spacetime.Geometrized)

	r := 1e12
	g, err := s.Tensor(r, math.Pi/2)
	if err != nil {
		t.Fatalf("tensor failed: %v", err)
	}

	if !scalar.EqualWithinAbs(g[0], 1, 1e-10) {
		t.Errorf("g_tt at large r: expected 1, got %g", g[0])
	}
	if !scalar.EqualWithinAbs(g[1], -1, 1e-10) {
		t.Errorf("g_rr at large r: expected -1, got %g", g[1])
	}
}

func TestUnphysicalRadius(t *testing.T) {
	s, _ := NewSchwarzschild(1, spacetime.Geometrized)

	for _, r := range []float64{-1, 0, 1, 2} {
		if _, err := s.Tensor(r, math.Pi/2); !errors.Is(err, spacetime.ErrUnphysical) {
			t.Errorf("r=%g: expected ErrUnphysical, got %v", r, err)
		}
		if _, err := s.Derivatives(r, math.Pi/2); !errors.Is(err, spacetime.ErrUnphysical) {
			t.Errorf("derivatives r=%g: expected ErrUnphysical, got %v", r, err)
		}
	}
}

func TestDerivativesFiniteDifference(t *testing.T) {
	s, _ := NewSchwarzschild(1, spacetime.Geometrized)

	r, theta := 8.0, math.Pi/3
	d, err := s.Derivatives(r, theta)
	if err != nil {
		t.Fatalf("derivatives failed: %v", err)
	}

	const h = 1e-6
	gp, _ := s.Tensor(r+h, theta)
	gm, _ := s.Tensor(r-h, theta)
	for i := 0; i < 4; i++ {
		fd := (gp[i] - gm[i]) / (2 * h)
		if !scalar.EqualWithinAbsOrRel(d.DR[i], fd, 1e-5, 1e-5) {
			t.Errorf("dR[%d]: analytic %g vs finite difference %g", i, d.DR[i], fd)
		}
	}

	gp, _ = s.Tensor(r, theta+h)
	gm, _ = s.Tensor(r, theta-h)
	for i := 0; i < 4; i++ {
		fd := (gp[i] - gm[i]) / (2 * h)
		if !scalar.EqualWithinAbsOrRel(d.DTheta[i], fd, 1e-5, 1e-5) {
			t.Errorf("dTheta[%d]: analytic %g vs finite difference %g", i, d.DTheta[i], fd)
		}
	}
}

func TestTensorInner(t *testing.T) {
	s, _ := NewSchwarzschild(1, spacetime.Geometrized)

	g, _ := s.Tensor(10, math.Pi/2)
	u := []float64{1, 0, 0, 0}
	if got := g.Inner(u, u); !scalar.EqualWithinAbs(got, g[0], 1e-14) {
		t.Errorf("inner with unit time vector: expected %g, got %g", g[0], got)
	}
}
