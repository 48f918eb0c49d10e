package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/spacetime"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

// syntheticOrbit records r(tau) = a(1 - e*cos(k*tau)), phi(tau) =
// omega*tau: a rosette whose perihelion advances by
// 2*pi*(omega/k - 1) per radial period.
func syntheticOrbit(a, e, k, omega, dt, tauMax float64) *trajectory.Record {
	rec := trajectory.NewRecord()
	for tau := 0.0; tau <= tauMax; tau += dt {
		x := make(spacetime.State, spacetime.StateDim)
		x[spacetime.CoordT] = tau
		x[spacetime.CoordR] = a * (1 - e*math.Cos(k*tau))
		x[spacetime.CoordTheta] = math.Pi / 2
		x[spacetime.CoordPhi] = omega * tau
		rec.Append(trajectory.Sample{Tau: tau, T: tau, State: x})
	}
	rec.Seal()
	return rec
}

func TestPeriheliaDetection(t *testing.T) {
	// Minima at k*tau = 2*pi*n, n >= 1 (tau=0 is an endpoint and
	// must not be reported).
	rec := syntheticOrbit(10, 0.2, 1, 1.1, 0.01, 4*2*math.Pi+1)
	peri := Perihelia(rec)
	if len(peri) != 4 {
		t.Fatalf("found %d perihelia, want 4", len(peri))
	}
	for n, p := range peri {
		wantTau := 2 * math.Pi * float64(n+1)
		if math.Abs(p.Tau-wantTau) > 1e-3 {
			t.Errorf("perihelion %d at tau=%v, want %v", n, p.Tau, wantTau)
		}
		if math.Abs(p.R-8) > 1e-3 {
			t.Errorf("perihelion %d radius %v, want 8", n, p.R)
		}
	}

	aph := Aphelia(rec)
	if len(aph) != 4 {
		t.Fatalf("found %d aphelia, want 4", len(aph))
	}
	if r := aph[0].R; math.Abs(r-12) > 1e-3 {
		t.Errorf("aphelion radius %v, want 12", r)
	}
}

func TestPrecessionMeasured(t *testing.T) {
	m, err := metric.NewSchwarzschild(1, spacetime.Geometrized)
	if err != nil {
		t.Fatal(err)
	}
	// omega/k = 1.1: the perihelion advances 0.2*pi per orbit.
	rec := syntheticOrbit(10, 0.2, 1, 1.1, 0.01, 5*2*math.Pi)
	report, err := Precession(m, rec)
	if err != nil {
		t.Fatalf("Precession: %v", err)
	}

	wantAdvance := 0.2 * math.Pi
	if math.Abs(report.MeanAdvance-wantAdvance) > 1e-3 {
		t.Errorf("mean advance = %v, want %v", report.MeanAdvance, wantAdvance)
	}
	if report.StdDev > 1e-3 {
		t.Errorf("advance scatter = %v, want near zero for a perfect rosette", report.StdDev)
	}
	if math.Abs(report.SemiMajor-10) > 1e-2 {
		t.Errorf("semi-major axis = %v, want 10", report.SemiMajor)
	}
	if math.Abs(report.Eccentricity-0.2) > 1e-3 {
		t.Errorf("eccentricity = %v, want 0.2", report.Eccentricity)
	}
	// 6*pi*GM / (c^2 a (1-e^2)) with G=c=M=1, a=10, e=0.2.
	wantPred := 6 * math.Pi / (10 * 0.96)
	if math.Abs(report.Predicted-wantPred) > 1e-9 {
		t.Errorf("predicted advance = %v, want %v", report.Predicted, wantPred)
	}
}

func TestPrecessionTooFewOrbits(t *testing.T) {
	m, err := metric.NewSchwarzschild(1, spacetime.Geometrized)
	if err != nil {
		t.Fatal(err)
	}
	rec := syntheticOrbit(10, 0.2, 1, 1.1, 0.01, math.Pi) // half a radial period
	if _, err := Precession(m, rec); !errors.Is(err, ErrTooFewOrbits) {
		t.Errorf("err = %v, want ErrTooFewOrbits", err)
	}
}

func TestPrecessionRejectsInclined(t *testing.T) {
	m, err := metric.NewSchwarzschild(1, spacetime.Geometrized)
	if err != nil {
		t.Fatal(err)
	}
	rec := trajectory.NewRecord()
	for tau := 0.0; tau < 10; tau += 0.1 {
		x := make(spacetime.State, spacetime.StateDim)
		x[spacetime.CoordR] = 10
		x[spacetime.CoordTheta] = math.Pi/2 + 0.3*math.Sin(tau)
		rec.Append(trajectory.Sample{Tau: tau, State: x})
	}
	rec.Seal()
	if _, err := Precession(m, rec); !errors.Is(err, ErrNotEquatorial) {
		t.Errorf("err = %v, want ErrNotEquatorial", err)
	}
}
