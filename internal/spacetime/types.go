package spacetime

import "math"

// State is the geodesic ODE state vector: four coordinates followed by
// the four-velocity, indexed by the Coord constants.
type State []float64

// Coordinate and velocity indices into a State.
const (
	CoordT = iota
	CoordR
	CoordTheta
	CoordPhi
	VelT
	VelR
	VelTheta
	VelPhi

	StateDim = 8
)

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Point returns the spacetime coordinates (t, r, theta, phi).
func (s State) Point() (t, r, theta, phi float64) {
	return s[CoordT], s[CoordR], s[CoordTheta], s[CoordPhi]
}

// Velocity returns the four-velocity components (u^t, u^r, u^theta, u^phi).
func (s State) Velocity() (ut, ur, utheta, uphi float64) {
	return s[VelT], s[VelR], s[VelTheta], s[VelPhi]
}

func (s State) R() float64     { return s[CoordR] }
func (s State) Theta() float64 { return s[CoordTheta] }
func (s State) Phi() float64   { return s[CoordPhi] }

// Field is the right-hand side of the geodesic equation system. Derive
// returns the proper-time derivative of x, or an error when x lies at a
// coordinate where the metric is singular.
type Field interface {
	Derive(x State, tau float64) (State, error)
}

// Integrator advances a state by one proper-time step.
type Integrator interface {
	Step(f Field, x State, tau, dt float64) (State, error)
}

// AdaptiveIntegrator additionally estimates local truncation error and
// proposes the next step size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(f Field, x State, tau, dt, tol float64) (State, float64, error)
}

// Constants holds the physical constants a metric is built against.
// Passing them explicitly lets simulations in different unit systems
// coexist in one process.
type Constants struct {
	G float64 // gravitational constant
	C float64 // speed of light
}

// SI constants, CODATA values.
var SI = Constants{G: 6.6743e-11, C: 299792458}

// Geometrized units, G = c = 1. Radii come out in units of mass.
var Geometrized = Constants{G: 1, C: 1}

// Reference masses in kilograms.
const (
	SolarMass = 1.98847e30
	EarthMass = 5.9722e24
)
