package spacetime

import (
	"errors"
	"fmt"
)

// Domain errors for metric evaluation and integration.
var (
	// ErrUnphysical indicates a metric or connection evaluation at an
	// invalid coordinate (r at or inside the Schwarzschild radius, or
	// non-positive radius).
	ErrUnphysical = errors.New("spacetime: unphysical coordinates for this metric")

	// ErrNonFinite indicates the geodesic right-hand side produced a
	// NaN or Inf component.
	ErrNonFinite = errors.New("spacetime: non-finite derivative")

	// ErrStepTooSmall indicates the adaptive step size fell below its
	// configured floor.
	ErrStepTooSmall = errors.New("spacetime: adaptive step below minimum")

	// ErrDriftCeiling indicates the four-velocity normalization drifted
	// past the hard ceiling.
	ErrDriftCeiling = errors.New("spacetime: normalization drift exceeded hard ceiling")
)

// StepError wraps an error with the proper time and step index at which
// integration failed.
type StepError struct {
	Tau     float64
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (tau=%.6g): %v", e.Step, e.Tau, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
