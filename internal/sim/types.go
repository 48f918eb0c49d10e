package sim

import (
	"errors"
	"fmt"

	"github.com/m-weigel/relorbit/internal/trajectory"
)

// Status is the terminal outcome of a simulation run. Every run yields
// a record plus exactly one of these.
type Status uint8

const (
	StatusUnknown Status = iota
	// StatusHorizonApproach: the radial coordinate dropped below the
	// configured minimum (approach to the horizon or singularity).
	StatusHorizonApproach
	// StatusEscaped: the radial coordinate exceeded the configured
	// maximum bounding radius.
	StatusEscaped
	// StatusTimeLimitReached: proper time reached the configured cutoff.
	StatusTimeLimitReached
	// StatusIntegrationFailure: the right-hand side went non-finite or
	// drift passed the hard ceiling; fatal, no retry.
	StatusIntegrationFailure
	// StatusCancelled: the run context was cancelled; the partial
	// record is returned, not discarded.
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusHorizonApproach:
		return "horizon_approach"
	case StatusEscaped:
		return "escaped"
	case StatusTimeLimitReached:
		return "time_limit_reached"
	case StatusIntegrationFailure:
		return "integration_failure"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrConfig flags invalid user input rejected before any integration
// begins.
var ErrConfig = errors.New("sim: invalid configuration")

// Config is the step-size and termination policy of a run. Radii are in
// the same units as the metric; drift bounds are relative to c^2.
type Config struct {
	Dt            float64 // proper-time step (initial step when adaptive)
	MaxProperTime float64

	MinRadius float64 // horizon-approach threshold
	MaxRadius float64 // escape threshold

	Adaptive  bool
	Tolerance float64 // local error tolerance for adaptive stepping
	MinDt     float64
	MaxDt     float64

	DriftTolerance float64 // soft: samples past this are flagged
	DriftCeiling   float64 // hard: escalates to integration failure
}

func DefaultConfig() Config {
	return Config{
		Dt:             1e-3,
		MaxProperTime:  10,
		MinRadius:      0,
		MaxRadius:      1e12,
		Tolerance:      1e-9,
		MinDt:          1e-12,
		MaxDt:          1,
		DriftTolerance: 1e-8,
		DriftCeiling:   1e-3,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: step size must be positive, got %g", ErrConfig, c.Dt)
	}
	if c.MaxProperTime <= 0 {
		return fmt.Errorf("%w: max proper time must be positive, got %g", ErrConfig, c.MaxProperTime)
	}
	if c.MinRadius < 0 {
		return fmt.Errorf("%w: min radius must be non-negative, got %g", ErrConfig, c.MinRadius)
	}
	if c.MinRadius >= c.MaxRadius {
		return fmt.Errorf("%w: min radius %g must be below max radius %g", ErrConfig, c.MinRadius, c.MaxRadius)
	}
	if c.Adaptive {
		if c.Tolerance <= 0 {
			return fmt.Errorf("%w: adaptive stepping needs a positive tolerance", ErrConfig)
		}
		if c.MinDt <= 0 || c.MaxDt < c.MinDt {
			return fmt.Errorf("%w: step bounds [%g, %g] invalid", ErrConfig, c.MinDt, c.MaxDt)
		}
	}
	if c.DriftTolerance < 0 || c.DriftCeiling < c.DriftTolerance {
		return fmt.Errorf("%w: drift ceiling %g below tolerance %g", ErrConfig, c.DriftCeiling, c.DriftTolerance)
	}
	return nil
}

// Observer is notified of every accepted sample as it is recorded, the
// streaming handoff point for visualization or logging collaborators.
type Observer interface {
	OnSample(s trajectory.Sample)
}
