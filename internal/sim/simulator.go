package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/m-weigel/relorbit/internal/geodesic"
	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/spacetime"
	"github.com/m-weigel/relorbit/internal/trajectory"
)

// Simulator advances a test particle along a geodesic of its metric,
// recording one sample per accepted step. A Simulator is cheap; build
// one per run.
type Simulator struct {
	metric    *metric.Schwarzschild
	field     *geodesic.Field
	integ     spacetime.Integrator
	observers []Observer
}

func New(m *metric.Schwarzschild, integ spacetime.Integrator) *Simulator {
	return &Simulator{
		metric: m,
		field:  geodesic.NewField(m),
		integ:  integ,
	}
}

// AddObserver registers o for per-sample notification. Not safe to call
// once Run has started.
func (s *Simulator) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Run integrates from x0 until a termination condition fires or ctx is
// cancelled. The returned record is sealed and never nil once the
// configuration has validated; on failure or cancellation it holds the
// partial trajectory up to the last accepted step.
func (s *Simulator) Run(ctx context.Context, x0 spacetime.State, cfg Config) (*trajectory.Record, Status, error) {
	return s.RunInto(ctx, x0, cfg, trajectory.NewRecord())
}

// RunInto is Run with a caller-supplied record, so a consumer holding
// an iterator on rec can follow the trajectory while it is produced.
// rec must be fresh: unsealed and empty.
func (s *Simulator) RunInto(ctx context.Context, x0 spacetime.State, cfg Config, rec *trajectory.Record) (*trajectory.Record, Status, error) {
	if err := cfg.Validate(); err != nil {
		return nil, StatusUnknown, err
	}
	if len(x0) != spacetime.StateDim {
		return nil, StatusUnknown, fmt.Errorf("%w: state has %d components, want %d", ErrConfig, len(x0), spacetime.StateDim)
	}

	defer rec.Seal()

	adaptive, _ := s.integ.(spacetime.AdaptiveIntegrator)
	useAdaptive := cfg.Adaptive && adaptive != nil
	if cfg.Adaptive && adaptive == nil {
		return rec, StatusUnknown, fmt.Errorf("%w: integrator %T does not support adaptive stepping", ErrConfig, s.integ)
	}

	x := x0.Clone()
	tau := 0.0
	dt := cfg.Dt
	step := 0
	c2 := s.metric.Const.C * s.metric.Const.C

	record := func() (Status, error) {
		drift, err := geodesic.NormDrift(s.metric, x)
		if err != nil {
			return StatusIntegrationFailure, &spacetime.StepError{Tau: tau, Step: step, Wrapped: err}
		}
		rel := math.Abs(drift) / c2
		if rel > cfg.DriftCeiling {
			return StatusIntegrationFailure, &spacetime.StepError{Tau: tau, Step: step, Wrapped: spacetime.ErrDriftCeiling}
		}
		sample := trajectory.Sample{
			Tau:     tau,
			T:       x[spacetime.CoordT],
			State:   x.Clone(),
			Drift:   rel,
			Warning: rel > cfg.DriftTolerance,
		}
		rec.Append(sample)
		for _, o := range s.observers {
			o.OnSample(sample)
		}
		return StatusUnknown, nil
	}

	if st, err := record(); err != nil {
		return rec, st, err
	}
	if st := s.boundaryStatus(x, cfg); st != StatusUnknown {
		return rec, st, nil
	}

	for tau < cfg.MaxProperTime {
		select {
		case <-ctx.Done():
			return rec, StatusCancelled, ctx.Err()
		default:
		}

		// Clamp the final step to land exactly on the time limit;
		// otherwise a sub-ulp remainder could stall the loop.
		h := dt
		final := false
		if remain := cfg.MaxProperTime - tau; h >= remain {
			h = remain
			final = true
		}

		var (
			next spacetime.State
			err  error
		)
		if useAdaptive {
			var proposed float64
			next, proposed, err = adaptive.StepAdaptive(s.field, x, tau, h, cfg.Tolerance)
			if err == nil {
				// On the clamped final step there is no next step, so a
				// tiny proposal is not an underflow.
				if proposed < cfg.MinDt && !final {
					return rec, StatusIntegrationFailure, &spacetime.StepError{Tau: tau, Step: step, Wrapped: spacetime.ErrStepTooSmall}
				}
				if proposed > cfg.MaxDt {
					proposed = cfg.MaxDt
				}
				dt = proposed
			}
		} else {
			next, err = s.integ.Step(s.field, x, tau, h)
		}
		if err != nil {
			return rec, StatusIntegrationFailure, &spacetime.StepError{Tau: tau, Step: step, Wrapped: err}
		}
		if !next.IsValid() {
			return rec, StatusIntegrationFailure, &spacetime.StepError{Tau: tau, Step: step, Wrapped: spacetime.ErrNonFinite}
		}

		x = next
		tau += h
		step++

		if st, err := record(); err != nil {
			return rec, st, err
		}
		if st := s.boundaryStatus(x, cfg); st != StatusUnknown {
			return rec, st, nil
		}
		if final {
			break
		}
	}
	return rec, StatusTimeLimitReached, nil
}

func (s *Simulator) boundaryStatus(x spacetime.State, cfg Config) Status {
	r := x.R()
	switch {
	case r <= cfg.MinRadius || r <= s.metric.Rs():
		return StatusHorizonApproach
	case r >= cfg.MaxRadius:
		return StatusEscaped
	default:
		return StatusUnknown
	}
}
