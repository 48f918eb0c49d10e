package integrators

import "github.com/m-weigel/relorbit/internal/spacetime"

// RK4 is the classical fixed-step fourth-order Runge-Kutta method.
// Scratch buffers are reused across steps; an RK4 value must not be
// shared between concurrently running trajectories.
type RK4 struct {
	k1, k2, k3, k4 spacetime.State
	scratch        spacetime.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(spacetime.State, n)
		r.k2 = make(spacetime.State, n)
		r.k3 = make(spacetime.State, n)
		r.k4 = make(spacetime.State, n)
		r.scratch = make(spacetime.State, n)
	}
}

func (r *RK4) Step(f spacetime.Field, x spacetime.State, tau, dt float64) (spacetime.State, error) {
	n := len(x)
	r.ensureScratch(n)

	k1, err := f.Derive(x, tau)
	if err != nil {
		return nil, err
	}
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2, err := f.Derive(r.scratch, tau+dt*0.5)
	if err != nil {
		return nil, err
	}
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3, err := f.Derive(r.scratch, tau+dt*0.5)
	if err != nil {
		return nil, err
	}
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4, err := f.Derive(r.scratch, tau+dt)
	if err != nil {
		return nil, err
	}
	copy(r.k4, k4)

	result := make(spacetime.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result, nil
}
