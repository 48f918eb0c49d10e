package integrators

import "github.com/m-weigel/relorbit/internal/spacetime"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(f spacetime.Field, x spacetime.State, tau, dt float64) (spacetime.State, error) {
	dx, err := f.Derive(x, tau)
	if err != nil {
		return nil, err
	}
	result := make(spacetime.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result, nil
}
