package metric

import (
	"gonum.org/v1/gonum/mat"
)

// Tensor is the metric tensor evaluated at a point. Schwarzschild
// coordinates diagonalize it, so only the four diagonal entries are
// stored, ordered (tt, rr, thth, phph). Off-diagonal components are
// identically zero.
type Tensor [4]float64

// Inverse returns the inverse metric. For a diagonal tensor this is the
// entry-wise reciprocal.
func (g Tensor) Inverse() Tensor {
	return Tensor{1 / g[0], 1 / g[1], 1 / g[2], 1 / g[3]}
}

// Sym expands the tensor into its full symmetric 4x4 form.
func (g Tensor) Sym() *mat.SymDense {
	m := mat.NewSymDense(4, nil)
	for i := 0; i < 4; i++ {
		m.SetSym(i, i, g[i])
	}
	return m
}

// Inner evaluates the quadratic form g_{mu nu} x^mu y^nu.
func (g Tensor) Inner(x, y []float64) float64 {
	return mat.Inner(mat.NewVecDense(4, x), g.Sym(), mat.NewVecDense(4, y))
}

// Derivatives holds the first partial derivatives of the diagonal metric
// components with respect to r and theta. Derivatives with respect to t
// and phi vanish (static, axially symmetric metric).
type Derivatives struct {
	DR     Tensor
	DTheta Tensor
}
