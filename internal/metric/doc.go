// Package metric evaluates the Schwarzschild metric tensor and its
// partial derivatives as pure functions of the evaluation point.
//
// The metric carries the signature (+,-,-,-), so the timelike
// normalization condition reads g_{mu nu} u^mu u^nu = c^2. Evaluations
// at r <= rs return [spacetime.ErrUnphysical] instead of silently
// producing NaN or Inf.
package metric
