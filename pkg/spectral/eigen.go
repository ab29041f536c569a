package spectral

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// breakdownTol is the Lanczos residual norm below which the Krylov subspace
// is considered invariant and the iteration restarts with a fresh direction.
const breakdownTol = 1e-12

// denseEigenvalues computes the full spectrum of m with a dense symmetric
// decomposition. Values come back in ascending order.
func denseEigenvalues(m *SparseSym) ([]float64, error) {
	sym := mat.NewSymDense(m.Dim, nil)
	for i, row := range m.rows {
		for _, e := range row {
			if e.col >= i {
				sym.SetSym(i, e.col, e.val)
			}
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return nil, fmt.Errorf("dense eigendecomposition failed to converge (dim=%d)", m.Dim)
	}
	return eig.Values(nil), nil
}

// lanczosEigenvalues approximates the extremal spectrum of m with a Lanczos
// iteration of the given number of steps, fully reorthogonalizing each new
// basis vector against the accumulated basis. When the iteration finds an
// invariant subspace early it restarts from a fresh orthogonal direction, so
// steps equal to the matrix dimension recovers the exact spectrum. Ritz
// values come back in ascending order.
func lanczosEigenvalues(m *SparseSym, steps int, rng *rand.Rand) ([]float64, error) {
	dim := m.Dim
	if steps > dim {
		steps = dim
	}
	if steps < 1 {
		return []float64{}, nil
	}

	basis := make([][]float64, 0, steps)
	alphas := make([]float64, 0, steps)
	betas := make([]float64, 0, steps)

	v := randomUnit(dim, rng)
	var prev []float64
	beta := 0.0
	w := make([]float64, dim)

	for j := 0; j < steps; j++ {
		basis = append(basis, v)
		m.MulVec(w, v)
		if prev != nil && beta != 0 {
			floats.AddScaled(w, -beta, prev)
		}
		alpha := floats.Dot(v, w)
		floats.AddScaled(w, -alpha, v)
		for _, u := range basis {
			floats.AddScaled(w, -floats.Dot(u, w), u)
		}
		alphas = append(alphas, alpha)

		if j == steps-1 {
			break
		}
		beta = floats.Norm(w, 2)
		if beta < breakdownTol {
			fresh, ok := freshOrthogonal(dim, basis, rng)
			if !ok {
				// The basis spans the whole space; every eigenvalue is
				// already captured.
				break
			}
			betas = append(betas, 0)
			prev = nil
			beta = 0
			v = fresh
			continue
		}
		betas = append(betas, beta)
		prev = v
		next := make([]float64, dim)
		copy(next, w)
		floats.Scale(1/beta, next)
		v = next
	}

	return tridiagEigenvalues(alphas, betas)
}

// tridiagEigenvalues solves the symmetric tridiagonal system assembled from
// the Lanczos coefficients.
func tridiagEigenvalues(alphas, betas []float64) ([]float64, error) {
	n := len(alphas)
	tri := mat.NewSymDense(n, nil)
	for i, a := range alphas {
		tri.SetSym(i, i, a)
		if i < len(betas) && i+1 < n {
			tri.SetSym(i, i+1, betas[i])
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(tri, false) {
		return nil, fmt.Errorf("lanczos tridiagonal eigendecomposition failed to converge (steps=%d)", n)
	}
	return eig.Values(nil), nil
}

// randomUnit draws a random unit vector.
func randomUnit(dim int, rng *rand.Rand) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	floats.Scale(1/floats.Norm(v, 2), v)
	return v
}

// freshOrthogonal draws a random unit vector orthogonal to the given basis.
// It reports false once the basis already spans the space.
func freshOrthogonal(dim int, basis [][]float64, rng *rand.Rand) ([]float64, bool) {
	if len(basis) >= dim {
		return nil, false
	}
	for attempt := 0; attempt < dim; attempt++ {
		v := randomUnit(dim, rng)
		for _, u := range basis {
			floats.AddScaled(v, -floats.Dot(u, v), u)
		}
		norm := floats.Norm(v, 2)
		if norm > breakdownTol {
			floats.Scale(1/norm, v)
			return v, true
		}
	}
	return nil, false
}

// autoSteps sizes the Lanczos basis when no explicit step count is
// configured.
func autoSteps(dim, k int) int {
	steps := 4 * k
	if steps < 60 {
		steps = 60
	}
	if steps > dim {
		steps = dim
	}
	return steps
}
