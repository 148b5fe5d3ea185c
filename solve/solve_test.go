package solve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// laplacian1D assembles the standard SPD tridiagonal system for n
// unknowns with Dirichlet ends.
func laplacian1D(n int) *System {
	sys := NewSystem(n)
	for i := 0; i < n; i++ {
		sys.SetElement(i, i, 2)
		if i > 0 {
			sys.SetElement(i, i-1, -1)
		}
		if i < n-1 {
			sys.SetElement(i, i+1, -1)
		}
	}
	return sys
}

func TestSolveLaplacian(t *testing.T) {
	n := 20
	sys := laplacian1D(n)

	// b = A * ones, so the solution is exactly ones.
	rhs := make([]float64, n)
	rhs[0], rhs[n-1] = 1, 1
	x := make([]float64, n)

	res := sys.Solve(rhs, x)
	require.True(t, res.OK)
	assert.Greater(t, res.Iterations, 0)
	assert.Less(t, res.Residual, 1e-8)
	for i := range x {
		assert.InDelta(t, 1.0, x[i], 1e-7, "x[%d]", i)
	}
}

func TestSolveZeroRHS(t *testing.T) {
	n := 10
	sys := laplacian1D(n)

	rhs := make([]float64, n)
	x := make([]float64, n)
	for i := range x {
		x[i] = 3 // stale values from a previous solve
	}

	res := sys.Solve(rhs, x)
	require.True(t, res.OK)
	assert.Equal(t, 0, res.Iterations)
	for i := range x {
		assert.Equal(t, 0.0, x[i])
	}
}

func TestSolveZeroRowsStayZero(t *testing.T) {
	// Rows 0 and 4 are never assembled, mimicking non-liquid cells.
	n := 5
	sys := NewSystem(n)
	for i := 1; i < 4; i++ {
		sys.SetElement(i, i, 2)
		if i > 1 {
			sys.SetElement(i, i-1, -1)
		}
		if i < 3 {
			sys.SetElement(i, i+1, -1)
		}
	}

	rhs := []float64{0, 1, 0, 1, 0}
	x := make([]float64, n)
	res := sys.Solve(rhs, x)
	require.True(t, res.OK)
	assert.Equal(t, 0.0, x[0])
	assert.Equal(t, 0.0, x[4])

	// Check the active block against the exact solution of
	// [2 -1 0; -1 2 -1; 0 -1 2] x = [1 0 1].
	assert.InDelta(t, 1.0, x[1], 1e-7)
	assert.InDelta(t, 1.0, x[2], 1e-7)
	assert.InDelta(t, 1.0, x[3], 1e-7)
}

func TestSolveFailureFlag(t *testing.T) {
	// An all-zero matrix with a nonzero right hand side has no solution;
	// the solver must report failure rather than pretend otherwise.
	sys := NewSystem(4)
	rhs := []float64{1, 0, 0, 0}
	x := make([]float64, 4)

	res := sys.Solve(rhs, x)
	assert.False(t, res.OK)
}

func TestZeroResetsMatrix(t *testing.T) {
	sys := laplacian1D(5)
	sys.Zero()
	sys.SetElement(2, 2, 1)

	rhs := []float64{0, 0, 5, 0, 0}
	x := make([]float64, 5)
	res := sys.Solve(rhs, x)
	require.True(t, res.OK)
	assert.InDelta(t, 5.0, x[2], 1e-8)
	assert.Equal(t, 0.0, x[0])
}
