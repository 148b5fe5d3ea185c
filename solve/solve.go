/*package solve wraps the sparse linear algebra that the simulation core
treats as an external collaborator. The core assembles a symmetric system
through System, hands over a right hand side, and gets back a solution
vector, a residual norm, an iteration count, and a success flag. Nothing
else about the solver leaks into the core.

Storage is a DOK sparse matrix converted to CSR for the solve, and the
solve itself is conjugate gradients from gonum's linsolve package.
*/
package solve

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// System is a reusable n x n symmetric sparse system buffer. Rows that are
// never written stay identically zero; the solver leaves the matching
// solution entries at zero as long as the right hand side is zero there
// too, which is how the core excludes inactive cells without compacting
// the index space.
type System struct {
	n   int
	dok *sparse.DOK
}

// NewSystem creates an empty n-unknown system.
func NewSystem(n int) *System {
	if n <= 0 {
		panic(fmt.Sprintf("solve: non-positive system size %d", n))
	}
	return &System{n: n, dok: sparse.NewDOK(n, n)}
}

// N returns the number of unknowns.
func (s *System) N() int { return s.n }

// Zero discards all stored coefficients, keeping the dimension.
func (s *System) Zero() { s.dok = sparse.NewDOK(s.n, s.n) }

// SetElement stores val at (i, j), replacing any previous coefficient.
func (s *System) SetElement(i, j int, val float64) { s.dok.Set(i, j, val) }

// AddToElement accumulates val into the coefficient at (i, j).
func (s *System) AddToElement(i, j int, val float64) {
	s.dok.Set(i, j, s.dok.At(i, j)+val)
}

// Result reports how a solve went. OK false means the iteration did not
// converge; the solution vector still holds the solver's last iterate and
// callers are expected to proceed with it.
type Result struct {
	Residual   float64
	Iterations int
	OK         bool
}

// csrOp adapts a CSR matrix to linsolve's operator interface. The system
// is symmetric, so the transpose flag is ignored.
type csrOp struct {
	m mat.Matrix
}

func (op csrOp) MulVecTo(dst *mat.VecDense, _ bool, x mat.Vector) {
	dst.MulVec(op.m, x)
}

const (
	tolerance     = 1e-9
	maxIterFactor = 10
)

// Solve solves the assembled system for the given right hand side, writing
// the solution into x. Both slices must have length N. An all-zero right
// hand side short-circuits to the zero solution.
func (s *System) Solve(rhs, x []float64) Result {
	if len(rhs) != s.n || len(x) != s.n {
		panic(fmt.Sprintf(
			"solve: system size %d, len(rhs) = %d, len(x) = %d",
			s.n, len(rhs), len(x),
		))
	}

	for i := range x {
		x[i] = 0
	}
	if floats.Norm(rhs, 2) == 0 {
		return Result{Residual: 0, Iterations: 0, OK: true}
	}

	b := mat.NewVecDense(s.n, rhs)
	res, err := linsolve.Iterative(csrOp{s.dok.ToCSR()}, b, &linsolve.CG{},
		&linsolve.Settings{
			Tolerance:     tolerance,
			MaxIterations: maxIterFactor * s.n,
		},
	)
	if res == nil {
		return Result{OK: false}
	}

	copy(x, res.X.RawVector().Data)
	return Result{
		Residual:   res.ResidualNorm,
		Iterations: res.Stats.Iterations,
		OK:         err == nil,
	}
}
