/*package sim implements a grid-based incompressible liquid simulator for
animating free-surface flows bounded by static solid geometry.

Velocities live on a staggered MAC grid, the liquid region is tracked with
marker particles, and each CFL-bounded substep runs particle advection,
surface reconstruction, semi-Lagrangian velocity advection, gravity, an
implicit variational viscosity solve, a variational pressure projection,
extrapolation of velocities into faces the projection could not reach, and
a free-slip constraint at solid faces. The linear systems are handed to
the solve package; everything else is owned by FluidSim.
*/
package sim

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/liquid2d/grid2"
	"github.com/phil-mansfield/liquid2d/solve"
)

// Vec2 is a 2D position or velocity.
type Vec2 struct {
	X, Y float64
}

// FluidSim holds all the state of one simulation. All grid fields are
// allocated at their final size by New and never resized; the liquid
// distance field and the face weights are rebuilt every substep.
type FluidSim struct {
	Ni, Nj int
	Dx     float64

	u, v         *grid2.Field
	tempU, tempV *grid2.Field

	// Signed distance to the solid boundary at grid nodes, negative
	// inside solid. Sampled once by SetBoundary.
	solidPhi *grid2.Field
	// Signed distance to the liquid surface at cell centers, negative
	// inside liquid. Rebuilt from particles every substep.
	liquidPhi *grid2.Field

	uWeights, vWeights *grid2.Field
	uValid, vValid     *grid2.BoolField

	// Liquid volume fractions for the viscosity solve, at cell centers,
	// nodes, and both face types.
	cVol, nVol, uVol, vVol *grid2.Field
	uSolid, vSolid         *grid2.BoolField

	viscosity *grid2.Field

	particles      []Vec2
	particleRadius float64

	gravity float64

	psys       *solve.System
	prhs, pres []float64

	vsys       *solve.System
	vrhs, vres []float64
}

// Substeps are capped at this many cell widths of equivalent travel so an
// all-still velocity field still advances in a finite number of substeps.
const maxSubstepCells = 10

// New creates a simulation on an ni x nj cell grid spanning the given
// domain width. Velocities start at zero and viscosity at one everywhere.
func New(width float64, ni, nj int) *FluidSim {
	s := &FluidSim{
		Ni: ni,
		Nj: nj,
		Dx: width / float64(ni),

		u:     grid2.NewField(ni+1, nj),
		tempU: grid2.NewField(ni+1, nj),
		v:     grid2.NewField(ni, nj+1),
		tempV: grid2.NewField(ni, nj+1),

		solidPhi:  grid2.NewField(ni+1, nj+1),
		liquidPhi: grid2.NewField(ni, nj),

		uWeights: grid2.NewField(ni+1, nj),
		vWeights: grid2.NewField(ni, nj+1),
		uValid:   grid2.NewBoolField(ni+1, nj),
		vValid:   grid2.NewBoolField(ni, nj+1),

		cVol:   grid2.NewField(ni, nj),
		nVol:   grid2.NewField(ni+1, nj+1),
		uVol:   grid2.NewField(ni+1, nj),
		vVol:   grid2.NewField(ni, nj+1),
		uSolid: grid2.NewBoolField(ni+1, nj),
		vSolid: grid2.NewBoolField(ni, nj+1),

		viscosity: grid2.NewField(ni, nj),

		gravity: 0.1,
	}

	s.particleRadius = s.Dx / math.Sqrt(2)
	s.viscosity.Fill(1)

	s.psys = solve.NewSystem(ni * nj)
	s.prhs = make([]float64, ni*nj)
	s.pres = make([]float64, ni*nj)

	nFaces := (ni+1)*nj + ni*(nj+1)
	s.vsys = solve.NewSystem(nFaces)
	s.vrhs = make([]float64, nFaces)
	s.vres = make([]float64, nFaces)

	return s
}

// SetBoundary samples the solid signed distance function at every grid
// node. phi must be negative inside solid. The geometry is static: the
// samples are taken once and never updated.
func (s *FluidSim) SetBoundary(phi func(x, y float64) float64) {
	for j := 0; j < s.Nj+1; j++ {
		for i := 0; i < s.Ni+1; i++ {
			s.solidPhi.Set(i, j, phi(float64(i)*s.Dx, float64(j)*s.Dx))
		}
	}
}

// SetViscosity samples a per-cell dynamic viscosity field at cell centers.
func (s *FluidSim) SetViscosity(visc func(x, y float64) float64) {
	for j := 0; j < s.Nj; j++ {
		for i := 0; i < s.Ni; i++ {
			x := (float64(i) + 0.5) * s.Dx
			y := (float64(j) + 0.5) * s.Dx
			s.viscosity.Set(i, j, visc(x, y))
		}
	}
}

// SetGravity replaces the default downward body force of 0.1 per substep.
func (s *FluidSim) SetGravity(g float64) { s.gravity = g }

// AddParticle appends one marker particle. The position is not validated.
func (s *FluidSim) AddParticle(x, y float64) {
	s.particles = append(s.particles, Vec2{x, y})
}

// Particles returns the live particle slice for rendering. Callers must
// not mutate it or hold it across an Advance.
func (s *FluidSim) Particles() []Vec2 { return s.particles }

// Velocity returns the bilinearly interpolated velocity at an arbitrary
// world position.
func (s *FluidSim) Velocity(x, y float64) (u, v float64) {
	u = s.u.Sample(x/s.Dx, y/s.Dx-0.5)
	v = s.v.Sample(x/s.Dx-0.5, y/s.Dx)
	return u, v
}

// cfl returns the largest stable explicit substep: one cell width of
// travel at the fastest sampled speed, capped at maxSubstepCells cells.
func (s *FluidSim) cfl() float64 {
	maxvel := math.Max(
		floats.Norm(s.u.Data, math.Inf(1)),
		floats.Norm(s.v.Data, math.Inf(1)),
	)
	maxStep := maxSubstepCells * s.Dx
	if maxvel == 0 || s.Dx/maxvel > maxStep {
		return maxStep
	}
	return s.Dx / maxvel
}

// Advance runs the simulation forward by dt, splitting the interval into
// CFL-bounded substeps. The stage order within a substep matters: the
// projection only writes valid data to faces with nonzero open area, so
// extrapolation and the solid constraint must run before anything samples
// the field again.
func (s *FluidSim) Advance(dt float64) {
	for t := 0.0; t < dt; {
		substep := s.cfl()
		if t+substep > dt {
			substep = dt - t
		}

		s.advectParticles(substep)
		s.computePhi()

		s.advect(substep)
		s.addForce(substep)

		s.applyViscosity(substep)
		s.applyProjection(substep)

		extrapolate(s.u, s.uValid)
		extrapolate(s.v, s.vValid)

		s.constrainVelocity()

		t += substep
	}
}

// addForce applies gravity to every vertical face.
func (s *FluidSim) addForce(dt float64) {
	for j := 0; j < s.Nj+1; j++ {
		for i := 0; i < s.Ni; i++ {
			s.v.Add(i, j, -s.gravity)
		}
	}
}

// MaxDivergence returns the largest face-weighted velocity divergence over
// interior liquid cells, in units of 1/dx. Useful as a diagnostic for how
// well the last projection did.
func (s *FluidSim) MaxDivergence() float64 {
	maxDiv := 0.0
	for j := 1; j < s.Nj-1; j++ {
		for i := 1; i < s.Ni-1; i++ {
			if s.liquidPhi.At(i, j) >= 0 {
				continue
			}
			div := (s.uWeights.At(i+1, j)*s.u.At(i+1, j) -
				s.uWeights.At(i, j)*s.u.At(i, j) +
				s.vWeights.At(i, j+1)*s.v.At(i, j+1) -
				s.vWeights.At(i, j)*s.v.At(i, j)) / s.Dx
			if math.Abs(div) > maxDiv {
				maxDiv = math.Abs(div)
			}
		}
	}
	return maxDiv
}
