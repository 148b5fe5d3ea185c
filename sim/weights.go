package sim

import (
	"math"

	"github.com/phil-mansfield/liquid2d/grid2"
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}

// computePressureWeights computes, for each face, the fraction of its
// length that lies outside solid geometry, from the two bracketing nodal
// solid distance samples.
func (s *FluidSim) computePressureWeights() {
	for j := 0; j < s.uWeights.Nj; j++ {
		for i := 0; i < s.uWeights.Ni; i++ {
			w := 1 - grid2.FractionInside(s.solidPhi.At(i, j+1), s.solidPhi.At(i, j))
			s.uWeights.Set(i, j, clamp(w, 0, 1))
		}
	}
	for j := 0; j < s.vWeights.Nj; j++ {
		for i := 0; i < s.vWeights.Ni; i++ {
			w := 1 - grid2.FractionInside(s.solidPhi.At(i+1, j), s.solidPhi.At(i, j))
			s.vWeights.Set(i, j, clamp(w, 0, 1))
		}
	}
}

// computeViscosityWeights estimates liquid volume fractions for each of
// the finite-volume control regions the viscosity discretization uses:
// cell centers, nodes, and both face types.
func (s *FluidSim) computeViscosityWeights() {
	grid2.AreaFractions(s.liquidPhi, s.cVol, -0.5, -0.5, 2)
	grid2.AreaFractions(s.liquidPhi, s.nVol, -1, -1, 2)
	grid2.AreaFractions(s.liquidPhi, s.uVol, -1, -0.5, 2)
	grid2.AreaFractions(s.liquidPhi, s.vVol, -0.5, -1, 2)
}

// constrainVelocity imposes free-slip at fully solid faces: wherever the
// pressure-stage face weight is exactly zero, the stored velocity is
// replaced by the tangential component of the interpolated velocity.
// Every face is rewritten through scratch buffers so the interpolated
// samples never mix constrained and unconstrained values mid-pass.
//
// At low grid resolutions the normal estimated from the distance field is
// rough, so the constraint is approximate near sharp features.
func (s *FluidSim) constrainVelocity() {
	s.tempU.CopyFrom(s.u)
	s.tempV.CopyFrom(s.v)

	for j := 0; j < s.u.Nj; j++ {
		for i := 0; i < s.u.Ni; i++ {
			if s.uWeights.At(i, j) != 0 {
				continue
			}
			x, y := float64(i)*s.Dx, (float64(j)+0.5)*s.Dx
			u, v := s.Velocity(x, y)
			gx, gy := s.solidPhi.Gradient(x/s.Dx, y/s.Dx)
			if norm := math.Hypot(gx, gy); norm > 0 {
				gx, gy = gx/norm, gy/norm
			}
			perp := u*gx + v*gy
			s.tempU.Set(i, j, u-perp*gx)
		}
	}

	for j := 0; j < s.v.Nj; j++ {
		for i := 0; i < s.v.Ni; i++ {
			if s.vWeights.At(i, j) != 0 {
				continue
			}
			x, y := (float64(i)+0.5)*s.Dx, float64(j)*s.Dx
			u, v := s.Velocity(x, y)
			gx, gy := s.solidPhi.Gradient(x/s.Dx, y/s.Dx)
			if norm := math.Hypot(gx, gy); norm > 0 {
				gx, gy = gx/norm, gy/norm
			}
			perp := u*gx + v*gy
			s.tempV.Set(i, j, v-perp*gy)
		}
	}

	s.u, s.tempU = s.tempU, s.u
	s.v, s.tempV = s.tempV, s.v
}
