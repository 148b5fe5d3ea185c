package sim

import (
	"log"

	"github.com/phil-mansfield/liquid2d/grid2"
)

// Free-surface fractions are floored here before dividing, so a nearly
// empty cell can't blow up the ghost-fluid terms.
const minFraction = 0.01

// applyProjection makes the velocity field divergence-free inside the
// liquid, honoring partial solid occupancy of each face.
func (s *FluidSim) applyProjection(dt float64) {
	s.computePressureWeights()
	s.solvePressure(dt)
}

// solvePressure assembles and solves the variational free-surface Poisson
// system, one unknown per cell. Rows are only written for interior liquid
// cells; everything else stays a zero row with zero right hand side and
// comes back as zero pressure. Where a neighbor cell is air, the coupling
// is replaced by a ghost-fluid correction that divides the diagonal term
// by the liquid fraction across the face.
func (s *FluidSim) solvePressure(dt float64) {
	ni, nj := s.Ni, s.Nj
	dx := s.Dx

	s.psys.Zero()
	for i := range s.prhs {
		s.prhs[i] = 0
	}

	for j := 1; j < nj-1; j++ {
		for i := 1; i < ni-1; i++ {
			index := i + ni*j
			centrePhi := s.liquidPhi.At(i, j)
			if centrePhi >= 0 {
				continue
			}

			// right neighbour
			term := s.uWeights.At(i+1, j) * dt / (dx * dx)
			if rightPhi := s.liquidPhi.At(i+1, j); rightPhi < 0 {
				s.psys.AddToElement(index, index, term)
				s.psys.AddToElement(index, index+1, -term)
			} else {
				theta := grid2.FractionInside(centrePhi, rightPhi)
				if theta < minFraction {
					theta = minFraction
				}
				s.psys.AddToElement(index, index, term/theta)
			}
			s.prhs[index] -= s.uWeights.At(i+1, j) * s.u.At(i+1, j) / dx

			// left neighbour
			term = s.uWeights.At(i, j) * dt / (dx * dx)
			if leftPhi := s.liquidPhi.At(i-1, j); leftPhi < 0 {
				s.psys.AddToElement(index, index, term)
				s.psys.AddToElement(index, index-1, -term)
			} else {
				theta := grid2.FractionInside(centrePhi, leftPhi)
				if theta < minFraction {
					theta = minFraction
				}
				s.psys.AddToElement(index, index, term/theta)
			}
			s.prhs[index] += s.uWeights.At(i, j) * s.u.At(i, j) / dx

			// top neighbour
			term = s.vWeights.At(i, j+1) * dt / (dx * dx)
			if topPhi := s.liquidPhi.At(i, j+1); topPhi < 0 {
				s.psys.AddToElement(index, index, term)
				s.psys.AddToElement(index, index+ni, -term)
			} else {
				theta := grid2.FractionInside(centrePhi, topPhi)
				if theta < minFraction {
					theta = minFraction
				}
				s.psys.AddToElement(index, index, term/theta)
			}
			s.prhs[index] -= s.vWeights.At(i, j+1) * s.v.At(i, j+1) / dx

			// bottom neighbour
			term = s.vWeights.At(i, j) * dt / (dx * dx)
			if botPhi := s.liquidPhi.At(i, j-1); botPhi < 0 {
				s.psys.AddToElement(index, index, term)
				s.psys.AddToElement(index, index-ni, -term)
			} else {
				theta := grid2.FractionInside(centrePhi, botPhi)
				if theta < minFraction {
					theta = minFraction
				}
				s.psys.AddToElement(index, index, term/theta)
			}
			s.prhs[index] += s.vWeights.At(i, j) * s.v.At(i, j) / dx
		}
	}

	res := s.psys.Solve(s.prhs, s.pres)
	if !res.OK {
		log.Printf("sim: pressure solve did not converge: residual %g "+
			"after %d iterations", res.Residual, res.Iterations)
	}

	// Subtract the pressure gradient from every face that borders liquid
	// through a partially open face, and record which faces that reached.
	// Everything else is zeroed and left for extrapolation.
	s.uValid.Fill(false)
	for j := 0; j < s.u.Nj; j++ {
		for i := 1; i < s.u.Ni-1; i++ {
			index := i + ni*j
			if s.uWeights.At(i, j) > 0 &&
				(s.liquidPhi.At(i, j) < 0 || s.liquidPhi.At(i-1, j) < 0) {
				theta := 1.0
				if s.liquidPhi.At(i, j) >= 0 || s.liquidPhi.At(i-1, j) >= 0 {
					theta = grid2.FractionInside(s.liquidPhi.At(i-1, j), s.liquidPhi.At(i, j))
				}
				if theta < minFraction {
					theta = minFraction
				}
				s.u.Add(i, j, -dt*(s.pres[index]-s.pres[index-1])/dx/theta)
				s.uValid.Set(i, j, true)
			} else {
				s.u.Set(i, j, 0)
			}
		}
	}

	s.vValid.Fill(false)
	for j := 1; j < s.v.Nj-1; j++ {
		for i := 0; i < s.v.Ni; i++ {
			index := i + ni*j
			if s.vWeights.At(i, j) > 0 &&
				(s.liquidPhi.At(i, j) < 0 || s.liquidPhi.At(i, j-1) < 0) {
				theta := 1.0
				if s.liquidPhi.At(i, j) >= 0 || s.liquidPhi.At(i, j-1) >= 0 {
					theta = grid2.FractionInside(s.liquidPhi.At(i, j-1), s.liquidPhi.At(i, j))
				}
				if theta < minFraction {
					theta = minFraction
				}
				s.v.Add(i, j, -dt*(s.pres[index]-s.pres[index-ni])/dx/theta)
				s.vValid.Set(i, j, true)
			} else {
				s.v.Set(i, j, 0)
			}
		}
	}
}
