package sim

import (
	"log"
)

// Obstacles are static, so faces classified as solid carry a fixed zero
// velocity. Supporting moving obstacles would need a spatially varying
// obstacle velocity field and the matching right-hand-side terms.
const (
	uObstacle = 0.0
	vObstacle = 0.0
)

// uInd and vInd map face coordinates into the combined viscosity index
// space: all horizontal faces first, then all vertical ones.
func (s *FluidSim) uInd(i, j int) int { return i + j*(s.Ni+1) }
func (s *FluidSim) vInd(i, j int) int { return i + j*s.Ni + (s.Ni+1)*s.Nj }

// applyViscosity integrates viscous stresses implicitly over one substep.
func (s *FluidSim) applyViscosity(dt float64) {
	s.computeViscosityWeights()
	s.solveViscosity(dt)
}

// classifyFaces marks every face as solid or fluid. A face is solid when
// it sits on the domain boundary or when its two bracketing solid
// distance samples average to non-positive.
func (s *FluidSim) classifyFaces() {
	ni, nj := s.Ni, s.Nj
	for j := 0; j < nj; j++ {
		for i := 0; i < ni+1; i++ {
			solid := i-1 < 0 || i >= ni ||
				(s.solidPhi.At(i, j+1)+s.solidPhi.At(i, j))/2 <= 0
			s.uSolid.Set(i, j, solid)
		}
	}
	for j := 0; j < nj+1; j++ {
		for i := 0; i < ni; i++ {
			solid := j-1 < 0 || j >= nj ||
				(s.solidPhi.At(i+1, j)+s.solidPhi.At(i, j))/2 <= 0
			s.vSolid.Set(i, j, solid)
		}
	}
}

// solveViscosity assembles and solves the variational finite-volume
// viscosity system, one unknown per fluid face across both components.
// Each row carries a volume-weighted mass term, normal stress terms using
// cell-centered fractions, and shear stress terms using node-centered
// fractions with a 4-point averaged viscosity. Coupling to a solid face
// moves that face's fixed obstacle velocity into the right hand side.
// The system is kept in its naive per-term form rather than simplified,
// for consistency with the standard discretization.
func (s *FluidSim) solveViscosity(dt float64) {
	ni, nj := s.Ni, s.Nj

	s.classifyFaces()

	s.vsys.Zero()
	for i := range s.vrhs {
		s.vrhs[i] = 0
	}

	factor := dt / (s.Dx * s.Dx)

	for j := 1; j < nj-1; j++ {
		for i := 1; i < ni-1; i++ {
			if s.uSolid.At(i, j) {
				continue
			}
			index := s.uInd(i, j)

			s.vrhs[index] = s.uVol.At(i, j) * s.u.At(i, j)
			s.vsys.SetElement(index, index, s.uVol.At(i, j))

			// uxx terms
			viscRight := s.viscosity.At(i, j)
			viscLeft := s.viscosity.At(i-1, j)
			volRight := s.cVol.At(i, j)
			volLeft := s.cVol.At(i-1, j)

			s.vsys.AddToElement(index, index, 2*factor*viscRight*volRight)
			if !s.uSolid.At(i+1, j) {
				s.vsys.AddToElement(index, s.uInd(i+1, j), -2*factor*viscRight*volRight)
			} else {
				s.vrhs[index] -= -2 * factor * viscRight * volRight * uObstacle
			}

			s.vsys.AddToElement(index, index, 2*factor*viscLeft*volLeft)
			if !s.uSolid.At(i-1, j) {
				s.vsys.AddToElement(index, s.uInd(i-1, j), -2*factor*viscLeft*volLeft)
			} else {
				s.vrhs[index] -= -2 * factor * viscLeft * volLeft * uObstacle
			}

			// uyy terms
			viscTop := 0.25 * (s.viscosity.At(i-1, j+1) + s.viscosity.At(i-1, j) +
				s.viscosity.At(i, j+1) + s.viscosity.At(i, j))
			viscBottom := 0.25 * (s.viscosity.At(i-1, j) + s.viscosity.At(i-1, j-1) +
				s.viscosity.At(i, j) + s.viscosity.At(i, j-1))
			volTop := s.nVol.At(i, j+1)
			volBottom := s.nVol.At(i, j)

			s.vsys.AddToElement(index, index, factor*viscTop*volTop)
			if !s.uSolid.At(i, j+1) {
				s.vsys.AddToElement(index, s.uInd(i, j+1), -factor*viscTop*volTop)
			} else {
				s.vrhs[index] -= -uObstacle * factor * viscTop * volTop
			}

			s.vsys.AddToElement(index, index, factor*viscBottom*volBottom)
			if !s.uSolid.At(i, j-1) {
				s.vsys.AddToElement(index, s.uInd(i, j-1), -factor*viscBottom*volBottom)
			} else {
				s.vrhs[index] -= -uObstacle * factor * viscBottom * volBottom
			}

			// vxy terms
			if !s.vSolid.At(i, j+1) {
				s.vsys.AddToElement(index, s.vInd(i, j+1), -factor*viscTop*volTop)
			} else {
				s.vrhs[index] -= -vObstacle * factor * viscTop * volTop
			}
			if !s.vSolid.At(i-1, j+1) {
				s.vsys.AddToElement(index, s.vInd(i-1, j+1), factor*viscTop*volTop)
			} else {
				s.vrhs[index] -= vObstacle * factor * viscTop * volTop
			}

			if !s.vSolid.At(i, j) {
				s.vsys.AddToElement(index, s.vInd(i, j), factor*viscBottom*volBottom)
			} else {
				s.vrhs[index] -= vObstacle * factor * viscBottom * volBottom
			}
			if !s.vSolid.At(i-1, j) {
				s.vsys.AddToElement(index, s.vInd(i-1, j), -factor*viscBottom*volBottom)
			} else {
				s.vrhs[index] -= -vObstacle * factor * viscBottom * volBottom
			}
		}
	}

	for j := 1; j < nj; j++ {
		for i := 1; i < ni-1; i++ {
			if s.vSolid.At(i, j) {
				continue
			}
			index := s.vInd(i, j)

			s.vrhs[index] = s.vVol.At(i, j) * s.v.At(i, j)
			s.vsys.SetElement(index, index, s.vVol.At(i, j))

			// vyy terms
			viscTop := s.viscosity.At(i, j)
			viscBottom := s.viscosity.At(i, j-1)
			volTop := s.cVol.At(i, j)
			volBottom := s.cVol.At(i, j-1)

			s.vsys.AddToElement(index, index, 2*factor*viscTop*volTop)
			if !s.vSolid.At(i, j+1) {
				s.vsys.AddToElement(index, s.vInd(i, j+1), -2*factor*viscTop*volTop)
			} else {
				s.vrhs[index] -= -2 * factor * viscTop * volTop * vObstacle
			}

			s.vsys.AddToElement(index, index, 2*factor*viscBottom*volBottom)
			if !s.vSolid.At(i, j-1) {
				s.vsys.AddToElement(index, s.vInd(i, j-1), -2*factor*viscBottom*volBottom)
			} else {
				s.vrhs[index] -= -2 * factor * viscBottom * volBottom * vObstacle
			}

			// vxx terms
			viscRight := 0.25 * (s.viscosity.At(i, j-1) + s.viscosity.At(i+1, j-1) +
				s.viscosity.At(i, j) + s.viscosity.At(i+1, j))
			viscLeft := 0.25 * (s.viscosity.At(i, j-1) + s.viscosity.At(i-1, j-1) +
				s.viscosity.At(i, j) + s.viscosity.At(i-1, j))
			volRight := s.nVol.At(i+1, j)
			volLeft := s.nVol.At(i, j)

			s.vsys.AddToElement(index, index, factor*viscRight*volRight)
			if !s.vSolid.At(i+1, j) {
				s.vsys.AddToElement(index, s.vInd(i+1, j), -factor*viscRight*volRight)
			} else {
				s.vrhs[index] -= -vObstacle * factor * viscRight * volRight
			}

			s.vsys.AddToElement(index, index, factor*viscLeft*volLeft)
			if !s.vSolid.At(i-1, j) {
				s.vsys.AddToElement(index, s.vInd(i-1, j), -factor*viscLeft*volLeft)
			} else {
				s.vrhs[index] -= -vObstacle * factor * viscLeft * volLeft
			}

			// uyx terms
			if !s.uSolid.At(i+1, j) {
				s.vsys.AddToElement(index, s.uInd(i+1, j), -factor*viscRight*volRight)
			} else {
				s.vrhs[index] -= -uObstacle * factor * viscRight * volRight
			}
			if !s.uSolid.At(i+1, j-1) {
				s.vsys.AddToElement(index, s.uInd(i+1, j-1), factor*viscRight*volRight)
			} else {
				s.vrhs[index] -= uObstacle * factor * viscRight * volRight
			}

			if !s.uSolid.At(i, j) {
				s.vsys.AddToElement(index, s.uInd(i, j), factor*viscLeft*volLeft)
			} else {
				s.vrhs[index] -= uObstacle * factor * viscLeft * volLeft
			}
			if !s.uSolid.At(i, j-1) {
				s.vsys.AddToElement(index, s.uInd(i, j-1), -factor*viscLeft*volLeft)
			} else {
				s.vrhs[index] -= -uObstacle * factor * viscLeft * volLeft
			}
		}
	}

	res := s.vsys.Solve(s.vrhs, s.vres)
	if !res.OK {
		log.Printf("sim: viscosity solve did not converge: residual %g "+
			"after %d iterations", res.Residual, res.Iterations)
	}

	// The solve assigns every face: fluid faces take the solution entry,
	// solid faces take the fixed obstacle velocity.
	for j := 0; j < nj; j++ {
		for i := 0; i < ni+1; i++ {
			if s.uSolid.At(i, j) {
				s.u.Set(i, j, uObstacle)
			} else {
				s.u.Set(i, j, s.vres[s.uInd(i, j)])
			}
		}
	}
	for j := 0; j < nj+1; j++ {
		for i := 0; i < ni; i++ {
			if s.vSolid.At(i, j) {
				s.v.Set(i, j, vObstacle)
			} else {
				s.v.Set(i, j, s.vres[s.vInd(i, j)])
			}
		}
	}
}
