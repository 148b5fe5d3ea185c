package sim

import (
	"math"

	"github.com/phil-mansfield/liquid2d/grid2"
)

// computePhi rebuilds the liquid signed distance field from the marker
// particles. Every cell starts at a large positive constant and each
// particle carves out a sphere of roughly one particle radius over the
// 5x5 cell neighborhood around its containing cell. Liquid cells hugging
// the solid wall are then forced negative, since particle sampling is too
// sparse there to be trusted and would otherwise leave spurious dry cells
// along the boundary.
func (s *FluidSim) computePhi() {
	s.liquidPhi.Fill(3 * s.Dx)

	for _, p := range s.particles {
		i, _ := grid2.Barycentric(p.X/s.Dx-0.5, 0, s.Ni)
		j, _ := grid2.Barycentric(p.Y/s.Dx-0.5, 0, s.Nj)

		for jOff := j - 2; jOff <= j+2; jOff++ {
			for iOff := i - 2; iOff <= i+2; iOff++ {
				if iOff < 0 || iOff >= s.Ni || jOff < 0 || jOff >= s.Nj {
					continue
				}
				cx := (float64(iOff) + 0.5) * s.Dx
				cy := (float64(jOff) + 0.5) * s.Dx
				phi := math.Hypot(cx-p.X, cy-p.Y) - 1.02*s.particleRadius
				if phi < s.liquidPhi.At(iOff, jOff) {
					s.liquidPhi.Set(iOff, jOff, phi)
				}
			}
		}
	}

	for j := 0; j < s.Nj; j++ {
		for i := 0; i < s.Ni; i++ {
			if s.liquidPhi.At(i, j) >= 0.5*s.Dx {
				continue
			}
			solidPhi := 0.25 * (s.solidPhi.At(i, j) + s.solidPhi.At(i+1, j) +
				s.solidPhi.At(i, j+1) + s.solidPhi.At(i+1, j+1))
			if solidPhi < 0 {
				s.liquidPhi.Set(i, j, -0.5*s.Dx)
			}
		}
	}
}
