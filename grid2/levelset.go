package grid2

// FractionInside returns the fraction of a segment bracketed by two signed
// distance samples that lies on the negative ("inside") side. It returns 1
// when both samples are inside, 0 when both are outside, and the linear
// zero-crossing fraction for a sign change.
func FractionInside(phiLeft, phiRight float64) float64 {
	switch {
	case phiLeft < 0 && phiRight < 0:
		return 1
	case phiLeft < 0 && phiRight >= 0:
		return phiLeft / (phiLeft - phiRight)
	case phiLeft >= 0 && phiRight < 0:
		return phiRight / (phiRight - phiLeft)
	default:
		return 0
	}
}

// AreaFractions estimates, for every sample of fractions, the fraction of
// the surrounding control area that lies inside the zero level set, by
// point-sampling the interpolated levelset on a subdivision x subdivision
// subgrid. originX and originY place the control areas relative to the
// levelset samples, in levelset index units. Both grids are assumed to
// share one cell size.
func AreaFractions(levelset, fractions *Field, originX, originY float64, subdivision int) {
	subDx := 1.0 / float64(subdivision)
	sampleMax := subdivision * subdivision
	for j := 0; j < fractions.Nj; j++ {
		for i := 0; i < fractions.Ni; i++ {
			startX := originX + float64(i)
			startY := originY + float64(j)
			incount := 0
			for subJ := 0; subJ < subdivision; subJ++ {
				for subI := 0; subI < subdivision; subI++ {
					x := startX + (float64(subI)+0.5)*subDx
					y := startY + (float64(subJ)+0.5)*subDx
					if levelset.Sample(x, y) < 0 {
						incount++
					}
				}
			}
			fractions.Set(i, j, float64(incount)/float64(sampleMax))
		}
	}
}
