package sim

import (
	"github.com/phil-mansfield/liquid2d/grid2"
)

const extrapolationPasses = 10

// extrapolate flood-fills valid face values into invalid interior faces.
// Each pass is Jacobi-style: an invalid face takes the average of
// whichever 4-neighbors were valid at the start of the pass and becomes
// valid itself. Faces no pass can reach keep their last written value,
// and border faces are never touched.
func extrapolate(grid *grid2.Field, valid *grid2.BoolField) {
	oldValid := grid2.NewBoolField(valid.Ni, valid.Nj)
	tempGrid := grid2.NewField(grid.Ni, grid.Nj)

	for layer := 0; layer < extrapolationPasses; layer++ {
		oldValid.CopyFrom(valid)
		tempGrid.CopyFrom(grid)

		for j := 1; j < grid.Nj-1; j++ {
			for i := 1; i < grid.Ni-1; i++ {
				if oldValid.At(i, j) {
					continue
				}

				sum, count := 0.0, 0
				if oldValid.At(i+1, j) {
					sum += grid.At(i+1, j)
					count++
				}
				if oldValid.At(i-1, j) {
					sum += grid.At(i-1, j)
					count++
				}
				if oldValid.At(i, j+1) {
					sum += grid.At(i, j+1)
					count++
				}
				if oldValid.At(i, j-1) {
					sum += grid.At(i, j-1)
					count++
				}

				if count > 0 {
					tempGrid.Set(i, j, sum/float64(count))
					valid.Set(i, j, true)
				}
			}
		}

		grid.CopyFrom(tempGrid)
	}
}
