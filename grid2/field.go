/*package grid2 contains 2D scalar and boolean grids sampled at staggered
locations on a MAC grid, along with the bilinear interpolation and level-set
primitives that the simulation core builds on.

Positions handed to the sampling routines are in index space: a caller
holding a world position divides by the cell size and subtracts the field's
sample offset before calling. Queries outside the valid range are clamped,
not rejected, since backtraced sample points routinely land slightly outside
the domain.
*/
package grid2

import (
	"fmt"
	"math"
)

// Field is a dense 2D grid of float64 values with dimensions Ni x Nj.
// Values are stored in row-major order with i varying fastest, matching
// the index convention Data[i + Ni*j].
type Field struct {
	Ni, Nj int
	Data   []float64
}

// NewField creates a zeroed ni x nj field.
func NewField(ni, nj int) *Field {
	if ni <= 0 || nj <= 0 {
		panic(fmt.Sprintf("grid2: non-positive dimensions %d x %d", ni, nj))
	}
	return &Field{Ni: ni, Nj: nj, Data: make([]float64, ni*nj)}
}

// At returns the value stored at (i, j).
func (f *Field) At(i, j int) float64 { return f.Data[i+f.Ni*j] }

// Set stores val at (i, j).
func (f *Field) Set(i, j int, val float64) { f.Data[i+f.Ni*j] = val }

// Add adds val to the value stored at (i, j).
func (f *Field) Add(i, j int, val float64) { f.Data[i+f.Ni*j] += val }

// Fill sets every sample to val.
func (f *Field) Fill(val float64) {
	for i := range f.Data {
		f.Data[i] = val
	}
}

// CopyFrom copies the contents of src into f. The fields must have the
// same dimensions.
func (f *Field) CopyFrom(src *Field) {
	if f.Ni != src.Ni || f.Nj != src.Nj {
		panic(fmt.Sprintf(
			"grid2: copy between %d x %d and %d x %d fields",
			src.Ni, src.Nj, f.Ni, f.Nj,
		))
	}
	copy(f.Data, src.Data)
}

// Barycentric locates the continuous coordinate x within a sequence of
// samples indexed [low, high), returning the lower bracketing index and
// the fractional offset into that interval. Out-of-range coordinates are
// clamped to the first or last interval.
func Barycentric(x float64, low, high int) (i int, frac float64) {
	s := math.Floor(x)
	i = int(s)
	if i < low {
		return low, 0
	} else if i > high-2 {
		return high - 2, 1
	}
	return i, x - s
}

// Sample returns the bilinearly interpolated value at the continuous
// index-space position (x, y), clamping to the valid sample range.
// Sampling exactly at an integer lattice point returns the stored value.
func (f *Field) Sample(x, y float64) float64 {
	i, fx := Barycentric(x, 0, f.Ni)
	j, fy := Barycentric(y, 0, f.Nj)

	v00, v10 := f.At(i, j), f.At(i+1, j)
	v01, v11 := f.At(i, j+1), f.At(i+1, j+1)

	return (v00*(1-fx)+v10*fx)*(1-fy) + (v01*(1-fx)+v11*fx)*fy
}

// Gradient returns the finite-difference gradient of the field at the
// continuous index-space position (x, y). The result is not normalized.
func (f *Field) Gradient(x, y float64) (gx, gy float64) {
	i, fx := Barycentric(x, 0, f.Ni)
	j, fy := Barycentric(y, 0, f.Nj)

	v00, v10 := f.At(i, j), f.At(i+1, j)
	v01, v11 := f.At(i, j+1), f.At(i+1, j+1)

	ddx0, ddx1 := v10-v00, v11-v01
	ddy0, ddy1 := v01-v00, v11-v10

	gx = ddx0*(1-fy) + ddx1*fy
	gy = ddy0*(1-fx) + ddy1*fx
	return gx, gy
}

// BoolField is a dense 2D grid of flags with the same index convention
// as Field. The simulation uses it to track which faces hold physically
// meaningful velocities.
type BoolField struct {
	Ni, Nj int
	Data   []bool
}

// NewBoolField creates an all-false ni x nj flag grid.
func NewBoolField(ni, nj int) *BoolField {
	if ni <= 0 || nj <= 0 {
		panic(fmt.Sprintf("grid2: non-positive dimensions %d x %d", ni, nj))
	}
	return &BoolField{Ni: ni, Nj: nj, Data: make([]bool, ni*nj)}
}

// At returns the flag at (i, j).
func (f *BoolField) At(i, j int) bool { return f.Data[i+f.Ni*j] }

// Set stores val at (i, j).
func (f *BoolField) Set(i, j int, val bool) { f.Data[i+f.Ni*j] = val }

// Fill sets every flag to val.
func (f *BoolField) Fill(val bool) {
	for i := range f.Data {
		f.Data[i] = val
	}
}

// CopyFrom copies the contents of src into f. The fields must have the
// same dimensions.
func (f *BoolField) CopyFrom(src *BoolField) {
	if f.Ni != src.Ni || f.Nj != src.Nj {
		panic(fmt.Sprintf(
			"grid2: copy between %d x %d and %d x %d fields",
			src.Ni, src.Nj, f.Ni, f.Nj,
		))
	}
	copy(f.Data, src.Data)
}
