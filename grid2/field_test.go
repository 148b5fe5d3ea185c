package grid2

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	f := NewField(7, 5)
	for i := range f.Data {
		f.Data[i] = rng.Float64()
	}

	for j := 0; j < f.Nj; j++ {
		for i := 0; i < f.Ni; i++ {
			assert.InDelta(t, f.At(i, j), f.Sample(float64(i), float64(j)),
				1e-14, "sample at lattice point (%d, %d)", i, j)
		}
	}
}

func TestSampleLinearField(t *testing.T) {
	f := NewField(8, 8)
	for j := 0; j < 8; j++ {
		for i := 0; i < 8; i++ {
			f.Set(i, j, 2*float64(i)-3*float64(j)+1)
		}
	}

	// Bilinear interpolation reproduces linear fields exactly.
	assert.InDelta(t, 2*2.5-3*4.25+1, f.Sample(2.5, 4.25), 1e-13)
	assert.InDelta(t, 2*0.1-3*6.9+1, f.Sample(0.1, 6.9), 1e-13)
}

func TestSampleClamps(t *testing.T) {
	f := NewField(4, 4)
	f.Set(0, 0, 7)
	f.Set(3, 3, -2)

	assert.Equal(t, 7.0, f.Sample(-10, -10))
	assert.Equal(t, -2.0, f.Sample(100, 100))
}

func TestGradientLinearField(t *testing.T) {
	f := NewField(6, 6)
	for j := 0; j < 6; j++ {
		for i := 0; i < 6; i++ {
			f.Set(i, j, 0.5*float64(i)-1.5*float64(j))
		}
	}

	gx, gy := f.Gradient(2.3, 3.7)
	assert.InDelta(t, 0.5, gx, 1e-13)
	assert.InDelta(t, -1.5, gy, 1e-13)
}

func TestBarycentric(t *testing.T) {
	tests := []struct {
		x     float64
		i     int
		frac  float64
	}{
		{2.25, 2, 0.25},
		{0, 0, 0},
		{-3, 0, 0},
		{9.5, 8, 1},
		{100, 8, 1},
	}

	for _, test := range tests {
		i, frac := Barycentric(test.x, 0, 10)
		assert.Equal(t, test.i, i, "index for x = %g", test.x)
		assert.InDelta(t, test.frac, frac, 1e-14, "frac for x = %g", test.x)
	}
}

func TestCopyFromPanicsOnMismatch(t *testing.T) {
	f := NewField(3, 3)
	g := NewField(4, 3)
	require.Panics(t, func() { f.CopyFrom(g) })
}
