package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/liquid2d/grid2"
)

func openBoundary(x, y float64) float64 { return 1 }

func TestStillSingleParticle(t *testing.T) {
	s := New(1.0, 32, 32)
	s.SetBoundary(openBoundary)
	s.AddParticle(0.5, 0.5)

	s.Advance(0.01)

	// No birth or death.
	require.Len(t, s.Particles(), 1)

	// Particles move before any force is applied, so a still field leaves
	// the particle exactly in place.
	p := s.Particles()[0]
	assert.Equal(t, 0.5, p.X)
	assert.Equal(t, 0.5, p.Y)

	// The particle carved out liquid around its cell.
	assert.Less(t, s.liquidPhi.At(16, 16), 0.0)

	// Far from the particle, beyond extrapolation reach, the velocity
	// field is untouched.
	u, v := s.Velocity(0.06, 0.06)
	assert.InDelta(t, 0.0, u, 1e-10)
	assert.InDelta(t, 0.0, v, 1e-10)
}

func TestAllSolidDomain(t *testing.T) {
	s := New(1.0, 16, 16)
	s.SetBoundary(func(x, y float64) float64 { return -1 })
	s.AddParticle(0.5, 0.5)

	s.Advance(0.01)

	for i := range s.uWeights.Data {
		assert.Equal(t, 0.0, s.uWeights.Data[i])
	}
	for i := range s.vWeights.Data {
		assert.Equal(t, 0.0, s.vWeights.Data[i])
	}
	for i := range s.u.Data {
		assert.Equal(t, 0.0, s.u.Data[i])
	}
	for i := range s.v.Data {
		assert.Equal(t, 0.0, s.v.Data[i])
	}
}

func TestParticleCountConserved(t *testing.T) {
	s := New(1.0, 16, 16)
	boundary := func(x, y float64) float64 {
		return -(math.Hypot(x-0.5, y-0.5) - 0.4)
	}
	s.SetBoundary(boundary)

	rng := rand.New(rand.NewSource(1))
	for len(s.Particles()) < 50 {
		x, y := rng.Float64(), rng.Float64()
		if boundary(x, y) > 0 && math.Hypot(x-0.5, y-0.6) < 0.2 {
			s.AddParticle(x, y)
		}
	}

	for step := 0; step < 5; step++ {
		s.Advance(0.005)
	}

	require.Len(t, s.Particles(), 50)

	// Any particle pushed into the wall was projected back out, up to the
	// accuracy of the interpolated distance gradient.
	for i, p := range s.Particles() {
		assert.Greater(t, boundary(p.X, p.Y), -s.Dx,
			"particle %d at (%g, %g) penetrates the wall", i, p.X, p.Y)
	}
}

func TestProjectionReducesDivergence(t *testing.T) {
	s := New(1.0, 16, 16)
	s.SetBoundary(openBoundary)

	// A blob of liquid with a noisy velocity field.
	for j := 0; j < 16; j++ {
		for i := 0; i < 16; i++ {
			x := (float64(i) + 0.5) * s.Dx
			y := (float64(j) + 0.5) * s.Dx
			if math.Hypot(x-0.5, y-0.5) < 0.25 {
				s.AddParticle(x, y)
			}
		}
	}

	rng := rand.New(rand.NewSource(2))
	for i := range s.u.Data {
		s.u.Data[i] = 2*rng.Float64() - 1
	}
	for i := range s.v.Data {
		s.v.Data[i] = 2*rng.Float64() - 1
	}

	s.computePhi()
	s.applyProjection(0.005)

	assert.Less(t, s.MaxDivergence(), 1e-5)
}

func TestConstrainVelocityZeroesNormalComponent(t *testing.T) {
	s := New(1.0, 16, 16)
	// Solid fills the left half of the domain; the boundary normal is
	// (1, 0) everywhere.
	s.SetBoundary(func(x, y float64) float64 { return x - 0.5 })

	s.u.Fill(1)
	s.v.Fill(1)

	s.computePressureWeights()
	require.Equal(t, 0.0, s.uWeights.At(2, 8))
	require.Equal(t, 0.0, s.vWeights.At(2, 8))

	s.constrainVelocity()

	// Deep inside the solid the normal (x) component vanishes and the
	// tangential (y) component is untouched.
	assert.InDelta(t, 0.0, s.u.At(2, 8), 1e-12)
	assert.InDelta(t, 1.0, s.v.At(2, 8), 1e-12)
}

func TestCFLStep(t *testing.T) {
	s := New(1.0, 16, 16)

	// A still field gets the capped substep instead of a division by zero.
	assert.Equal(t, maxSubstepCells*s.Dx, s.cfl())

	s.u.Set(5, 5, 2)
	assert.InDelta(t, s.Dx/2, s.cfl(), 1e-14)

	s.v.Set(3, 3, -4)
	assert.InDelta(t, s.Dx/4, s.cfl(), 1e-14)
}

func TestVelocitySampleRoundTrip(t *testing.T) {
	s := New(1.0, 8, 8)
	rng := rand.New(rand.NewSource(3))
	for i := range s.u.Data {
		s.u.Data[i] = rng.Float64()
	}
	for i := range s.v.Data {
		s.v.Data[i] = rng.Float64()
	}

	// Sampling at a component's own staggered location returns the stored
	// value exactly.
	u, _ := s.Velocity(3*s.Dx, 4.5*s.Dx)
	assert.InDelta(t, s.u.At(3, 4), u, 1e-14)
	_, v := s.Velocity(3.5*s.Dx, 4*s.Dx)
	assert.InDelta(t, s.v.At(3, 4), v, 1e-14)
}

func TestSurfaceReconstruction(t *testing.T) {
	s := New(1.0, 16, 16)
	s.SetBoundary(openBoundary)
	s.AddParticle(0.5, 0.5)

	s.computePhi()

	// Negative at the particle, back to the far-field constant a few
	// cells away.
	i, _ := grid2.Barycentric(0.5/s.Dx-0.5, 0, 16)
	assert.Less(t, s.liquidPhi.At(i, i), 0.0)
	assert.Equal(t, 3*s.Dx, s.liquidPhi.At(1, 1))
}

func TestSurfaceClampsToWalls(t *testing.T) {
	s := New(1.0, 16, 16)
	// Solid floor under y = 0.25.
	s.SetBoundary(func(x, y float64) float64 { return y - 0.25 })

	// One particle just above the floor. Its 5x5 splat pulls nearby cell
	// distances under 0.5*dx without making them liquid, and the wall
	// clamp then forces the submerged ones negative.
	s.AddParticle(0.5, 0.27)
	s.computePhi()

	// The cell right below the floor surface next to the particle.
	j := 3 // centered at y = 0.21875, below the floor at 0.25
	assert.Equal(t, -0.5*s.Dx, s.liquidPhi.At(8, j))
}

func BenchmarkAdvance(b *testing.B) {
	s := New(1.0, 32, 32)
	boundary := func(x, y float64) float64 {
		return -(math.Hypot(x-0.5, y-0.5) - 0.45)
	}
	s.SetBoundary(boundary)

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 3*32*32; i++ {
		x, y := rng.Float64(), rng.Float64()
		if boundary(x, y) > 0 && y > 0.5 {
			s.AddParticle(x, y)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Advance(0.002)
	}
}
