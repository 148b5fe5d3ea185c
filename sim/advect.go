package sim

import (
	"log"
	"math"
)

// traceRK2 advances a point through the current velocity field with
// explicit midpoint integration. A negative dt backtraces, which is how
// the semi-Lagrangian advection uses it.
func (s *FluidSim) traceRK2(x, y, dt float64) (float64, float64) {
	u, v := s.Velocity(x, y)
	u, v = s.Velocity(x+0.5*dt*u, y+0.5*dt*v)
	return x + dt*u, y + dt*v
}

// advectParticles moves every marker particle through the velocity field
// and projects any particle that ends up inside the solid back to the
// surface along the local distance gradient. Integration error and large
// substeps both push particles into walls occasionally; this handles
// either without ever dropping a particle.
func (s *FluidSim) advectParticles(dt float64) {
	for i := range s.particles {
		p := s.particles[i]

		u0, v0 := s.Velocity(p.X, p.Y)
		midX := p.X + 0.5*dt*u0
		midY := p.Y + 0.5*dt*v0
		u1, v1 := s.Velocity(midX, midY)
		moved := Vec2{p.X + dt*u1, p.Y + dt*v1}

		if math.Hypot(moved.X-p.X, moved.Y-p.Y) > 3*s.Dx {
			log.Printf("sim: particle %d moved (%g, %g) -> (%g, %g) in one "+
				"substep: midpoint (%g, %g), start velocity (%g, %g), "+
				"mid velocity (%g, %g), dt = %g",
				i, p.X, p.Y, moved.X, moved.Y, midX, midY, u0, v0, u1, v1, dt)
		}

		phi := s.solidPhi.Sample(moved.X/s.Dx, moved.Y/s.Dx)
		if phi < 0 {
			gx, gy := s.solidPhi.Gradient(moved.X/s.Dx, moved.Y/s.Dx)
			if norm := math.Hypot(gx, gy); norm > 0 {
				moved.X -= phi * gx / norm
				moved.Y -= phi * gy / norm
			}
		}

		s.particles[i] = moved
	}
}

// advect resamples every velocity face from the position it came from dt
// ago. Results go to scratch buffers that are swapped in at the end, so
// the backtraces all read a consistent field.
func (s *FluidSim) advect(dt float64) {
	for j := 0; j < s.Nj; j++ {
		for i := 0; i < s.Ni+1; i++ {
			x, y := s.traceRK2(float64(i)*s.Dx, (float64(j)+0.5)*s.Dx, -dt)
			u, _ := s.Velocity(x, y)
			s.tempU.Set(i, j, u)
		}
	}

	for j := 0; j < s.Nj+1; j++ {
		for i := 0; i < s.Ni; i++ {
			x, y := s.traceRK2((float64(i)+0.5)*s.Dx, float64(j)*s.Dx, -dt)
			_, v := s.Velocity(x, y)
			s.tempV.Set(i, j, v)
		}
	}

	s.u, s.tempU = s.tempU, s.u
	s.v, s.tempV = s.tempV, s.v
}
