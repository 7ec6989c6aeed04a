package spark

// floorBounceDamping reverses and damps vertical velocity when a particle
// hits the bottom edge of the frame.
const floorBounceDamping = -0.6

// Step advances every particle by one tick and returns the survivors,
// filtering in place. Life is decremented first: a particle that expires
// this tick is dropped without its motion being applied. Survivors move by
// their velocity, pick up gravity, and bounce off the floor with damped
// vertical velocity.
func Step(particles []Particle, width, height float64) []Particle {
	alive := particles[:0]
	for i := range particles {
		p := particles[i]

		p.Life -= p.Decay
		if p.Life <= 0 {
			continue
		}

		p.X += p.VX
		p.Y += p.VY
		p.VY += p.Gravity

		if p.Y > height && p.VY > 0 {
			p.VY *= floorBounceDamping
			p.Y = height
		}

		alive = append(alive, p)
	}
	return alive
}
