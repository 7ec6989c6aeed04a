package spark

import (
	"math"
	"math/rand"
)

// Trail particle tuning.
const (
	trailJitterSpeed = 2.0  // max random speed added on top of the carry
	trailCarryFactor = 0.1  // fraction of emitter velocity carried into the spark
	trailDecayMin    = 0.02 // ~50 tick lifespan
	trailDecayMax    = 0.05 // ~20 tick lifespan
	trailSizeMin     = 2.0
	trailSizeMax     = 5.0
	trailGravity     = 0.1

	burstSpeedMin = 2.0
	burstSpeedMax = 12.0
	burstDecayMin = 0.01
	burstDecayMax = 0.03
	burstSizeMin  = 3.0
	burstSizeMax  = 7.0
	burstGravity  = 0.3
)

// DefaultBurstBatchSize is the number of particles in one burst explosion.
const DefaultBurstBatchSize = 60

// DefaultTrailPalette is the sparkler gold used for trail particles.
var DefaultTrailPalette = []Color{
	{R: 255, G: 220, B: 120},
	{R: 255, G: 240, B: 180},
	{R: 255, G: 200, B: 80},
}

// DefaultBurstPalette is deliberately distinct from the trail gold so bursts
// read as a separate event.
var DefaultBurstPalette = []Color{
	{R: 255, G: 80, B: 80},
	{R: 255, G: 120, B: 200},
	{R: 120, G: 180, B: 255},
	{R: 180, G: 255, B: 140},
}

// uniform returns a uniformly random value in [min, max).
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// NewTrailParticle builds one trail particle at (x, y). The velocity is a
// random point on a disk of radius trailJitterSpeed plus a small fraction of
// the emitter's velocity, so the spark inherits some of the hand's motion.
func NewTrailParticle(x, y, vxHint, vyHint float64, c Color, rng *rand.Rand) Particle {
	angle := uniform(rng, 0, 2*math.Pi)
	speed := rng.Float64() * trailJitterSpeed

	return Particle{
		X:       x,
		Y:       y,
		VX:      math.Cos(angle)*speed + vxHint*trailCarryFactor,
		VY:      math.Sin(angle)*speed + vyHint*trailCarryFactor,
		Life:    1.0,
		Decay:   uniform(rng, trailDecayMin, trailDecayMax),
		Size:    uniform(rng, trailSizeMin, trailSizeMax),
		Gravity: trailGravity,
		Kind:    KindTrail,
		Color:   c,
	}
}

// NewBurstBatch builds a radial explosion of count particles centered at
// (x, y). Colors are drawn uniformly from palette; an empty palette falls
// back to DefaultBurstPalette.
func NewBurstBatch(x, y float64, palette []Color, count int, rng *rand.Rand) []Particle {
	if count <= 0 {
		count = DefaultBurstBatchSize
	}
	if len(palette) == 0 {
		palette = DefaultBurstPalette
	}

	batch := make([]Particle, count)
	for i := range batch {
		angle := uniform(rng, 0, 2*math.Pi)
		speed := uniform(rng, burstSpeedMin, burstSpeedMax)

		batch[i] = Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Life:    1.0,
			Decay:   uniform(rng, burstDecayMin, burstDecayMax),
			Size:    uniform(rng, burstSizeMin, burstSizeMax),
			Gravity: burstGravity,
			Kind:    KindBurst,
			Color:   palette[rng.Intn(len(palette))],
		}
	}
	return batch
}
