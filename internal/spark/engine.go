package spark

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
)

// Gesture classification defaults. Arm must stay above trigger so a fast
// flick arms without firing; the burst fires on the first tick the armed
// emitter drops below the trigger speed.
const (
	DefaultInertiaFactor      = 0.25
	DefaultDrawSpeedThreshold = 3.0
	DefaultBurstArmSpeed      = 15.0
	DefaultBurstTriggerSpeed  = 5.0

	DefaultFlashGain  = 0.5
	DefaultFlashDecay = 0.85
)

// Flicker field shape. Low-frequency Perlin noise sampled per spawn gives
// trail sparks a slow brightness shimmer instead of flat palette colors.
const (
	flickerAlpha = 2.0
	flickerBeta  = 2.0
	flickerOrder = 3
	flickerScale = 0.05 // tick -> noise coordinate
	flickerDepth = 0.15 // max brightness reduction
)

// Options configures an Engine. Zero-valued fields are replaced with the
// package defaults by New.
type Options struct {
	Width  float64
	Height float64

	InertiaFactor      float64
	DrawSpeedThreshold float64
	BurstArmSpeed      float64
	BurstTriggerSpeed  float64
	BurstBatchSize     int

	TrailPalette []Color
	BurstPalette []Color

	FlashGain  float64
	FlashDecay float64

	// Rand is the sampler used for all randomized spawning. Seed it for
	// deterministic tests; nil falls back to a time-seeded source.
	Rand *rand.Rand
}

// TrackedPoint is one fingertip observation for the current tick, in
// normalized detector coordinates (0..1 on both axes).
type TrackedPoint struct {
	Key Key
	X   float64
	Y   float64
}

// EmitterState is a read-only snapshot of one emitter, taken after a tick.
type EmitterState struct {
	Key        Key     `json:"key"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Speed      float64 `json:"speed"`
	BurstArmed bool    `json:"burst_armed"`
}

// Engine owns the emitter registry, the shared particle population and the
// global flash intensity, and advances all three exactly once per Tick.
// It is not safe for concurrent use; the frame loop is its only caller.
type Engine struct {
	opts Options

	emitters  map[Key]*Emitter
	particles []Particle
	flash     float64

	flicker *perlin.Perlin
	tick    uint64

	// bursts fired during the most recent Tick, for metrics and the
	// effect state broadcast.
	lastBursts int
}

// New creates an Engine for a frame of opts.Width x opts.Height pixels.
func New(opts Options) *Engine {
	if opts.InertiaFactor <= 0 {
		opts.InertiaFactor = DefaultInertiaFactor
	}
	if opts.DrawSpeedThreshold <= 0 {
		opts.DrawSpeedThreshold = DefaultDrawSpeedThreshold
	}
	if opts.BurstArmSpeed <= 0 {
		opts.BurstArmSpeed = DefaultBurstArmSpeed
	}
	if opts.BurstTriggerSpeed <= 0 {
		opts.BurstTriggerSpeed = DefaultBurstTriggerSpeed
	}
	if opts.BurstBatchSize <= 0 {
		opts.BurstBatchSize = DefaultBurstBatchSize
	}
	if len(opts.TrailPalette) == 0 {
		opts.TrailPalette = DefaultTrailPalette
	}
	if len(opts.BurstPalette) == 0 {
		opts.BurstPalette = DefaultBurstPalette
	}
	if opts.FlashGain <= 0 {
		opts.FlashGain = DefaultFlashGain
	}
	if opts.FlashDecay <= 0 {
		opts.FlashDecay = DefaultFlashDecay
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}

	return &Engine{
		opts:     opts,
		emitters: make(map[Key]*Emitter),
		flicker:  perlin.NewPerlin(flickerAlpha, flickerBeta, flickerOrder, opts.Rand.Int63()),
	}
}

// ParticleChance returns the per-emitter emission probability for the given
// number of active emitters. The divisor is floored at 1 so the result is
// always well-defined and at most 1; with many fingertips tracked at once
// the total spawn rate stays roughly constant.
func ParticleChance(emitters int) float64 {
	return 1.0 / math.Max(1, float64(emitters)*0.5)
}

// Tick advances the effect by one frame: update or create an emitter for
// every tracked point (spawning particles as the gesture state dictates),
// drop emitters whose key vanished from the tracked set, decay the flash,
// and step the particle population.
//
// The order matters: stale emitters are pruned after updates so a key that
// just vanished is not resurrected, and pruning happens before anything else
// can observe the registry, so a lost fingertip never extrapolates motion.
func (g *Engine) Tick(points []TrackedPoint) {
	g.lastBursts = 0

	chance := ParticleChance(len(points))
	seen := make(map[Key]struct{}, len(points))

	for _, tp := range points {
		seen[tp.Key] = struct{}{}

		// The detector sees the raw frame but the effect is drawn on the
		// mirrored display, so x flips when mapping to pixel space.
		tx := (1 - tp.X) * g.opts.Width
		ty := tp.Y * g.opts.Height

		em, ok := g.emitters[tp.Key]
		if !ok {
			// Seed at the raw target with zero velocity and emit nothing
			// this tick, so a new fingertip does not streak in from
			// wherever the emitter would otherwise have started.
			g.emitters[tp.Key] = &Emitter{X: tx, Y: ty}
			continue
		}

		g.stepEmitter(em, tx, ty, chance)
	}

	for k := range g.emitters {
		if _, ok := seen[k]; !ok {
			delete(g.emitters, k)
		}
	}

	g.flash *= g.opts.FlashDecay
	g.particles = Step(g.particles, g.opts.Width, g.opts.Height)
	g.tick++
}

// stepEmitter smooths one emitter toward its target and runs the gesture
// state machine on the resulting speed.
func (g *Engine) stepEmitter(em *Emitter, tx, ty, chance float64) {
	em.Smooth(tx, ty, g.opts.InertiaFactor)
	s := em.Speed()

	if s > g.opts.BurstArmSpeed {
		em.BurstArmed = true
	}

	if em.BurstArmed && s < g.opts.BurstTriggerSpeed {
		g.particles = append(g.particles,
			NewBurstBatch(em.X, em.Y, g.opts.BurstPalette, g.opts.BurstBatchSize, g.opts.Rand)...)
		g.flash = math.Min(1, g.flash+g.opts.FlashGain)
		em.BurstArmed = false
		g.lastBursts++
	}

	if s > g.opts.DrawSpeedThreshold {
		if g.opts.Rand.Float64() < chance {
			g.particles = append(g.particles, g.newTrail(em))
		}
		// Very fast strokes get a denser trail.
		if s > 2*g.opts.DrawSpeedThreshold && g.opts.Rand.Float64() < chance {
			g.particles = append(g.particles, g.newTrail(em))
		}
	}
}

// newTrail spawns one trail particle at the emitter, with the palette color
// dimmed by the current value of the flicker field.
func (g *Engine) newTrail(em *Emitter) Particle {
	c := g.opts.TrailPalette[g.opts.Rand.Intn(len(g.opts.TrailPalette))]

	// Noise2D is in [-1, 1]; map it to a brightness factor just below 1.
	n := g.flicker.Noise2D(float64(g.tick)*flickerScale, em.X*flickerScale)
	dim := 1 - flickerDepth*(n+1)/2
	c = Color{
		R: uint8(float64(c.R) * dim),
		G: uint8(float64(c.G) * dim),
		B: uint8(float64(c.B) * dim),
	}

	return NewTrailParticle(em.X, em.Y, em.VX, em.VY, c, g.opts.Rand)
}

// Particles returns the live particle population. The slice is owned by the
// engine and only valid until the next Tick.
func (g *Engine) Particles() []Particle {
	return g.particles
}

// Flash returns the current global flash intensity in [0, 1].
func (g *Engine) Flash() float64 {
	return g.flash
}

// EmitterCount returns the number of currently tracked emitters.
func (g *Engine) EmitterCount() int {
	return len(g.emitters)
}

// LastBursts returns how many bursts fired during the most recent Tick.
func (g *Engine) LastBursts() int {
	return g.lastBursts
}

// Emitters returns snapshots of all live emitters, for state broadcasting.
func (g *Engine) Emitters() []EmitterState {
	states := make([]EmitterState, 0, len(g.emitters))
	for k, em := range g.emitters {
		states = append(states, EmitterState{
			Key:        k,
			X:          em.X,
			Y:          em.Y,
			Speed:      em.Speed(),
			BurstArmed: em.BurstArmed,
		})
	}
	return states
}
