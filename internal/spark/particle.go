// Package spark implements the sparkler particle effect: per-fingertip
// emitters that turn tracked motion into trail and burst particles, and the
// simulation that advances the shared particle population once per frame.
package spark

// Kind selects the behavior class of a particle at creation time.
type Kind uint8

const (
	// KindTrail is a short-lived, light spark emitted during sustained motion.
	KindTrail Kind = iota
	// KindBurst is a heavier, longer-lived ember emitted as part of a
	// radial explosion when a flick-then-stop gesture is detected.
	KindBurst
)

// Color is a base particle color. Alpha is not stored; the renderer derives
// it from the particle's remaining life.
type Color struct {
	R, G, B uint8
}

// Particle is a single light particle. All fields except position, velocity
// and life are fixed at creation.
type Particle struct {
	X, Y   float64 // frame pixel space
	VX, VY float64 // pixels per tick

	Life    float64 // (0, 1]; the particle dies when it reaches 0
	Decay   float64 // subtracted from Life every tick
	Size    float64 // rendered radius is Size * Life
	Gravity float64 // added to VY every tick

	Kind  Kind
	Color Color
}
