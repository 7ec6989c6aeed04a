package spark

import "math"

// Key identifies one tracked fingertip slot: which detected hand and which
// finger tip on it. Keys are stable for as long as the detector reports the
// hand in the same slot.
type Key struct {
	Hand   int `json:"hand"`
	Finger int `json:"finger"`
}

// Emitter is the per-fingertip gesture state. Position follows the raw
// tracked target through exponential smoothing; velocity is the smoothed
// position delta of the last update, not independently integrated.
type Emitter struct {
	X, Y   float64
	VX, VY float64

	// BurstArmed is set while the fingertip moves fast enough to arm the
	// flick gesture and cleared when the burst fires.
	BurstArmed bool
}

// Smooth pulls the emitter toward the raw target (tx, ty) by the inertia
// factor and records the applied delta as the emitter's velocity.
func (e *Emitter) Smooth(tx, ty, inertia float64) {
	e.VX = (tx - e.X) * inertia
	e.VY = (ty - e.Y) * inertia
	e.X += e.VX
	e.Y += e.VY
}

// Speed returns the magnitude of the smoothed velocity.
func (e *Emitter) Speed() float64 {
	return math.Hypot(e.VX, e.VY)
}
