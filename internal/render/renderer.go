// Package render composites the sparkler effect onto captured video frames.
package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/phuljhari/internal/spark"
)

const (
	// minVisibleFlash is the intensity below which the flash overlay is
	// skipped entirely.
	minVisibleFlash = 0.05
	// maxFlashBoost is the per-channel brightness added at full flash.
	maxFlashBoost = 170.0
)

// Renderer draws the particle population and the burst flash onto a frame.
// It only ever adds light to the frame; the underlying video is never
// cleared or darkened.
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Mirror flips the frame horizontally in place for the selfie view.
func (r *Renderer) Mirror(frame *gocv.Mat) {
	gocv.Flip(*frame, frame, 1)
}

// Draw composites the effect onto frame: first the full-frame flash (so
// particles stay visually on top), then every particle with additive
// blending. Particle draw order does not matter; saturating addition is
// commutative.
func (r *Renderer) Draw(frame *gocv.Mat, particles []spark.Particle, flash float64) {
	if flash > minVisibleFlash {
		frame.AddUChar(uint8(flash * maxFlashBoost))
	}

	if len(particles) == 0 {
		return
	}

	// Particles are drawn into a black scratch layer which is then added
	// onto the frame, saturating per channel. Overlapping sparks accumulate
	// toward white the way real light does.
	overlay := gocv.Zeros(frame.Rows(), frame.Cols(), gocv.MatTypeCV8UC3)
	defer overlay.Close()

	for i := range particles {
		p := &particles[i]
		gocv.Circle(&overlay, image.Pt(int(p.X), int(p.Y)), particleRadius(p), particleColor(p), -1)
	}

	gocv.Add(*frame, overlay, frame)
}

// particleRadius is the rendered radius: the particle shrinks as it dies,
// never below a single pixel.
func particleRadius(p *spark.Particle) int {
	radius := int(p.Size * p.Life)
	if radius < 1 {
		radius = 1
	}
	return radius
}

// particleColor scales the base color by remaining life. Under additive
// blending over an opaque frame this is equivalent to drawing at alpha =
// life.
func particleColor(p *spark.Particle) color.RGBA {
	return color.RGBA{
		R: uint8(float64(p.Color.R) * p.Life),
		G: uint8(float64(p.Color.G) * p.Life),
		B: uint8(float64(p.Color.B) * p.Life),
		A: 255,
	}
}
