package render

import (
	"image/color"
	"math/rand"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/phuljhari/internal/spark"
	"github.com/ayusman/phuljhari/testdata"
)

var colorGray = color.RGBA{R: 60, G: 60, B: 60, A: 255}

func framesEqual(t *testing.T, a, b gocv.Mat) bool {
	t.Helper()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	channels := gocv.Split(diff)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	for _, ch := range channels {
		if gocv.CountNonZero(ch) != 0 {
			return false
		}
	}
	return true
}

func testParticles(n int, rng *rand.Rand) []spark.Particle {
	particles := make([]spark.Particle, 0, n)
	for i := 0; i < n; i++ {
		p := spark.NewTrailParticle(
			rng.Float64()*100, rng.Float64()*100, 0, 0,
			spark.DefaultTrailPalette[i%len(spark.DefaultTrailPalette)], rng)
		p.Life = 0.2 + 0.8*rng.Float64()
		particles = append(particles, p)
	}
	return particles
}

func TestRenderer_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	particles := testParticles(40, rng)

	reversed := make([]spark.Particle, len(particles))
	for i := range particles {
		reversed[len(particles)-1-i] = particles[i]
	}

	a := testdata.BlackFrame(120, 120)
	defer a.Close()
	b := testdata.BlackFrame(120, 120)
	defer b.Close()

	r := New()
	r.Draw(&a, particles, 0)
	r.Draw(&b, reversed, 0)

	if !framesEqual(t, a, b) {
		t.Error("rendering the same population in reverse order produced a different frame")
	}
}

func TestRenderer_OnlyAddsLight(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	particles := testParticles(20, rng)

	base := testdata.SolidFrame(120, 120, colorGray)
	defer base.Close()
	rendered := base.Clone()
	defer rendered.Close()

	New().Draw(&rendered, particles, 0.5)

	// Every channel must be >= the base: the effect never darkens the frame.
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(base, rendered, &diff) // saturates at 0 where rendered >= base

	channels := gocv.Split(diff)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	for i, ch := range channels {
		if gocv.CountNonZero(ch) != 0 {
			t.Errorf("channel %d darkened by rendering", i)
		}
	}
}

func TestRenderer_FlashBelowThresholdSkipped(t *testing.T) {
	base := testdata.BlackFrame(60, 60)
	defer base.Close()
	rendered := base.Clone()
	defer rendered.Close()

	New().Draw(&rendered, nil, 0.04)

	if !framesEqual(t, base, rendered) {
		t.Error("flash below the visibility threshold modified the frame")
	}
}

func TestRenderer_FlashBrightensWholeFrame(t *testing.T) {
	base := testdata.BlackFrame(60, 60)
	defer base.Close()
	rendered := base.Clone()
	defer rendered.Close()

	New().Draw(&rendered, nil, 1.0)

	if framesEqual(t, base, rendered) {
		t.Error("full flash left the frame unchanged")
	}
}

func TestParticleRadius_ShrinksWithLife(t *testing.T) {
	p := spark.Particle{Size: 5}

	p.Life = 1.0
	if got := particleRadius(&p); got != 5 {
		t.Errorf("radius at full life = %d, want 5", got)
	}

	p.Life = 0.5
	if got := particleRadius(&p); got != 2 {
		t.Errorf("radius at half life = %d, want 2", got)
	}

	p.Life = 0.01
	if got := particleRadius(&p); got != 1 {
		t.Errorf("radius near death = %d, want floor of 1", got)
	}
}

func TestParticleColor_ScalesWithLife(t *testing.T) {
	p := spark.Particle{Color: spark.Color{R: 200, G: 100, B: 50}, Life: 0.5}

	c := particleColor(&p)
	if c.R != 100 || c.G != 50 || c.B != 25 {
		t.Errorf("color at half life = (%d, %d, %d), want (100, 50, 25)", c.R, c.G, c.B)
	}
}
