package spark

import (
	"math"
	"math/rand"
	"testing"
)

const (
	testW = 1000.0
	testH = 1000.0
)

// pt builds a TrackedPoint whose mirrored pixel-space target is (px, py).
func pt(key Key, px, py float64) TrackedPoint {
	return TrackedPoint{Key: key, X: 1 - px/testW, Y: py / testH}
}

func testEngine(seed int64) *Engine {
	return New(Options{
		Width:  testW,
		Height: testH,
		Rand:   rand.New(rand.NewSource(seed)),
	})
}

func countKind(particles []Particle, kind Kind) int {
	n := 0
	for _, p := range particles {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func TestEngine_NoEmissionOnCreate(t *testing.T) {
	g := testEngine(1)

	// First observation of a key seeds the emitter and emits nothing, no
	// matter how far away the target is.
	g.Tick([]TrackedPoint{pt(Key{0, 1}, 900, 100)})

	if got := len(g.Particles()); got != 0 {
		t.Errorf("particles after create tick = %d, want 0", got)
	}
	if got := g.EmitterCount(); got != 1 {
		t.Errorf("emitter count = %d, want 1", got)
	}
}

func TestEngine_ArmTriggerHysteresis(t *testing.T) {
	g := testEngine(2)
	key := Key{0, 1}

	// Seed at x=500. Each subsequent target is offset so the smoothed speed
	// (offset * inertia) hits the value the sequence calls for.
	g.Tick([]TrackedPoint{pt(key, 500, 500)})

	g.Tick([]TrackedPoint{pt(key, 580, 500)}) // speed 20: arms
	if got := countKind(g.Particles(), KindBurst); got != 0 {
		t.Fatalf("burst particles after arming tick = %d, want 0", got)
	}

	g.Tick([]TrackedPoint{pt(key, 600, 500)}) // speed 20: stays armed
	if got := countKind(g.Particles(), KindBurst); got != 0 {
		t.Fatalf("burst particles while still fast = %d, want 0", got)
	}

	g.Tick([]TrackedPoint{pt(key, 552, 500)}) // speed 3: below trigger, fires
	if got := countKind(g.Particles(), KindBurst); got != DefaultBurstBatchSize {
		t.Fatalf("burst particles after trigger = %d, want %d", got, DefaultBurstBatchSize)
	}
	if got := g.LastBursts(); got != 1 {
		t.Errorf("LastBursts = %d, want 1", got)
	}

	// The flag resets on trigger: staying slow must not fire again.
	g.Tick([]TrackedPoint{pt(key, 543, 500)})
	if got := countKind(g.Particles(), KindBurst); got != DefaultBurstBatchSize {
		t.Errorf("burst particles after idle tick = %d, want still %d", got, DefaultBurstBatchSize)
	}
}

func TestEngine_NoBurstWhileFast(t *testing.T) {
	g := testEngine(3)
	key := Key{0, 1}

	// The speed never drops below the trigger threshold, so the armed flag
	// never converts into a burst.
	g.Tick([]TrackedPoint{pt(key, 100, 500)})
	for i := 0; i < 10; i++ {
		x := g.Emitters()[0].X
		g.Tick([]TrackedPoint{pt(key, x+80, 500)}) // speed 20
	}

	if got := countKind(g.Particles(), KindBurst); got != 0 {
		t.Errorf("burst particles during sustained fast motion = %d, want 0", got)
	}
}

func TestEngine_TrailEmissionAboveDrawSpeed(t *testing.T) {
	g := testEngine(4)
	key := Key{0, 1}

	// Speed 4 is above the draw threshold and below everything else; with a
	// single emitter the spawn probability is 1, so every tick emits exactly
	// one trail particle. Targets are offset from the emitter's current
	// position so the smoothed speed is exact despite the inertia lag.
	g.Tick([]TrackedPoint{pt(key, 500, 500)})
	for i := 0; i < 5; i++ {
		x := g.Emitters()[0].X
		g.Tick([]TrackedPoint{pt(key, x+16, 500)}) // speed 16 * 0.25 = 4
	}

	if got := countKind(g.Particles(), KindTrail); got != 5 {
		t.Errorf("trail particles = %d, want 5", got)
	}
}

func TestEngine_DoubleTrailAboveTwiceDrawSpeed(t *testing.T) {
	g := testEngine(5)
	key := Key{0, 1}

	// Speed 8 exceeds twice the draw threshold: both spawn rolls happen and
	// both succeed at probability 1.
	g.Tick([]TrackedPoint{pt(key, 500, 500)})
	for i := 0; i < 4; i++ {
		x := g.Emitters()[0].X
		g.Tick([]TrackedPoint{pt(key, x+32, 500)}) // speed 32 * 0.25 = 8
	}

	if got := countKind(g.Particles(), KindTrail); got != 8 {
		t.Errorf("trail particles = %d, want 8 (two per tick)", got)
	}
}

func TestEngine_NoEmissionWhenIdle(t *testing.T) {
	g := testEngine(6)
	key := Key{0, 1}

	// A stationary fingertip stays below the draw threshold.
	for i := 0; i < 10; i++ {
		g.Tick([]TrackedPoint{pt(key, 500, 500)})
	}

	if got := len(g.Particles()); got != 0 {
		t.Errorf("particles from an idle fingertip = %d, want 0", got)
	}
}

func TestEngine_DeletionOnLoss(t *testing.T) {
	g := testEngine(7)
	key := Key{1, 2}

	g.Tick([]TrackedPoint{pt(key, 500, 500)})
	if got := g.EmitterCount(); got != 1 {
		t.Fatalf("emitter count = %d, want 1", got)
	}

	// The key is absent this tick: the emitter goes away immediately, with
	// no grace period and no extrapolated motion.
	g.Tick(nil)
	if got := g.EmitterCount(); got != 0 {
		t.Errorf("emitter count after loss = %d, want 0", got)
	}
}

func TestEngine_RecreatedEmitterDoesNotStreak(t *testing.T) {
	g := testEngine(8)
	key := Key{0, 1}

	g.Tick([]TrackedPoint{pt(key, 100, 100)})
	g.Tick(nil) // lost

	// Reappearing far away must behave like a fresh create, not a teleport.
	g.Tick([]TrackedPoint{pt(key, 900, 900)})

	if got := len(g.Particles()); got != 0 {
		t.Errorf("particles after reappearance = %d, want 0", got)
	}
}

func TestParticleChance(t *testing.T) {
	tests := []struct {
		emitters int
		want     float64
	}{
		{0, 1.0},
		{1, 1.0}, // divisor floored at 1
		{2, 1.0},
		{3, 1.0 / 1.5},
		{4, 0.5},
		{10, 0.2},
	}

	for _, tt := range tests {
		if got := ParticleChance(tt.emitters); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("ParticleChance(%d) = %v, want %v", tt.emitters, got, tt.want)
		}
	}
}

func TestEngine_FlashRaisedAndDecayed(t *testing.T) {
	g := testEngine(9)
	key := Key{0, 1}

	// Drive the flick-then-stop sequence to fire a burst.
	g.Tick([]TrackedPoint{pt(key, 500, 500)})
	g.Tick([]TrackedPoint{pt(key, 580, 500)}) // speed 20: arms, emitter at 520
	g.Tick([]TrackedPoint{pt(key, 532, 500)}) // speed 3: trigger

	// The burst raises the flash by the gain; the same tick's decay then
	// applies once.
	want := DefaultFlashGain * DefaultFlashDecay
	if got := g.Flash(); math.Abs(got-want) > 1e-9 {
		t.Fatalf("flash after burst tick = %v, want %v", got, want)
	}

	g.Tick(nil)
	want *= DefaultFlashDecay
	if got := g.Flash(); math.Abs(got-want) > 1e-9 {
		t.Errorf("flash after one more tick = %v, want %v", got, want)
	}
}

func TestEngine_FlashClampedAtOne(t *testing.T) {
	g := testEngine(10)
	g.flash = 0.9

	key := Key{0, 1}
	g.Tick([]TrackedPoint{pt(key, 500, 500)})
	g.Tick([]TrackedPoint{pt(key, 580, 500)}) // arms, emitter at 520
	g.flash = 0.9 // restore after the ticks above decayed it
	g.Tick([]TrackedPoint{pt(key, 532, 500)}) // speed 3: trigger

	// 0.9 + 0.5 clamps to 1.0 before the tick's decay.
	if got, want := g.Flash(), 1.0*DefaultFlashDecay; math.Abs(got-want) > 1e-9 {
		t.Errorf("flash = %v, want %v", got, want)
	}
}

func TestEngine_EmptyInputDrainsCleanly(t *testing.T) {
	g := testEngine(11)
	key := Key{0, 1}

	// Paint a few trails, then drive the engine with no input until the
	// population decays away.
	x := 500.0
	g.Tick([]TrackedPoint{pt(key, x, 500)})
	for i := 0; i < 10; i++ {
		x += 32
		g.Tick([]TrackedPoint{pt(key, x, 500)})
	}
	if len(g.Particles()) == 0 {
		t.Fatal("expected some particles before draining")
	}

	// Longest possible trail lifespan is 1/trailDecayMin ticks.
	for i := 0; i < int(1.0/trailDecayMin)+1; i++ {
		g.Tick(nil)
	}

	if got := len(g.Particles()); got != 0 {
		t.Errorf("particles after draining = %d, want 0", got)
	}
	if got := g.EmitterCount(); got != 0 {
		t.Errorf("emitter count after draining = %d, want 0", got)
	}
}

func TestEngine_MirroredTargetMapping(t *testing.T) {
	g := testEngine(12)
	key := Key{0, 0}

	// Normalized (0.2, 0.3) lands at ((1-0.2)*W, 0.3*H) on the mirrored
	// display.
	g.Tick([]TrackedPoint{{Key: key, X: 0.2, Y: 0.3}})

	states := g.Emitters()
	if len(states) != 1 {
		t.Fatalf("emitter states = %d, want 1", len(states))
	}
	if got, want := states[0].X, 0.8*testW; math.Abs(got-want) > 1e-9 {
		t.Errorf("emitter X = %v, want %v", got, want)
	}
	if got, want := states[0].Y, 0.3*testH; math.Abs(got-want) > 1e-9 {
		t.Errorf("emitter Y = %v, want %v", got, want)
	}
}

func TestEmitter_Smooth(t *testing.T) {
	e := &Emitter{X: 100, Y: 100}

	e.Smooth(200, 100, 0.25)

	if e.X != 125 || e.Y != 100 {
		t.Errorf("position = (%v, %v), want (125, 100)", e.X, e.Y)
	}
	if e.VX != 25 || e.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (25, 0)", e.VX, e.VY)
	}
	if e.Speed() != 25 {
		t.Errorf("speed = %v, want 25", e.Speed())
	}
}
