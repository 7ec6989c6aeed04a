package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/phuljhari/internal/detector"
	"github.com/ayusman/phuljhari/internal/metrics"
	"github.com/ayusman/phuljhari/internal/spark"
)

// runPipeline is the frame loop. One ticker, one goroutine, one tick at a
// time: the engine and the frame are only ever touched from here.
//
// Per tick:
//  1. Read a camera frame.
//  2. Detect hands on the raw frame and collect fingertip points.
//  3. Mirror the frame for the selfie view.
//  4. Advance the particle engine.
//  5. Composite flash and particles onto the mirrored frame.
//  6. Publish the frame to the stream hub and the recorder, and the tick
//     summary to the state hub.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	interval := time.Second / time.Duration(a.camera.FPS())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.step()
		}
	}
}

// step processes exactly one frame.
func (a *App) step() {
	start := time.Now()

	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return
	}
	defer frame.Close()

	// Detection sees the raw frame; the effect and the viewer see the
	// mirrored one. The engine's coordinate mapping undoes the mirror.
	var points []spark.TrackedPoint
	if a.IsEnabled() {
		hands, err := a.detector.Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
			metrics.DetectionErrors.Inc()
		} else {
			points = trackedPoints(hands)
		}
	}

	a.renderer.Mirror(frame)
	a.engine.Tick(points)
	a.renderer.Draw(frame, a.engine.Particles(), a.engine.Flash())

	a.publishFrame(frame)

	recording := false
	if a.recorder != nil {
		recording = a.recorder.IsRecording()
		if err := a.recorder.Write(frame); err != nil {
			log.Printf("Error recording frame: %v", err)
		}
	}

	a.states.Publish(EffectState{
		Emitters:  a.engine.Emitters(),
		Particles: len(a.engine.Particles()),
		Flash:     a.engine.Flash(),
		Bursts:    a.engine.LastBursts(),
		Recording: recording,
		Timestamp: time.Now().UnixMilli(),
	})

	metrics.FramesProcessed.Inc()
	metrics.LiveParticles.Set(float64(len(a.engine.Particles())))
	metrics.ActiveEmitters.Set(float64(a.engine.EmitterCount()))
	metrics.BurstsTotal.Add(float64(a.engine.LastBursts()))
	metrics.TickDuration.Observe(time.Since(start).Seconds())
}

// publishFrame encodes the composited frame as JPEG and hands it to the
// stream hub.
func (a *App) publishFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
		return
	}
	defer buf.Close()

	// The buffer is freed on Close; the hub needs its own copy.
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	a.frames.Publish(jpeg)
}

// trackedPoints maps detected hands to fingertip tracking input: one point
// per (hand, finger) slot, in normalized coordinates.
func trackedPoints(hands []detector.HandLandmarks) []spark.TrackedPoint {
	if len(hands) == 0 {
		return nil
	}

	points := make([]spark.TrackedPoint, 0, len(hands)*detector.NumFingertips)
	for h := range hands {
		tips := hands[h].Fingertips()
		for f, tip := range tips {
			points = append(points, spark.TrackedPoint{
				Key: spark.Key{Hand: h, Finger: f},
				X:   tip.X,
				Y:   tip.Y,
			})
		}
	}
	return points
}
