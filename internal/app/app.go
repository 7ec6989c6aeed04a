// Package app wires the camera, hand detector, particle engine, renderer
// and recorder into the per-frame effect pipeline.
package app

import (
	"log"
	"path/filepath"
	"sync"

	"github.com/ayusman/phuljhari/internal/capture"
	"github.com/ayusman/phuljhari/internal/config"
	"github.com/ayusman/phuljhari/internal/detector"
	"github.com/ayusman/phuljhari/internal/recorder"
	"github.com/ayusman/phuljhari/internal/render"
	"github.com/ayusman/phuljhari/internal/spark"
	"github.com/ayusman/phuljhari/internal/store"
)

// Config holds the application dependencies. Camera and Detector may be set
// for tests; when nil the real implementations are constructed from Effect.
type Config struct {
	Effect   *config.Config
	Store    *store.Store
	Camera   capture.Camera
	Detector detector.Detector
}

// App runs the effect pipeline and owns its collaborators.
type App struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	engine   *spark.Engine
	renderer *render.Renderer
	recorder *recorder.Recorder
	frames   *FrameHub
	states   *StateHub

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates an App from the given configuration.
func New(cfg Config) (*App, error) {
	effect := cfg.Effect
	if effect == nil {
		effect = config.New()
	}

	trail, err := effect.TrailColors()
	if err != nil {
		return nil, err
	}
	burst, err := effect.BurstColors()
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		engine: spark.New(spark.Options{
			Width:              float64(effect.Width),
			Height:             float64(effect.Height),
			InertiaFactor:      effect.InertiaFactor,
			DrawSpeedThreshold: effect.DrawSpeedThreshold,
			BurstArmSpeed:      effect.BurstArmSpeed,
			BurstTriggerSpeed:  effect.BurstTriggerSpeed,
			BurstBatchSize:     effect.BurstBatchSize,
			TrailPalette:       trail,
			BurstPalette:       burst,
			FlashGain:          effect.FlashGain,
			FlashDecay:         effect.FlashDecay,
		}),
		renderer: render.New(),
		frames:   NewFrameHub(),
		states:   NewStateHub(),
		enabled:  true,
	}

	a.camera = cfg.Camera
	if a.camera == nil {
		a.camera = capture.NewCamera(effect.CameraID, effect.Width, effect.Height, effect.FPS)
	}

	a.detector = cfg.Detector
	if a.detector == nil {
		// Try MediaPipe first, fall back to the mock detector so the app
		// still runs (with no tracking) when Python is unavailable.
		if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
			a.detector = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if cfg.Store != nil {
		rec, err := recorder.New(cfg.Store,
			filepath.Join(effect.DataDir, "recordings"),
			float64(effect.FPS), effect.Width, effect.Height)
		if err != nil {
			return nil, err
		}
		a.recorder = rec
	}

	return a, nil
}

// SetEnabled enables or disables the effect. While disabled the pipeline
// keeps streaming the mirrored camera feed but stops tracking hands; the
// existing particles decay away naturally.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the effect is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Frames returns the hub carrying the latest composited JPEG frame.
func (a *App) Frames() *FrameHub {
	return a.frames
}

// States returns the hub carrying the latest effect state.
func (a *App) States() *StateHub {
	return a.states
}

// Recorder returns the recorder, or nil when no store was configured.
func (a *App) Recorder() *recorder.Recorder {
	return a.recorder
}

// Start opens the camera and begins the pipeline loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Effect pipeline started")
	return nil
}

// Stop halts the pipeline and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh = nil
	a.doneCh = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			log.Printf("Error closing recorder: %v", err)
		}
	}
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Effect pipeline stopped")
}
