// Package config loads application configuration from defaults, an optional
// YAML file, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ayusman/phuljhari/internal/spark"
)

// Config holds all tunables. Everything is fixed at process start; there is
// no runtime reconfiguration.
type Config struct {
	CameraID int    `koanf:"camera_id"`
	Width    int    `koanf:"width"`
	Height   int    `koanf:"height"`
	FPS      int    `koanf:"fps"`
	Addr     string `koanf:"addr"`

	// DataDir holds the recordings database and exported video files.
	DataDir   string `koanf:"data_dir"`
	StaticDir string `koanf:"static_dir"`

	InertiaFactor      float64 `koanf:"inertia_factor"`
	DrawSpeedThreshold float64 `koanf:"draw_speed_threshold"`
	BurstArmSpeed      float64 `koanf:"burst_arm_speed"`
	BurstTriggerSpeed  float64 `koanf:"burst_trigger_speed"`
	BurstBatchSize     int     `koanf:"burst_batch_size"`

	// Palettes are lists of "#rrggbb" strings.
	TrailPalette []string `koanf:"trail_palette"`
	BurstPalette []string `koanf:"burst_palette"`

	FlashGain  float64 `koanf:"flash_gain"`
	FlashDecay float64 `koanf:"flash_decay"`
}

// New returns the default configuration.
func New() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		CameraID: 0,
		Width:    1280,
		Height:   720,
		FPS:      30,
		Addr:     ":8080",
		DataDir:  filepath.Join(home, ".phuljhari"),

		InertiaFactor:      spark.DefaultInertiaFactor,
		DrawSpeedThreshold: spark.DefaultDrawSpeedThreshold,
		BurstArmSpeed:      spark.DefaultBurstArmSpeed,
		BurstTriggerSpeed:  spark.DefaultBurstTriggerSpeed,
		BurstBatchSize:     spark.DefaultBurstBatchSize,

		FlashGain:  spark.DefaultFlashGain,
		FlashDecay: spark.DefaultFlashDecay,
	}
}

// Validate checks the constraints the effect depends on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.InertiaFactor <= 0 || c.InertiaFactor > 1 {
		return fmt.Errorf("inertia_factor must be in (0, 1], got %v", c.InertiaFactor)
	}
	// Arm above trigger is what makes the flick gesture a hysteresis: a
	// single threshold would fire on every fast tick.
	if c.BurstArmSpeed <= c.BurstTriggerSpeed {
		return fmt.Errorf("burst_arm_speed (%v) must exceed burst_trigger_speed (%v)",
			c.BurstArmSpeed, c.BurstTriggerSpeed)
	}
	if c.FlashDecay <= 0 || c.FlashDecay >= 1 {
		return fmt.Errorf("flash_decay must be in (0, 1), got %v", c.FlashDecay)
	}
	if _, err := c.TrailColors(); err != nil {
		return err
	}
	if _, err := c.BurstColors(); err != nil {
		return err
	}
	return nil
}

// TrailColors parses the trail palette; an empty palette means the built-in
// default.
func (c *Config) TrailColors() ([]spark.Color, error) {
	return parsePalette(c.TrailPalette)
}

// BurstColors parses the burst palette; an empty palette means the built-in
// default.
func (c *Config) BurstColors() ([]spark.Color, error) {
	return parsePalette(c.BurstPalette)
}

func parsePalette(hexes []string) ([]spark.Color, error) {
	if len(hexes) == 0 {
		return nil, nil
	}
	colors := make([]spark.Color, len(hexes))
	for i, h := range hexes {
		c, err := parseHexColor(h)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

func parseHexColor(s string) (spark.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return spark.Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(h, "%02x%02x%02x", &r, &g, &b); err != nil {
		return spark.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return spark.Color{R: r, G: g, B: b}, nil
}
