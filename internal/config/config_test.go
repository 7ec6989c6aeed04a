package config

import (
	"testing"

	"github.com/ayusman/phuljhari/internal/spark"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.FPS != 30 {
		t.Errorf("FPS = %d, want 30", cfg.FPS)
	}
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("resolution = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.InertiaFactor != spark.DefaultInertiaFactor {
		t.Errorf("InertiaFactor = %v, want %v", cfg.InertiaFactor, spark.DefaultInertiaFactor)
	}
	if cfg.BurstArmSpeed <= cfg.BurstTriggerSpeed {
		t.Error("default arm speed must exceed trigger speed")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, false},
		{"zero fps", func(c *Config) { c.FPS = 0 }, false},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"inertia above one", func(c *Config) { c.InertiaFactor = 1.5 }, false},
		{"inertia zero", func(c *Config) { c.InertiaFactor = 0 }, false},
		{"arm below trigger", func(c *Config) { c.BurstArmSpeed = 2; c.BurstTriggerSpeed = 5 }, false},
		{"arm equals trigger", func(c *Config) { c.BurstArmSpeed = 5; c.BurstTriggerSpeed = 5 }, false},
		{"flash decay one", func(c *Config) { c.FlashDecay = 1 }, false},
		{"bad trail color", func(c *Config) { c.TrailPalette = []string{"nope"} }, false},
		{"good palettes", func(c *Config) {
			c.TrailPalette = []string{"#ffdc78", "#fff0b4"}
			c.BurstPalette = []string{"#ff5050"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestPaletteParsing(t *testing.T) {
	cfg := New()
	cfg.TrailPalette = []string{"#ffdc78", "ff0000"}

	colors, err := cfg.TrailColors()
	if err != nil {
		t.Fatalf("TrailColors() error = %v", err)
	}

	want := []spark.Color{
		{R: 0xff, G: 0xdc, B: 0x78},
		{R: 0xff, G: 0x00, B: 0x00},
	}
	for i, w := range want {
		if colors[i] != w {
			t.Errorf("color %d = %+v, want %+v", i, colors[i], w)
		}
	}
}

func TestPaletteParsing_EmptyMeansDefault(t *testing.T) {
	cfg := New()

	colors, err := cfg.TrailColors()
	if err != nil {
		t.Fatalf("TrailColors() error = %v", err)
	}
	if colors != nil {
		t.Errorf("empty palette should parse to nil (engine default), got %v", colors)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PHULJHARI_FPS", "24")
	t.Setenv("PHULJHARI_BURST_ARM_SPEED", "18")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FPS != 24 {
		t.Errorf("FPS = %d, want 24 from env", cfg.FPS)
	}
	if cfg.BurstArmSpeed != 18 {
		t.Errorf("BurstArmSpeed = %v, want 18 from env", cfg.BurstArmSpeed)
	}
	// Untouched keys keep their defaults.
	if cfg.Width != 1280 {
		t.Errorf("Width = %d, want default 1280", cfg.Width)
	}
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("PHULJHARI_BURST_ARM_SPEED", "1")
	t.Setenv("PHULJHARI_BURST_TRIGGER_SPEED", "5")

	if _, err := Load(); err == nil {
		t.Error("Load() = nil error, want validation failure")
	}
}
