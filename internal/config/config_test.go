package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Table.Width != 600 || cfg.Table.Height != 300 {
		t.Errorf("expected 600x300 table, got %vx%v", cfg.Table.Width, cfg.Table.Height)
	}
	if cfg.Physics.Friction != 0.99 {
		t.Errorf("expected friction 0.99, got %v", cfg.Physics.Friction)
	}
	if len(cfg.Balls) != 3 {
		t.Errorf("expected 3 balls, got %d", len(cfg.Balls))
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s: nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_FreshCopy(t *testing.T) {
	a := GetPreset("default")
	a.Balls[0].X = 1
	if b := GetPreset("default"); b.Balls[0].X != 100 {
		t.Errorf("preset mutated through a previous copy: %v", b.Balls[0].X)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Table.Width = 0 }},
		{"bad background", func(c *Config) { c.Table.Background = "brown" }},
		{"zero friction", func(c *Config) { c.Physics.Friction = 0 }},
		{"friction above one", func(c *Config) { c.Physics.Friction = 1.2 }},
		{"negative epsilon", func(c *Config) { c.Physics.RestEpsilon = -1 }},
		{"zero impulse", func(c *Config) { c.Input.ImpulseScale = 0 }},
		{"no balls", func(c *Config) { c.Balls = nil }},
		{"zero radius", func(c *Config) { c.Balls[0].Radius = 0 }},
		{"bad color", func(c *Config) { c.Balls[1].Color = "#12345" }},
		{"off table", func(c *Config) { c.Balls[2].X = 595 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	cfg := GetPreset("corners")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Physics.Friction != 0.995 {
		t.Errorf("expected friction 0.995, got %v", loaded.Physics.Friction)
	}
	if len(loaded.Balls) != 4 || loaded.Balls[3].Color != "#FFFF00" {
		t.Errorf("unexpected balls %+v", loaded.Balls)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "physics:\n  friction: 0.9\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Physics.Friction != 0.9 {
		t.Errorf("expected friction 0.9, got %v", cfg.Physics.Friction)
	}
	if cfg.Physics.RestEpsilon != DefaultRestEpsilon {
		t.Errorf("expected default epsilon, got %v", cfg.Physics.RestEpsilon)
	}
	if len(cfg.Balls) != 3 {
		t.Errorf("expected default balls, got %d", len(cfg.Balls))
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "balls:\n  - {x: 10, y: 10, radius: 5, color: nope}\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestBuilders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Friction = 0.95

	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if reg.Len() != 3 {
		t.Errorf("expected 3 balls, got %d", reg.Len())
	}
	b, _ := reg.At(2)
	if b.Color.String() != "#008000" {
		t.Errorf("expected green ball, got %s", b.Color)
	}

	s := cfg.Stepper()
	if s.Friction != 0.95 || s.Width != 600 || s.Height != 300 {
		t.Errorf("unexpected stepper %+v", s)
	}
	if cfg.TableSpec().Background.String() != "#A52A2A" {
		t.Errorf("unexpected background %s", cfg.TableSpec().Background)
	}
}

func TestResolve(t *testing.T) {
	cfg, err := Resolve("", "")
	if err != nil || len(cfg.Balls) != 3 {
		t.Errorf("expected defaults, got %v %v", cfg, err)
	}

	cfg, err = Resolve("", "rack")
	if err != nil || len(cfg.Balls) != 7 {
		t.Errorf("expected rack preset, got %v %v", cfg, err)
	}

	if _, err := Resolve("", "missing"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
