package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

// isolate points HOME at an empty directory so user configs on the
// machine running the tests cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadTrainingFallsBackToDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadTraining("")
	if err != nil {
		t.Fatalf("LoadTraining failed: %v", err)
	}
	if cfg.Map != "obstacles" {
		t.Errorf("Expected default map obstacles, got %q", cfg.Map)
	}
	if cfg.Trainer.Generations != 100000 {
		t.Errorf("Expected 100000 generations, got %d", cfg.Trainer.Generations)
	}
	if cfg.Agent.Alpha != 0.1 {
		t.Errorf("Expected alpha 0.1, got %v", cfg.Agent.Alpha)
	}
	if cfg.Game.Physics.TileSize != 32 {
		t.Errorf("Expected tile size 32, got %d", cfg.Game.Physics.TileSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadTrainingCustomPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "training.yaml")
	body := "map: chasm\nagent:\n  alpha: 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadTraining(path)
	if err != nil {
		t.Fatalf("LoadTraining failed: %v", err)
	}
	if cfg.Map != "chasm" {
		t.Errorf("Expected map chasm, got %q", cfg.Map)
	}
	if cfg.Agent.Alpha != 0.5 {
		t.Errorf("Expected alpha 0.5, got %v", cfg.Agent.Alpha)
	}

	// Fields missing from the file keep their defaults.
	if cfg.Agent.Gamma != 0.95 {
		t.Errorf("Expected gamma to stay 0.95, got %v", cfg.Agent.Gamma)
	}
	if cfg.Trainer.MaxSteps != 1500 {
		t.Errorf("Expected max steps to stay 1500, got %d", cfg.Trainer.MaxSteps)
	}
}

func TestLoadTrainingMissingCustomPath(t *testing.T) {
	isolate(t)

	if _, err := LoadTraining(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing custom config")
	}
}

func TestLoadTrainingMalformedCustomPath(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("map: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadTraining(path); err == nil {
		t.Error("Expected error for malformed custom config")
	}
}

func TestLoadTrainingUserConfigDir(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".gridhopper", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	body := "map: flat\nreport_every: 25\n"
	if err := os.WriteFile(filepath.Join(dir, "training.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadTraining("")
	if err != nil {
		t.Fatalf("LoadTraining failed: %v", err)
	}
	if cfg.Map != "flat" {
		t.Errorf("Expected map from user config, got %q", cfg.Map)
	}
	if cfg.ReportEvery != 25 {
		t.Errorf("Expected report_every 25, got %d", cfg.ReportEvery)
	}
}

func TestLoadTrainingLocalConfigDir(t *testing.T) {
	isolate(t)

	work := t.TempDir()
	if err := os.MkdirAll(filepath.Join(work, "configs"), 0o755); err != nil {
		t.Fatalf("Failed to create configs dir: %v", err)
	}
	body := "map: coins\n"
	if err := os.WriteFile(filepath.Join(work, "configs", "training.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Chdir(work)

	cfg, err := LoadTraining("")
	if err != nil {
		t.Fatalf("LoadTraining failed: %v", err)
	}
	if cfg.Map != "coins" {
		t.Errorf("Expected map from local config, got %q", cfg.Map)
	}
}

func TestLoadPlayFallsBackToDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadPlay("")
	if err != nil {
		t.Fatalf("LoadPlay failed: %v", err)
	}
	if cfg.Map != "obstacles" {
		t.Errorf("Expected default map obstacles, got %q", cfg.Map)
	}
	if cfg.TickRate != 30 {
		t.Errorf("Expected tick rate 30, got %d", cfg.TickRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	trainCfg := DefaultTrainingConfig()
	if err := yaml.Unmarshal(defaultTrainingYAML, &trainCfg); err != nil {
		t.Fatalf("Embedded training YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(trainCfg, DefaultTrainingConfig()) {
		t.Errorf("Embedded training defaults drifted from hardcoded ones:\n%+v\nvs\n%+v", trainCfg, DefaultTrainingConfig())
	}

	playCfg := DefaultPlayConfig()
	if err := yaml.Unmarshal(defaultPlayYAML, &playCfg); err != nil {
		t.Fatalf("Embedded play YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(playCfg, DefaultPlayConfig()) {
		t.Errorf("Embedded play defaults drifted from hardcoded ones:\n%+v\nvs\n%+v", playCfg, DefaultPlayConfig())
	}
}

func TestGetDefaultYAML(t *testing.T) {
	if GetDefaultYAML("training") == nil {
		t.Error("Expected embedded training YAML")
	}
	if GetDefaultYAML("play") == nil {
		t.Error("Expected embedded play YAML")
	}
	if GetDefaultYAML("bogus") != nil {
		t.Error("Expected nil for unknown kind")
	}
}

func TestValidateTraining(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TrainingConfig)
	}{
		{"empty map", func(c *TrainingConfig) { c.Map = "" }},
		{"zero generations", func(c *TrainingConfig) { c.Trainer.Generations = 0 }},
		{"zero max steps", func(c *TrainingConfig) { c.Trainer.MaxSteps = 0 }},
		{"zero frame skip", func(c *TrainingConfig) { c.Trainer.FrameSkip = 0 }},
		{"zero tile size", func(c *TrainingConfig) { c.Game.Physics.TileSize = 0 }},
		{"negative move speed", func(c *TrainingConfig) { c.Game.Physics.MoveSpeed = -1 }},
		{"zero fall speed", func(c *TrainingConfig) { c.Game.Physics.MaxFallSpeed = 0 }},
		{"zero vision radius", func(c *TrainingConfig) { c.Game.VisionRadius = 0 }},
		{"zero stagnation limit", func(c *TrainingConfig) { c.Game.StagnationLimit = 0 }},
		{"zero alpha", func(c *TrainingConfig) { c.Agent.Alpha = 0 }},
		{"alpha above one", func(c *TrainingConfig) { c.Agent.Alpha = 1.5 }},
		{"negative gamma", func(c *TrainingConfig) { c.Agent.Gamma = -0.1 }},
		{"epsilon above one", func(c *TrainingConfig) { c.Agent.Epsilon = 1.5 }},
		{"zero decay", func(c *TrainingConfig) { c.Agent.EpsilonDecay = 0 }},
		{"negative min epsilon", func(c *TrainingConfig) { c.Agent.MinEpsilon = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTrainingConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}

	if err := DefaultTrainingConfig().Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestValidatePlay(t *testing.T) {
	cfg := DefaultPlayConfig()
	cfg.TickRate = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for zero tick rate")
	}

	cfg = DefaultPlayConfig()
	cfg.Map = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for empty map")
	}
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	got, err := ExpandHome("~/qtable.json")
	if err != nil {
		t.Fatalf("ExpandHome failed: %v", err)
	}
	if want := filepath.Join(home, "qtable.json"); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	for _, path := range []string{"qtable.json", "/tmp/qtable.json", ""} {
		got, err := ExpandHome(path)
		if err != nil {
			t.Fatalf("ExpandHome(%q) failed: %v", path, err)
		}
		if got != path {
			t.Errorf("Expected %q unchanged, got %q", path, got)
		}
	}
}
