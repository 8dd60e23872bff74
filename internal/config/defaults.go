package config

import (
	_ "embed"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/trainer"
)

//go:embed defaults/training.yaml
var defaultTrainingYAML []byte

//go:embed defaults/play.yaml
var defaultPlayYAML []byte

// DefaultTrainingConfig returns the default training configuration.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Map:             "obstacles",
		QTable:          "~/.gridhopper/qtable.json",
		Database:        "~/.gridhopper/gridhopper.db",
		ReportEvery:     500,
		CheckpointEvery: 5000,
		Seed:            0,
		Trainer:         trainer.DefaultConfig(),
		Game:            game.DefaultConfig(),
		Agent:           agent.DefaultConfig(),
	}
}

// DefaultPlayConfig returns the default interactive session configuration.
func DefaultPlayConfig() PlayConfig {
	return PlayConfig{
		Map:      "obstacles",
		QTable:   "~/.gridhopper/qtable.json",
		TickRate: 30,
		Colors:   true,
		Game:     game.DefaultConfig(),
	}
}

// GetDefaultYAML returns the embedded default YAML for a config kind.
func GetDefaultYAML(kind string) []byte {
	switch kind {
	case "training":
		return defaultTrainingYAML
	case "play":
		return defaultPlayYAML
	default:
		return nil
	}
}
