// Package config loads and validates the YAML configuration for training
// and interactive sessions. Each loader searches a custom path, the user
// config directory, the local configs directory and finally the embedded
// defaults.
package config

import (
	"fmt"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/trainer"
)

// TrainingConfig contains all configuration for a training run.
type TrainingConfig struct {
	Map             string `yaml:"map"`              // Builtin map name or path to a map file
	QTable          string `yaml:"qtable"`           // Where Q-table checkpoints are written
	Database        string `yaml:"database"`         // SQLite run history location, empty disables it
	ReportEvery     int    `yaml:"report_every"`     // Episodes between progress logs
	CheckpointEvery int    `yaml:"checkpoint_every"` // Episodes between Q-table saves
	Seed            int64  `yaml:"seed"`             // RNG seed, 0 picks one from the clock

	Trainer trainer.Config `yaml:"trainer"`
	Game    game.Config    `yaml:"game"`
	Agent   agent.Config   `yaml:"agent"`
}

// PlayConfig contains all configuration for interactive and watch sessions.
type PlayConfig struct {
	Map      string      `yaml:"map"`       // Builtin map name or path to a map file
	QTable   string      `yaml:"qtable"`    // Q-table read by watch sessions
	TickRate int         `yaml:"tick_rate"` // Physics ticks per second in the terminal
	Colors   bool        `yaml:"colors"`    // Style the playfield with ANSI colors
	Game     game.Config `yaml:"game"`
}

// Validate checks the training configuration for values the simulation
// cannot run with.
func (c TrainingConfig) Validate() error {
	if c.Map == "" {
		return fmt.Errorf("config: map must not be empty")
	}
	if c.Trainer.Generations < 1 {
		return fmt.Errorf("config: trainer.generations must be at least 1, got %d", c.Trainer.Generations)
	}
	if c.Trainer.MaxSteps < 1 {
		return fmt.Errorf("config: trainer.max_steps must be at least 1, got %d", c.Trainer.MaxSteps)
	}
	if c.Trainer.FrameSkip < 1 {
		return fmt.Errorf("config: trainer.frame_skip must be at least 1, got %d", c.Trainer.FrameSkip)
	}
	if err := validateGame(c.Game); err != nil {
		return err
	}
	return validateAgent(c.Agent)
}

// Validate checks the play configuration for values the simulation cannot
// run with.
func (c PlayConfig) Validate() error {
	if c.Map == "" {
		return fmt.Errorf("config: map must not be empty")
	}
	if c.TickRate < 1 {
		return fmt.Errorf("config: tick_rate must be at least 1, got %d", c.TickRate)
	}
	return validateGame(c.Game)
}

func validateGame(g game.Config) error {
	if g.Physics.TileSize < 1 {
		return fmt.Errorf("config: game.physics.tile_size must be at least 1, got %d", g.Physics.TileSize)
	}
	if g.Physics.MoveSpeed <= 0 {
		return fmt.Errorf("config: game.physics.move_speed must be positive, got %v", g.Physics.MoveSpeed)
	}
	if g.Physics.MaxFallSpeed <= 0 {
		return fmt.Errorf("config: game.physics.max_fall_speed must be positive, got %v", g.Physics.MaxFallSpeed)
	}
	if g.VisionRadius < 1 {
		return fmt.Errorf("config: game.vision_radius must be at least 1, got %d", g.VisionRadius)
	}
	if g.StagnationLimit < 1 {
		return fmt.Errorf("config: game.stagnation_limit must be at least 1, got %d", g.StagnationLimit)
	}
	return nil
}

func validateAgent(a agent.Config) error {
	if a.Alpha <= 0 || a.Alpha > 1 {
		return fmt.Errorf("config: agent.alpha must be in (0, 1], got %v", a.Alpha)
	}
	if a.Gamma < 0 || a.Gamma > 1 {
		return fmt.Errorf("config: agent.gamma must be in [0, 1], got %v", a.Gamma)
	}
	if a.Epsilon < 0 || a.Epsilon > 1 {
		return fmt.Errorf("config: agent.epsilon must be in [0, 1], got %v", a.Epsilon)
	}
	if a.EpsilonDecay <= 0 || a.EpsilonDecay > 1 {
		return fmt.Errorf("config: agent.epsilon_decay must be in (0, 1], got %v", a.EpsilonDecay)
	}
	if a.MinEpsilon < 0 || a.MinEpsilon > 1 {
		return fmt.Errorf("config: agent.min_epsilon must be in [0, 1], got %v", a.MinEpsilon)
	}
	return nil
}
