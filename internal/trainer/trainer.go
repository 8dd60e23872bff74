// Package trainer drives the Q-learning loop against the platformer
// simulation: frame-skip action holding, learning windows, episode resets
// and run statistics.
package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/game"
)

// Config holds the training loop parameters.
type Config struct {
	Generations int `yaml:"generations"` // Episodes to run before stopping
	MaxSteps    int `yaml:"max_steps"`   // Hard per-episode tick cap
	FrameSkip   int `yaml:"frame_skip"`  // Ticks each chosen action is held
}

// DefaultConfig returns the standard training parameters.
func DefaultConfig() Config {
	return Config{
		Generations: 100000,
		MaxSteps:    1500,
		FrameSkip:   4,
	}
}

// Stats accumulates over a whole training run.
type Stats struct {
	Generation  int           // Finished episodes
	WinCount    int           // Episodes that reached the goal
	TotalReward float64       // Reward summed over every tick of the run
	LastReward  float64       // Reward of the most recently finished episode
	BestSteps   int           // Fastest completion so far, 0 before the first win
	Epsilon     float64       // Current exploration rate
	States      int           // Q-table size
	Elapsed     time.Duration // Wall time since the trainer was created
}

// Episode summarizes one finished episode for reporting hooks.
type Episode struct {
	Generation int     // 1-based index of the episode
	Steps      int     // Physics ticks the episode lasted
	Reward     float64 // Reward accumulated during the episode
	Coins      int     // Coins collected
	Won        bool    // Reached the goal
	Died       bool    // Touched a hazard
	Epsilon    float64 // Exploration rate the episode ran with
	States     int     // Q-table size after the episode
}

// Trainer couples one game with one agent and advances them tick by tick.
// It is not safe for concurrent use.
type Trainer struct {
	// OnEpisode, when set, runs after every finished episode with its
	// summary, before the game resets for the next one.
	OnEpisode func(Episode)

	game  *game.Game
	agent *agent.Agent
	cfg   Config

	// Frame-skip window: the action chosen at the window start is held
	// and its rewards accumulate until the window closes.
	state         agent.StateKey
	action        game.Action
	skipCounter   int
	accumReward   float64
	episodeReward float64
	lastReward    float64

	startedAt time.Time
	stats     Stats
}

// New creates a trainer for the game and agent. Zero config fields fall
// back to the defaults.
func New(g *game.Game, a *agent.Agent, cfg Config) *Trainer {
	def := DefaultConfig()
	if cfg.Generations <= 0 {
		cfg.Generations = def.Generations
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.FrameSkip <= 0 {
		cfg.FrameSkip = def.FrameSkip
	}
	return &Trainer{game: g, agent: a, cfg: cfg, startedAt: time.Now()}
}

// Tick advances training by one physics tick.
//
// A new action is chosen at the start of each frame-skip window and held for
// the whole window. One learning update fires when the window fills or the
// episode ends, carrying the window's summed reward. An episode cut only by
// the step cap skips the update and drops the partial window.
func (t *Trainer) Tick() error {
	if t.skipCounter == 0 {
		t.state = agent.StateKey(t.game.Observe().Key())
		t.action = game.Action(t.agent.ChooseAction(t.state))
		t.accumReward = 0
	}

	res, err := t.game.Step(t.action)
	if err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	done := res.Done
	t.stats.TotalReward += res.Reward
	t.episodeReward += res.Reward
	t.accumReward += res.Reward
	t.skipCounter++

	if t.skipCounter >= t.cfg.FrameSkip || done {
		t.agent.Learn(agent.Transition{
			State:  t.state,
			Action: int(t.action),
			Reward: t.accumReward,
			Next:   agent.StateKey(res.Obs.Key()),
			Done:   done,
		})
		t.skipCounter = 0
	}

	if t.game.Steps() > t.cfg.MaxSteps || t.game.Completed() || t.game.GameOver() {
		if t.game.Completed() {
			t.stats.WinCount++
		}
		done = true
	}

	if done {
		t.finishEpisode()
	}
	return nil
}

// finishEpisode reports the episode, decays exploration and restarts the
// game for the next generation.
func (t *Trainer) finishEpisode() {
	t.stats.Generation++

	if t.OnEpisode != nil {
		t.OnEpisode(Episode{
			Generation: t.stats.Generation,
			Steps:      t.game.Steps(),
			Reward:     t.episodeReward,
			Coins:      t.game.Coins(),
			Won:        t.game.Completed(),
			Died:       t.game.GameOver(),
			Epsilon:    t.agent.Epsilon(),
			States:     t.agent.States(),
		})
	}

	t.lastReward = t.episodeReward
	t.skipCounter = 0
	t.accumReward = 0
	t.episodeReward = 0
	t.agent.DecayEpsilon()
	t.game.Reset()
}

// Run ticks until the configured number of generations has finished or the
// context is cancelled.
func (t *Trainer) Run(ctx context.Context) error {
	for t.stats.Generation < t.cfg.Generations {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := t.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns a snapshot of the run statistics.
func (t *Trainer) Stats() Stats {
	s := t.stats
	s.LastReward = t.lastReward
	if best, ok := t.game.BestSteps(); ok {
		s.BestSteps = best
	}
	s.Epsilon = t.agent.Epsilon()
	s.States = t.agent.States()
	s.Elapsed = time.Since(t.startedAt)
	return s
}

// Game returns the game the trainer drives.
func (t *Trainer) Game() *game.Game { return t.game }

// Agent returns the agent being trained.
func (t *Trainer) Agent() *agent.Agent { return t.agent }

// CurrentAction returns the action held for the current frame-skip window.
func (t *Trainer) CurrentAction() game.Action { return t.action }
