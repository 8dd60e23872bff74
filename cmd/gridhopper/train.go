package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/level"
	"github.com/vovakirdan/gridhopper/internal/storage"
	"github.com/vovakirdan/gridhopper/internal/trainer"
)

var (
	flagTrainConfig string
	flagTrainMap    string
	flagGenerations int
	flagMaxSteps    int
	flagTrainQTable string
	flagResume      bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the agent on a map",
	Long: `Run the headless training loop: the agent plays the map over and
over, learning a policy that is checkpointed to a Q-table file. Progress
is logged periodically and the finished run is recorded in the database.

Press Ctrl+C to stop early; the Q-table is saved before exiting.

Examples:
  gridhopper train
  gridhopper train --map chasm --generations 20000
  gridhopper train --resume --qtable ./qtable.json
  gridhopper train --config ./my-training.yaml`,
	Run: runTrain,
}

func init() {
	trainCmd.Flags().StringVar(&flagTrainConfig, "config", "", "Path to custom training config YAML")
	trainCmd.Flags().StringVar(&flagTrainMap, "map", "", "Map to train on: builtin name or file path (overrides config)")
	trainCmd.Flags().IntVar(&flagGenerations, "generations", 0, "Episodes to run (overrides config)")
	trainCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Per-episode tick cap (overrides config)")
	trainCmd.Flags().StringVar(&flagTrainQTable, "qtable", "", "Q-table JSON path (overrides config)")
	trainCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue from an existing Q-table")
}

func runTrain(_ *cobra.Command, _ []string) {
	cfg, err := config.LoadTraining(flagTrainConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flag overrides
	if flagTrainMap != "" {
		cfg.Map = flagTrainMap
	}
	if flagGenerations > 0 {
		cfg.Trainer.Generations = flagGenerations
	}
	if flagMaxSteps > 0 {
		cfg.Trainer.MaxSteps = flagMaxSteps
	}
	if flagTrainQTable != "" {
		cfg.QTable = flagTrainQTable
	}
	if flagDBPath != "" {
		cfg.Database = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Seed = flagSeed
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "train",
	})

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	tmap, err := level.Resolve(cfg.Map)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g := game.New(tmap, cfg.Game)
	a := agent.New(cfg.Agent, rng)

	qtablePath, err := config.ExpandHome(cfg.QTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(filepath.Dir(qtablePath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create %s: %v\n", filepath.Dir(qtablePath), err)
		os.Exit(1)
	}

	if flagResume {
		if err := a.Load(qtablePath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			logger.Warn("no q-table to resume from, starting fresh", "path", qtablePath)
		} else {
			logger.Info("resumed from q-table", "path", qtablePath, "states", a.States(), "epsilon", a.Epsilon())
		}
	}

	// Open run history storage
	var store *storage.Store
	var runID int64
	if cfg.Database != "" {
		store, err = storage.Open(cfg.Database)
		if err != nil {
			logger.Warn("could not open run database", "error", err)
			store = nil
			// Training still works without history
		}
	}
	if store != nil {
		runID, err = store.CreateRun(cfg.Map)
		if err != nil {
			logger.Warn("could not record run", "error", err)
			store.Close()
			store = nil
		}
	}

	tr := trainer.New(g, a, cfg.Trainer)
	tr.OnEpisode = func(ep trainer.Episode) {
		report := cfg.ReportEvery > 0 && ep.Generation%cfg.ReportEvery == 0

		// Wins are always recorded; the rest is sampled at the report rate.
		if store != nil && (ep.Won || report) {
			if _, recErr := store.RecordEpisode(runID, storage.EpisodeRecord{
				Generation: ep.Generation,
				Steps:      ep.Steps,
				Reward:     ep.Reward,
				Coins:      ep.Coins,
				Won:        ep.Won,
				Died:       ep.Died,
				Epsilon:    ep.Epsilon,
			}); recErr != nil {
				logger.Warn("could not record episode", "error", recErr)
			}
		}

		if report {
			s := tr.Stats()
			logger.Info("progress",
				"generation", ep.Generation,
				"wins", s.WinCount,
				"epsilon", fmt.Sprintf("%.3f", ep.Epsilon),
				"states", ep.States,
				"reward", fmt.Sprintf("%.1f", ep.Reward),
				"best_steps", s.BestSteps,
			)
		}

		if cfg.CheckpointEvery > 0 && ep.Generation%cfg.CheckpointEvery == 0 {
			if saveErr := a.Save(qtablePath); saveErr != nil {
				logger.Warn("checkpoint failed", "error", saveErr)
			} else {
				logger.Info("checkpoint saved", "path", qtablePath, "states", ep.States)
			}
		}
	}

	logger.Info("training started",
		"map", cfg.Map,
		"generations", cfg.Trainer.Generations,
		"max_steps", cfg.Trainer.MaxSteps,
		"seed", seed,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := tr.Run(ctx)
	interrupted := errors.Is(runErr, context.Canceled)
	if interrupted {
		logger.Info("interrupted, saving checkpoint")
	}

	if err := a.Save(qtablePath); err != nil {
		logger.Error("cannot save q-table", "error", err)
	}

	s := tr.Stats()
	if store != nil {
		if err := store.FinishRun(runID, storage.RunSummary{
			Generations: s.Generation,
			Wins:        s.WinCount,
			TotalReward: s.TotalReward,
			States:      s.States,
			Epsilon:     s.Epsilon,
			BestSteps:   s.BestSteps,
		}); err != nil {
			logger.Warn("could not finish run record", "error", err)
		}
		store.Close()
	}

	logger.Info("training finished",
		"generations", s.Generation,
		"wins", s.WinCount,
		"states", s.States,
		"best_steps", s.BestSteps,
		"elapsed", s.Elapsed.Round(time.Second),
		"qtable", qtablePath,
	)

	if runErr != nil && !interrupted {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
