package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridhopper/internal/agent"
	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/level"
	"github.com/vovakirdan/gridhopper/internal/platform/tui"
)

var (
	flagWatchConfig string
	flagWatchQTable string
	flagWatchFPS    int
)

var watchCmd = &cobra.Command{
	Use:   "watch [map]",
	Short: "Watch the trained agent play",
	Long: `Load a trained Q-table and replay its policy in the terminal. The
agent picks the highest-valued action every tick; episodes restart
automatically when they end.

Controls:
  Space/P     - Pause
  +/-         - Speed up / slow down
  Q/Ctrl+C    - Quit

Examples:
  gridhopper watch
  gridhopper watch chasm
  gridhopper watch --qtable ./qtable.json --fps 60`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchConfig, "config", "", "Path to custom play config YAML")
	watchCmd.Flags().StringVar(&flagWatchQTable, "qtable", "", "Q-table JSON path (overrides config)")
	watchCmd.Flags().IntVar(&flagWatchFPS, "fps", 0, "Physics ticks per second (overrides config)")
}

func runWatch(_ *cobra.Command, args []string) {
	cfg, err := config.LoadPlay(flagWatchConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(args) > 0 {
		cfg.Map = args[0]
	}
	if flagWatchQTable != "" {
		cfg.QTable = flagWatchQTable
	}
	if flagWatchFPS > 0 {
		cfg.TickRate = flagWatchFPS
	}
	if flagNoColor {
		cfg.Colors = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tmap, err := level.Resolve(cfg.Map)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	g := game.New(tmap, cfg.Game)

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	a := agent.New(agent.DefaultConfig(), rand.New(rand.NewSource(seed)))

	if cfg.QTable != "" {
		path, pathErr := config.ExpandHome(cfg.QTable)
		if pathErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", pathErr)
			os.Exit(1)
		}
		if loadErr := a.Load(path); loadErr != nil {
			if !errors.Is(loadErr, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", loadErr)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Warning: no q-table at %s, the agent is untrained\n", path)
		}
	}

	if err := tui.RunWatch(g, a, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running watch: %v\n", err)
		os.Exit(1)
	}
}
