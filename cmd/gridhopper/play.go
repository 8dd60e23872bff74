package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/game"
	"github.com/vovakirdan/gridhopper/internal/level"
	"github.com/vovakirdan/gridhopper/internal/platform/tui"
)

var (
	flagPlayConfig string
	flagPlayFPS    int
)

var playCmd = &cobra.Command{
	Use:   "play [map]",
	Short: "Play a map yourself",
	Long: `Play a map with the keyboard, using the same physics the agent
trains against.

Controls:
  Left/A/H    - Run left
  Right/D/L   - Run right
  Space/W/Up  - Jump
  P           - Pause
  R           - Restart
  Q/Ctrl+C    - Quit

Examples:
  gridhopper play
  gridhopper play chasm
  gridhopper play ./my-map.txt --fps 60
  gridhopper play --config ./my-play.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlayCmd,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayConfig, "config", "", "Path to custom play config YAML")
	playCmd.Flags().IntVar(&flagPlayFPS, "fps", 0, "Physics ticks per second (overrides config)")
}

func runPlayCmd(_ *cobra.Command, args []string) {
	cfg, err := config.LoadPlay(flagPlayConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(args) > 0 {
		cfg.Map = args[0]
	}
	if flagPlayFPS > 0 {
		cfg.TickRate = flagPlayFPS
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
	if err := tui.RunPlay(g, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
