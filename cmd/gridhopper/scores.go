package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/platform/tui"
	"github.com/vovakirdan/gridhopper/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse recorded training runs",
	Long: `Open the training run browser: recent runs, best completions per
map, filterable by map.

Controls:
  Up/Down/j/k  - Scroll runs
  Tab/Left/Right - Switch map filter
  V            - Toggle recent / best view
  Q/Ctrl+C     - Quit

Examples:
  gridhopper scores
  gridhopper scores --limit 20
  gridhopper scores --db ./gridhopper.db`,
	Run: runScoresCmd,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 0, "Runs to show per view (default 50)")
}

func runScoresCmd(_ *cobra.Command, _ []string) {
	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = config.DefaultTrainingConfig().Database
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.RunScores(store, flagScoresLimit, width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
