// gridhopper is a tile-based terminal platformer that a tabular Q-learning
// agent learns to clear. Train the agent headlessly, watch it play, or run
// the maps yourself.
//
// Usage:
//
//	gridhopper train         - Train the agent on a map
//	gridhopper play [map]    - Play a map yourself
//	gridhopper watch [map]   - Watch the trained agent play
//	gridhopper maps          - List builtin maps
//	gridhopper scores        - Browse recorded training runs
//	gridhopper serve         - Serve the watch TUI over SSH
//	gridhopper version       - Print the version
//
// Global flags:
//
//	--db <path>     - Run history database (default: ~/.gridhopper/gridhopper.db)
//	--seed <value>  - RNG seed for reproducible runs (0 = random based on time)
//	--no-color      - Disable colored output
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagDBPath  string
	flagSeed    int64
	flagNoColor bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridhopper",
	Short: "Gridhopper - a platformer your terminal learns to beat",
	Long: `Gridhopper is a tile-based platformer simulation paired with a
Q-learning agent. The same maps can be trained on, replayed by the
agent, or played by hand.

Available commands:
  train    - Train the agent headlessly on a map
  play     - Play a map yourself
  watch    - Watch the trained agent play
  maps     - Show all builtin maps
  scores   - Browse recorded training runs
  serve    - Start an SSH server for remote watching
  version  - Print the version

Examples:
  gridhopper train --map obstacles
  gridhopper play chasm
  gridhopper watch --qtable ./qtable.json
  gridhopper scores --limit 20
  gridhopper serve --port 2222`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor {
			// lipgloss and termenv pick this up before the first render.
			os.Setenv("NO_COLOR", "1")
		}
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database (default from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
