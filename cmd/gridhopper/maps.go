package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridhopper/internal/level"
)

var flagShowMaps bool

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List all builtin maps",
	Long: `Shows the builtin maps with their dimensions, coin counts and
whether they have a goal tile. With --show the map grids are printed.

Examples:
  gridhopper maps
  gridhopper maps --show`,
	Run: runMaps,
}

func init() {
	mapsCmd.Flags().BoolVar(&flagShowMaps, "show", false, "Print each map's grid")
}

func runMaps(_ *cobra.Command, _ []string) {
	names := level.BuiltinNames()
	if len(names) == 0 {
		fmt.Println("No builtin maps available.")
		return
	}

	fmt.Println("Builtin maps:")
	fmt.Println()

	// Calculate column width
	maxNameLen := 4 // "Name" header
	for _, name := range names {
		if len(name) > maxNameLen {
			maxNameLen = len(name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, "Name", "Size", "Coins", "Goal")
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxNameLen, "----", "----", "-----", "----")

	for _, name := range names {
		m, err := level.Builtin(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", name, err)
			continue
		}
		goal := "no"
		if m.HasGoal() {
			goal = "yes"
		}
		size := fmt.Sprintf("%dx%d", m.Width(), m.Height())
		fmt.Printf("  %-*s  %-7s  %-5d  %s\n", maxNameLen, name, size, m.CoinCount(), goal)
	}

	if flagShowMaps {
		for _, name := range names {
			m, err := level.Builtin(name)
			if err != nil {
				continue
			}
			fmt.Println()
			fmt.Printf("%s:\n", name)
			for _, line := range m.Lines() {
				fmt.Printf("  %s\n", line)
			}
		}
	}

	fmt.Println()
	fmt.Println("Run 'gridhopper play <name>' or 'gridhopper train --map <name>'.")
}
