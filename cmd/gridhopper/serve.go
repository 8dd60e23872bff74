package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridhopper/internal/config"
	"github.com/vovakirdan/gridhopper/internal/platform/tui"
)

var (
	flagServeHost    string
	flagServePort    int
	flagServeKey     string
	flagServeMap     string
	flagServeQTable  string
	flagServeTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an SSH server for remote watching",
	Long: `Start an SSH server that lets users connect and watch the trained
agent play, or browse the recorded training runs.

Each SSH connection gets its own session and its own copy of the game;
the Q-table and run database are shared, read-only.

Host key handling:
  - If --key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gridhopper/host_key

Examples:
  gridhopper serve                      # Listen on :23234
  gridhopper serve --port 2222          # Listen on port 2222
  gridhopper serve --map chasm          # Sessions watch the chasm map
  gridhopper serve --key ./host_key     # Use a specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeHost, "host", "", "Host to bind (empty = all interfaces)")
	serveCmd.Flags().IntVar(&flagServePort, "port", 23234, "Port to listen on")
	serveCmd.Flags().StringVar(&flagServeKey, "key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeMap, "map", "", "Map sessions watch (overrides config)")
	serveCmd.Flags().StringVar(&flagServeQTable, "qtable", "", "Q-table JSON path (overrides config)")
	serveCmd.Flags().IntVar(&flagServeTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	playCfg, err := config.LoadPlay("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagServeMap != "" {
		playCfg.Map = flagServeMap
	}
	if flagServeQTable != "" {
		playCfg.QTable = flagServeQTable
	}
	if err := playCfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dbPath := flagDBPath
	if dbPath == "" {
		dbPath = config.DefaultTrainingConfig().Database
	}

	cfg := tui.SSHServerConfig{
		Address:     fmt.Sprintf("%s:%d", flagServeHost, flagServePort),
		HostKeyPath: flagServeKey,
		DBPath:      dbPath,
		Play:        playCfg,
		IdleTimeout: time.Duration(flagServeTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting gridhopper SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %d\n", flagServePort)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
