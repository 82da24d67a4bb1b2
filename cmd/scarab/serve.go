package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/scarab/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagSavesDir    string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH user gets their own save slot, named after the user, inside the
saves directory. The slot is loaded on connect and written on quit.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.scarab/host_key

Examples:
  scarab serve                           # Listen on :23234 with auto-generated key
  scarab serve --ssh :2222               # Listen on port 2222
  scarab serve --host-key ./my_host_key  # Use specific host key
  scarab serve --saves ./saves           # Keep slots in ./saves

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagSavesDir, "saves", "", "Directory for per-user save slots (default from config)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	engine, level, err := loadConfigs()
	exitOnError("loading config", err)
	if flagSavesDir != "" {
		engine.Save.Dir = flagSavesDir
	}

	logLevel, err := engine.LogLevel()
	exitOnError("loading config", err)
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           logLevel,
		ReportTimestamp: true,
		Prefix:          "scarab-ssh",
	})

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Engine:      engine,
		Level:       level,
		Logger:      logger,
	}

	server, err := tui.NewSSHServer(cfg)
	exitOnError("creating server", err)

	fmt.Printf("Starting scarab SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
