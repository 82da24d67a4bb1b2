// scarab runs a small top-down action game on a tile-free 2D engine, in the
// terminal or over SSH.
//
// Usage:
//
//	scarab play              - Play locally, resuming the save slot
//	scarab serve             - Start SSH server with one save slot per user
//	scarab saves             - List save slots (--browse to pick one and play)
//	scarab inspect <file>    - Show what a save file contains
//	scarab kinds             - List registered actor kinds
//	scarab validate          - Check the engine and level configs
//
// Global flags:
//
//	--config <path>  - Engine config YAML
//	--level <path>   - Level YAML
//	--ups <rate>     - Simulation updates per second
//	--fps <rate>     - Frame rate cap
//	--log-level      - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/scarab/internal/config"

	// Register actor kinds
	_ "github.com/vovakirdan/scarab/internal/entities"
)

var (
	// Global flags
	flagConfig   string
	flagLevel    string
	flagUPS      int
	flagFPS      int
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scarab",
	Short: "Scarab - a tile-free 2D action game for the terminal",
	Long: `Scarab runs a fixed-tick 2D simulation with box collision and draws
it in the terminal. Progress is kept in save slots that resume exactly where
you left off.

Available commands:
  play      - Play locally
  serve     - Start SSH server for remote play
  saves     - List or browse save slots
  inspect   - Show the contents of a save file
  kinds     - List registered actor kinds
  validate  - Check configuration files

Examples:
  scarab play
  scarab play --fresh --save ./run.sav
  scarab serve --ssh :2222
  scarab saves --browse
  scarab validate --level ./my-level.yaml`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "", "Path to level YAML")
	rootCmd.PersistentFlags().IntVar(&flagUPS, "ups", 0, "Simulation updates per second (0 = from config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate cap (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(validateCmd)
}

// loadConfigs reads the engine and level configs and applies flag overrides.
func loadConfigs() (config.EngineConfig, config.LevelConfig, error) {
	engine, err := config.LoadEngine(flagConfig)
	if err != nil {
		return engine, config.LevelConfig{}, err
	}
	if flagUPS > 0 {
		engine.Loop.UPS = flagUPS
	}
	if flagFPS > 0 {
		engine.Loop.FPS = flagFPS
	}
	if flagLogLevel != "" {
		engine.Logging.Level = flagLogLevel
	}
	if err := engine.Validate(); err != nil {
		return engine, config.LevelConfig{}, err
	}

	levelPath := flagLevel
	if levelPath == "" {
		levelPath = engine.Level
	}
	level, err := config.LoadLevel(levelPath)
	if err != nil {
		return engine, level, err
	}
	return engine, level, level.Validate()
}

func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
		os.Exit(1)
	}
}
