package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/scarab/internal/config"
	"github.com/vovakirdan/scarab/internal/game"
	"github.com/vovakirdan/scarab/internal/platform/tui"
)

var (
	flagSavePath string
	flagFresh    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play locally",
	Long: `Start the game in this terminal.

The save slot is loaded when it exists, otherwise the level is built fresh.
A save file that exists but cannot be read stops the game with an error.

Controls:
  WASD/Arrows  - Move
  Space        - Attack
  Ctrl+S       - Save
  P/Esc        - Pause
  Tab/F1       - Toggle debug overlay
  R            - Restart (after falling)
  Q/Ctrl+C     - Quit

Examples:
  scarab play
  scarab play --fresh
  scarab play --save ./run.sav
  scarab play --level ./arena.yaml --ups 30`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSavePath, "save", "", "Save slot file (default from config)")
	playCmd.Flags().BoolVar(&flagFresh, "fresh", false, "Ignore the save slot and start the level fresh")
}

func runPlay(_ *cobra.Command, _ []string) {
	engine, level, err := loadConfigs()
	exitOnError("loading config", err)

	exitOnError("playing", playSession(engine, level, flagSavePath, flagFresh))
}

// playSession runs a local session until the player quits.
func playSession(engine config.EngineConfig, level config.LevelConfig, savePath string, fresh bool) error {
	logger, closeLog, err := fileLogger(engine)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog()

	width, height := int(engine.Camera.Viewport.Width), int(engine.Camera.Viewport.Height)
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	session, err := game.New(game.Options{
		Engine:   engine,
		Level:    level,
		SavePath: savePath,
		Fresh:    fresh,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("cannot start session", "error", err)
		return fmt.Errorf("starting game: %w", err)
	}

	logger.Info("session started", "save", session.SavePath(), "loaded", session.State().Loaded)
	if err := tui.Run(session, width, height, tui.WithLogger(logger)); err != nil {
		logger.Error("session stopped", "error", err)
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// fileLogger opens the configured log file. The terminal belongs to the game
// while it runs, so logs never go to stderr here.
func fileLogger(engine config.EngineConfig) (*log.Logger, func(), error) {
	level, err := engine.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if engine.Logging.File == "" {
		return log.New(io.Discard), func() {}, nil
	}

	path, err := config.ExpandPath(engine.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "scarab",
	})
	return logger, func() { _ = f.Close() }, nil
}
