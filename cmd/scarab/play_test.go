package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/scarab/internal/config"
	"github.com/vovakirdan/scarab/internal/storage"
)

func TestPlaySessionReportsStartupError(t *testing.T) {
	dir := t.TempDir()
	savePath := filepath.Join(dir, "broken.sav")
	if err := os.WriteFile(savePath, []byte("not a save"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	engine := config.DefaultEngineConfig()
	engine.Logging.File = filepath.Join(dir, "scarab.log")
	engine.Logging.Level = "info"

	err := playSession(engine, config.DefaultLevelConfig(), savePath, false)
	if !errors.Is(err, storage.ErrDecode) {
		t.Fatalf("playSession() error = %v, expected ErrDecode", err)
	}

	data, readErr := os.ReadFile(engine.Logging.File)
	if readErr != nil {
		t.Fatalf("ReadFile() failed: %v", readErr)
	}
	if !strings.Contains(string(data), "cannot start session") {
		t.Errorf("log = %q, expected the startup failure", data)
	}
}

func TestFileLogger(t *testing.T) {
	engine := config.DefaultEngineConfig()

	engine.Logging.File = ""
	logger, closeLog, err := fileLogger(engine)
	if err != nil {
		t.Fatalf("fileLogger() failed: %v", err)
	}
	logger.Info("discarded")
	closeLog()

	engine.Logging.File = filepath.Join(t.TempDir(), "logs", "scarab.log")
	logger, closeLog, err = fileLogger(engine)
	if err != nil {
		t.Fatalf("fileLogger() failed: %v", err)
	}
	logger.Info("hello", "n", 1)
	closeLog()

	data, err := os.ReadFile(engine.Logging.File)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log = %q, expected the entry", data)
	}

	engine.Logging.Level = "loud"
	if _, _, err := fileLogger(engine); err == nil {
		t.Error("fileLogger() with an unknown level should fail")
	}
}
