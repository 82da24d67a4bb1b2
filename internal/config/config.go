// Package config provides YAML-based engine configuration, level files and
// difficulty management for the engine.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/scarab/internal/core"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Startup policies for save.on_start.
const (
	StartLoad  = "load"  // Load the save slot, build fresh when it does not exist
	StartFresh = "fresh" // Always build the level fresh
)

// EngineConfig contains the host and simulation settings.
type EngineConfig struct {
	Loop       LoopConfig       `yaml:"loop"`
	Camera     CameraConfig     `yaml:"camera"`
	Save       SaveConfig       `yaml:"save"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Controls   ControlsConfig   `yaml:"controls"`
	Logging    LoggingConfig    `yaml:"logging"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Level      string           `yaml:"level"` // Level file; empty uses the search order
}

// LoopConfig sets the simulation and render cadence.
type LoopConfig struct {
	UPS int `yaml:"ups"` // Simulation updates per second
	FPS int `yaml:"fps"` // Maximum frames per second
}

// CameraConfig describes the initial camera.
type CameraConfig struct {
	View     BoxConfig      `yaml:"view,flow"`
	Follow   bool           `yaml:"follow"` // Keep the player centered
	Viewport ViewportConfig `yaml:"viewport"`
}

// ViewportConfig is the fallback viewport when the terminal size is unknown.
type ViewportConfig struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// SaveConfig selects the save slot and startup policy.
type SaveConfig struct {
	Path    string `yaml:"path"`     // Save file for local play
	Dir     string `yaml:"dir"`      // Slot directory for SSH sessions
	OnStart string `yaml:"on_start"` // "load" or "fresh"
}

// PhysicsConfig toggles optional resolver behaviour.
type PhysicsConfig struct {
	ActorCollisions bool `yaml:"actor_collisions"`
}

// ControlsConfig tunes how key presses become movement.
type ControlsConfig struct {
	HoldTicks int `yaml:"hold_ticks"` // Ticks a movement key stays held after a press
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file for the terminal host
}

// BoxConfig is a box written as [x, y, w, h].
type BoxConfig [4]float64

// Box converts to a validated geometry box.
func (b BoxConfig) Box() (core.Box, error) {
	return core.NewBox(core.V(b[0], b[1]), core.V(b[2], b[3]))
}

// Runtime returns the loop settings as a core.RuntimeConfig.
func (c EngineConfig) Runtime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ViewportW: int(c.Camera.Viewport.Width),
		ViewportH: int(c.Camera.Viewport.Height),
		UPS:       c.Loop.UPS,
		FPS:       c.Loop.FPS,
	}
}

// TickDuration returns the wall-clock duration of one simulation tick.
func (c EngineConfig) TickDuration() time.Duration {
	return time.Second / time.Duration(max(c.Loop.UPS, 1))
}

// FrameDuration returns the minimum wall-clock time between frames.
func (c EngineConfig) FrameDuration() time.Duration {
	return time.Second / time.Duration(max(c.Loop.FPS, 1))
}

// LogLevel parses the configured log level.
func (c EngineConfig) LogLevel() (log.Level, error) {
	if c.Logging.Level == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(c.Logging.Level)
}

// Validate checks that the configuration can drive an engine.
func (c EngineConfig) Validate() error {
	if c.Loop.UPS <= 0 {
		return fmt.Errorf("%w: loop.ups must be positive, got %d", ErrInvalidConfig, c.Loop.UPS)
	}
	if c.Loop.FPS <= 0 {
		return fmt.Errorf("%w: loop.fps must be positive, got %d", ErrInvalidConfig, c.Loop.FPS)
	}
	if _, err := c.Camera.View.Box(); err != nil {
		return fmt.Errorf("%w: camera.view: %w", ErrInvalidConfig, err)
	}
	if c.Camera.Viewport.Width == 0 || c.Camera.Viewport.Height == 0 {
		return fmt.Errorf("%w: camera.viewport must be positive", ErrInvalidConfig)
	}
	switch c.Save.OnStart {
	case StartLoad, StartFresh:
	default:
		return fmt.Errorf("%w: save.on_start must be %q or %q, got %q", ErrInvalidConfig, StartLoad, StartFresh, c.Save.OnStart)
	}
	if c.Controls.HoldTicks < 0 {
		return fmt.Errorf("%w: controls.hold_ticks must not be negative", ErrInvalidConfig)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: logging.level: %w", ErrInvalidConfig, err)
	}
	if err := c.Difficulty.Validate(); err != nil {
		return err
	}
	return nil
}

// LevelConfig describes a level: the static field and the initial actors.
type LevelConfig struct {
	Name   string        `yaml:"name"`
	Cells  []CellConfig  `yaml:"cells"`
	Actors []ActorConfig `yaml:"actors"`
}

// CellConfig is one field cell.
type CellConfig struct {
	Solidity string    `yaml:"solidity"`
	Box      BoxConfig `yaml:"box,flow"`
}

// ActorConfig is one initial actor. State is decoded into the kind's state.
type ActorConfig struct {
	Kind         string    `yaml:"kind"`
	Box          BoxConfig `yaml:"box,flow"`
	MaxSpeed     float64   `yaml:"max_speed"`
	HardBlocking bool      `yaml:"hard_blocking"`
	State        yaml.Node `yaml:"state"`
}
