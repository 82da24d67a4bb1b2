package config

import (
	"fmt"
	"math"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// DifficultyConfig defines how enemy pressure grows during a session.
type DifficultyConfig struct {
	Preset      DifficultyPreset  `yaml:"preset"`
	Progression ProgressionConfig `yaml:"progression"`
	Scaling     ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "time" or "none"
	MaxAt int    `yaml:"max_at"` // Ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`  // Added to enemy speed at max difficulty
	DamageMultiplier float64 `yaml:"damage_multiplier"` // Added to contact damage at max difficulty
}

// Validate checks the preset and progression settings.
func (c DifficultyConfig) Validate() error {
	switch c.Preset {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed, "":
	default:
		return fmt.Errorf("%w: unknown difficulty preset %q", ErrInvalidConfig, c.Preset)
	}
	switch c.Progression.Type {
	case "time", "none", "":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalidConfig, c.Progression.Type)
	}
	if c.Scaling.SpeedMultiplier < 0 || c.Scaling.DamageMultiplier < 0 {
		return fmt.Errorf("%w: difficulty multipliers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// InitialLevelForPreset returns the starting difficulty level for a preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// DifficultyManager derives enemy parameters from the elapsed ticks.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: InitialLevelForPreset(cfg.Preset),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Preset != DifficultyFixed && d.cfg.Progression.Type == "time"
}

// Level returns the current difficulty level (0.0 to 1.0) after ticks.
func (d *DifficultyManager) Level(ticks uint64) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(ticks)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns an enemy max speed scaled by the current difficulty.
func (d *DifficultyManager) Speed(baseSpeed float64, ticks uint64) float64 {
	if d.cfg.Preset == DifficultyFixed {
		return baseSpeed
	}
	return baseSpeed * (1.0 + d.Level(ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// Damage returns enemy contact damage scaled by the current difficulty.
// It never drops below the base damage.
func (d *DifficultyManager) Damage(baseDamage int, ticks uint64) int {
	if d.cfg.Preset == DifficultyFixed {
		return baseDamage
	}
	scaled := float64(baseDamage) * (1.0 + d.Level(ticks)*d.cfg.Scaling.DamageMultiplier)
	return max(baseDamage, int(math.Round(scaled)))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
