package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

//go:embed defaults/level.yaml
var defaultLevelYAML []byte

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Loop: LoopConfig{
			UPS: 60,
			FPS: 60,
		},
		Camera: CameraConfig{
			View: BoxConfig{0, 0, 640, 360},
			Viewport: ViewportConfig{
				Width:  80,
				Height: 24,
			},
		},
		Save: SaveConfig{
			Path:    "~/.scarab/saves/default.sav",
			Dir:     "~/.scarab/saves",
			OnStart: StartLoad,
		},
		Controls: ControlsConfig{
			HoldTicks: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "~/.scarab/scarab.log",
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 3600,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  0.5,
				DamageMultiplier: 1.0,
			},
		},
	}
}

// DefaultLevelConfig returns the built-in example level.
func DefaultLevelConfig() LevelConfig {
	solid := func(x, y, w, h float64) CellConfig {
		return CellConfig{Solidity: "solid", Box: BoxConfig{x, y, w, h}}
	}
	air := func(x, y, w, h float64) CellConfig {
		return CellConfig{Solidity: "none", Box: BoxConfig{x, y, w, h}}
	}
	return LevelConfig{
		Name: "example",
		Cells: []CellConfig{
			solid(0, 0, 50, 100),
			solid(50, 50, 100, 150),
			air(50, 0, 590, 50),
			air(150, 50, 490, 310),
			air(0, 200, 150, 160),
			air(0, 100, 50, 100),
			solid(640, 0, 1, 360),
			solid(0, 360, 640, 1),
			solid(0, -1, 640, 1),
			solid(-1, 0, 1, 360),
		},
		Actors: []ActorConfig{
			{Kind: "player", Box: BoxConfig{310, 170, 20, 20}, MaxSpeed: 75},
			{Kind: "enemy", Box: BoxConfig{180, 230, 15, 15}, MaxSpeed: 50},
			{Kind: "enemy", Box: BoxConfig{180, 120, 15, 15}, MaxSpeed: 50},
		},
	}
}
