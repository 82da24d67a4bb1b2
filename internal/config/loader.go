package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadEngine loads the engine configuration.
// Search order: customPath -> ~/.scarab/configs/engine.yaml -> ./configs/engine.yaml -> embedded default
func LoadEngine(customPath string) (EngineConfig, error) {
	return load(customPath, "engine.yaml", defaultEngineYAML, DefaultEngineConfig, DefaultEngineConfig)
}

// LoadLevel loads a level file.
// Search order: customPath -> ~/.scarab/configs/level.yaml -> ./configs/level.yaml -> embedded default
func LoadLevel(customPath string) (LevelConfig, error) {
	return load(customPath, "level.yaml", defaultLevelYAML, func() LevelConfig { return LevelConfig{} }, DefaultLevelConfig)
}

// load decodes the first config found into a value produced by base, so keys
// missing from a file keep base's values.
func load[T any](customPath, filename string, embedded []byte, base, fallback func() T) (T, error) {
	// Try custom path first
	if customPath != "" {
		cfg := base()
		path, err := expandHome(customPath)
		if err != nil {
			return cfg, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			cfg := base()
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		cfg := base()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := base()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return fallback(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scarab", "configs", filename)
}

// ExpandPath expands a leading ~ in paths taken from configuration.
func ExpandPath(path string) (string, error) {
	return expandHome(path)
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
