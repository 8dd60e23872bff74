package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTraining loads the training configuration.
// Search order: customPath -> ~/.gridhopper/configs/training.yaml -> ./configs/training.yaml -> embedded default
// Values missing from a file keep their defaults.
func LoadTraining(customPath string) (TrainingConfig, error) {
	cfg := DefaultTrainingConfig()

	// An explicit path must load cleanly or the command fails
	if customPath != "" {
		err := overlayFile(customPath, &cfg)
		return cfg, err
	}

	// Try user config directory
	if userCfgPath := userConfigPath("training.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultTrainingConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/training.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultTrainingConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTrainingYAML, &cfg); err != nil {
		return DefaultTrainingConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// LoadPlay loads the interactive session configuration.
// Search order: customPath -> ~/.gridhopper/configs/play.yaml -> ./configs/play.yaml -> embedded default
// Values missing from a file keep their defaults.
func LoadPlay(customPath string) (PlayConfig, error) {
	cfg := DefaultPlayConfig()

	// An explicit path must load cleanly or the command fails
	if customPath != "" {
		err := overlayFile(customPath, &cfg)
		return cfg, err
	}

	// Try user config directory
	if userCfgPath := userConfigPath("play.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultPlayConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/play.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultPlayConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultPlayYAML, &cfg); err != nil {
		return DefaultPlayConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// overlayFile reads one YAML file and overlays it onto cfg.
func overlayFile(path string, cfg any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gridhopper", "configs", filename)
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
