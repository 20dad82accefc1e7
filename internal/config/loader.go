package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadMerge loads the round configuration.
// Search order: customPath -> ~/.carmerge/configs/carmerge.yaml -> ./configs/carmerge.yaml -> embedded default
// Files are applied on top of the defaults, so a partial file only
// overrides the keys it names.
func LoadMerge(customPath string) (MergeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return MergeConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := ParseMerge(data)
		if err != nil {
			return MergeConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("carmerge.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := ParseMerge(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/carmerge.yaml"); err == nil {
		if cfg, err := ParseMerge(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := ParseMerge(defaultMergeYAML)
	if err != nil {
		return DefaultMergeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// ParseMerge decodes a YAML document over the defaults and validates it.
func ParseMerge(data []byte) (MergeConfig, error) {
	cfg := DefaultMergeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MergeConfig{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return MergeConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration back to YAML.
func Marshal(cfg MergeConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".carmerge", "configs", filename)
}
