// Package config loads the ymsp configuration from
// ~/.config/ymsp/config.yaml. A missing file yields the defaults; a
// malformed file is an error rather than a silent fallback.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the effective configuration, constructed once at process start
// and passed explicitly to the components that need it.
type Config struct {
	// YabaiPath is the yabai binary to invoke. Defaults to "yabai" on PATH.
	YabaiPath string `yaml:"yabai_path"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
	// LogFile redirects logs from stderr to a file when set.
	LogFile string `yaml:"log_file"`
	// DefaultNumMasterWindows seeds spaces with no stored record.
	DefaultNumMasterWindows int `yaml:"default_num_master_windows"`
	// LockPath overrides the runtime-dir lock marker location.
	LockPath string `yaml:"lock_path"`
	// StatePath overrides the XDG state file location.
	StatePath string `yaml:"state_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		YabaiPath:               "yabai",
		DefaultNumMasterWindows: 1,
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "ymsp", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// is not an error.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from an explicit path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints after loading.
func (c *Config) Validate() error {
	if c.YabaiPath == "" {
		return fmt.Errorf("yabai_path must not be empty")
	}
	if c.DefaultNumMasterWindows < 1 {
		return fmt.Errorf("default_num_master_windows must be at least 1, got %d", c.DefaultNumMasterWindows)
	}
	return nil
}
