// Package config loads taskman's optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"taskman/internal/logutil"
	"taskman/internal/process"
	"taskman/internal/schedule"
)

// Config holds user settings. Command-line flags override these values.
type Config struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	AutoRefresh     bool          `yaml:"auto_refresh"`
	Sort            string        `yaml:"sort"`
	Descending      bool          `yaml:"descending"`
	ExportDir       string        `yaml:"export_dir"`
	LogFile         string        `yaml:"log_file"`
	LogFormat       string        `yaml:"log_format"`
	Debug           bool          `yaml:"debug"`
	Notify          bool          `yaml:"notify"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RefreshInterval: schedule.DefaultPeriod,
		Sort:            "name",
		LogFormat:       string(logutil.FormatText),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/taskman/config.yaml (or the platform
// equivalent). It returns "" when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "taskman", "config.yaml")
}

// Load reads path on top of the defaults. A missing file is not an error;
// an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.RefreshInterval < schedule.Step {
		return fmt.Errorf("refresh_interval must be at least %s, got %s", schedule.Step, c.RefreshInterval)
	}
	if _, err := process.ParseSortKey(c.Sort); err != nil {
		return err
	}
	if _, err := logutil.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	return nil
}

// SortKey returns the parsed sort key. Call Validate first.
func (c Config) SortKey() process.SortKey {
	k, err := process.ParseSortKey(c.Sort)
	if err != nil {
		return process.SortByName
	}
	return k
}

// ResolvedExportDir returns the directory relative export paths land in,
// defaulting to the working directory.
func (c Config) ResolvedExportDir() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
