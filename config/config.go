// Package config loads and saves the settings of the rollseq command line
// tool.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Config is the main configuration structure.
type Config struct {
	// TimeBase is the ticks per quarter note of new songs.
	TimeBase int `yaml:"timeBase"`
	// MaxHistory limits the undo history; 0 means unlimited.
	MaxHistory   int    `yaml:"maxHistory"`
	RecoveryFile string `yaml:"recoveryFile,omitempty"`
	// ProjectDir holds the badger database of project saves.
	ProjectDir string `yaml:"projectDir,omitempty"`
	LogLevel   string `yaml:"logLevel"`
}

// Dir returns the configuration directory, $XDG_CONFIG_HOME/rollseq or its
// platform equivalent.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rollseq"), nil
}

// Path returns the full path of config.yaml.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

func Default() *Config {
	c := &Config{TimeBase: 480, LogLevel: "info"}
	if dir, err := Dir(); err == nil {
		c.RecoveryFile = filepath.Join(dir, "recovery", "song.json")
		c.ProjectDir = filepath.Join(dir, "projects")
	}
	return c
}

// Load reads the configuration from path, or from Path() if path is empty.
// Missing files give the defaults; keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", path, err)
	}
	if cfg.TimeBase <= 0 {
		return nil, fmt.Errorf("config: timeBase must be positive, got %d", cfg.TimeBase)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Level parses LogLevel; unknown levels are reported as errors.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: %w", err)
	}
	return l, nil
}
