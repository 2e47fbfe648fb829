// Package config layers steplog settings: built-in defaults, then
// <configdir>/config.yaml, then STEPLOG_* environment variables. Command-line
// flags are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/steplog/internal/constants"
	"github.com/julianstephens/steplog/internal/utils"
	"github.com/julianstephens/steplog/internal/validation"
)

const (
	FileName  = "config.yaml"
	EnvPrefix = "steplog"
)

type Config struct {
	// Store is a SQLite path, a *.json path, or a PostgreSQL connection string.
	Store                string        `yaml:"store" split_words:"true"`
	Timezone             string        `yaml:"timezone" split_words:"true"`
	DefaultGoal          int           `yaml:"default_goal" split_words:"true"`
	RetentionDays        int           `yaml:"retention_days" split_words:"true"`
	SaveInterval         time.Duration `yaml:"save_interval" split_words:"true"`
	Debug                bool          `yaml:"debug" split_words:"true"`
	NotificationsEnabled bool          `yaml:"notifications_enabled" split_words:"true"`
}

func Default() Config {
	return Config{
		Store:                constants.DefaultConfigPath,
		Timezone:             constants.DefaultTimezone,
		DefaultGoal:          constants.DefaultGoal,
		RetentionDays:        constants.DefaultRetentionDays,
		SaveInterval:         constants.DefaultSaveInterval,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// Path returns the config file location inside configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, FileName)
}

// Load builds the configuration for configDir. A missing config file is not
// an error.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if err := cfg.LoadFile(Path(configDir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	cfg.Store = ExpandHome(cfg.Store)
	return cfg, nil
}

// LoadFile overlays the fields set in the YAML file at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays STEPLOG_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return nil
}

// Validate checks every field is usable.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Store) == "" {
		problems = append(problems, "store must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		problems = append(problems, fmt.Sprintf("invalid timezone %q", c.Timezone))
	}
	if err := validation.ValidateGoal(c.DefaultGoal); err != nil {
		problems = append(problems, "default_goal: "+err.Error())
	}
	if c.RetentionDays < 0 {
		problems = append(problems, fmt.Sprintf("retention_days must not be negative, got %d", c.RetentionDays))
	}
	if c.SaveInterval < time.Second {
		problems = append(problems, fmt.Sprintf("save_interval must be at least 1s, got %s", c.SaveInterval))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Write saves cfg as YAML at path, creating the directory if needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fileView(cfg)); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}

// fileView renders durations as strings so the file round-trips through
// LoadFile.
func fileView(cfg Config) map[string]interface{} {
	return map[string]interface{}{
		"store":                 cfg.Store,
		"timezone":              cfg.Timezone,
		"default_goal":          cfg.DefaultGoal,
		"retention_days":        cfg.RetentionDays,
		"save_interval":         cfg.SaveInterval.String(),
		"debug":                 cfg.Debug,
		"notifications_enabled": cfg.NotificationsEnabled,
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
