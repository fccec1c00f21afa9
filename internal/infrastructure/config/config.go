// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for planter configuration.
	DefaultConfigDir = ".planter"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDBFile is the default SQLite database file name.
	DefaultDBFile = "planter.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	LLM       LLMConfig                 `yaml:"llm,omitempty"`
	SQLite    SQLiteConfig              `yaml:"sqlite,omitempty"`
	Ruleset   RulesetConfig             `yaml:"ruleset,omitempty"`
	HardRules map[string]HardRuleConfig `yaml:"hard_rules,omitempty"`
	Log       LogConfig                 `yaml:"log,omitempty"`
}

// LLMConfig holds configuration for the generation backend.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	// BaseURL overrides the backend endpoint (used by tests and proxies).
	BaseURL string `yaml:"base_url,omitempty"`
	// AttemptTimeoutSeconds bounds each generation attempt. Zero uses the
	// client default.
	AttemptTimeoutSeconds int `yaml:"attempt_timeout_seconds,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite record store.
type SQLiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

// RulesetConfig holds the target ruleset version and optional delta overrides.
type RulesetConfig struct {
	// TargetVersion is the version the pipeline stamps after a full run.
	TargetVersion int `yaml:"target_version,omitempty"`
	// Deltas maps a ruleset version to the fields that version forces to
	// regenerate. Empty means the compiled-in defaults apply.
	Deltas map[int][]string `yaml:"deltas,omitempty"`
}

// HardRuleConfig is a partial care profile pinned to a scientific name.
// Empty values leave the classified value in place.
type HardRuleConfig struct {
	GrowthForm            string   `yaml:"growth_form,omitempty"`
	LightClass            string   `yaml:"light_class,omitempty"`
	WateringStrategy      string   `yaml:"watering_strategy,omitempty"`
	PreferredOrientation  string   `yaml:"preferred_orientation,omitempty"`
	AlternateOrientations []string `yaml:"alternate_orientations,omitempty"`
	SeasonalNote          string   `yaml:"seasonal_note,omitempty"`
}

// LogConfig selects the logging mode.
type LogConfig struct {
	// Mode is "dev" or "prod".
	Mode string `yaml:"mode,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Ruleset: RulesetConfig{
			TargetVersion: 5,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load loads configuration from the .planter directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'planter init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = DBPath(basePath)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
}

// ConfigDir returns the path to the .planter config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// DBPath returns the path to the SQLite database file.
func DBPath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDBFile)
}

// Exists checks if a planter config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}
