// Package config loads host configuration from .taskpilot/config.yaml.
// This is process-level configuration (paths, loop cadence, logging); the
// agent's behavioral settings live in the store and are managed by the
// adaptation engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all taskpilot host configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Data    DataConfig    `yaml:"data"`
	Agent   AgentConfig   `yaml:"agent"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig configures persistence.
type DataConfig struct {
	// DatabasePath is relative to the workspace unless absolute.
	DatabasePath string `yaml:"database_path"`
}

// AgentConfig configures the loop runner cadence. Durations are strings
// ("5s", "1m") parsed on demand so the YAML stays readable.
type AgentConfig struct {
	ScoringInterval     string `yaml:"scoring_interval"`
	ScoringBackoff      string `yaml:"scoring_backoff"`
	AdaptationInterval  string `yaml:"adaptation_interval"`
	AdaptationDelay     string `yaml:"adaptation_delay"`
	RecommendationLimit int    `yaml:"recommendation_limit"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"` // master toggle, false = no logging
	Categories map[string]bool `yaml:"categories"`
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Everything is off when debug_mode is false; in debug mode unlisted
// categories default to on.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "taskpilot",
		Version: "0.1.0",
		Data: DataConfig{
			DatabasePath: filepath.Join(".taskpilot", "taskpilot.db"),
		},
		Agent: AgentConfig{
			ScoringInterval:     "5s",
			ScoringBackoff:      "10s",
			AdaptationInterval:  "5m",
			AdaptationDelay:     "1m",
			RecommendationLimit: 10,
		},
		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// ConfigPath returns the config file path for a workspace.
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, ".taskpilot", "config.yaml")
}

// Load reads configuration from the workspace, falling back to defaults for
// anything missing. A missing file is not an error.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	path := ConfigPath(workspace)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration to the workspace config path.
func (c *Config) Save(workspace string) error {
	path := ConfigPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TASKPILOT_DB_PATH"); v != "" {
		cfg.Data.DatabasePath = v
	}
	if v := os.Getenv("TASKPILOT_SCORING_INTERVAL"); v != "" {
		cfg.Agent.ScoringInterval = v
	}
	if v := os.Getenv("TASKPILOT_ADAPTATION_INTERVAL"); v != "" {
		cfg.Agent.AdaptationInterval = v
	}
	if v := os.Getenv("TASKPILOT_DEBUG"); v == "1" || v == "true" {
		cfg.Logging.DebugMode = true
	}
}

// DatabasePath resolves the database path against the workspace.
func (c *Config) DatabasePath(workspace string) string {
	if filepath.IsAbs(c.Data.DatabasePath) {
		return c.Data.DatabasePath
	}
	return filepath.Join(workspace, c.Data.DatabasePath)
}

// parseDuration parses a duration string with a fallback default.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ScoringIntervalDuration returns the parsed scoring loop cadence.
func (c *AgentConfig) ScoringIntervalDuration() time.Duration {
	return parseDuration(c.ScoringInterval, 5*time.Second)
}

// ScoringBackoffDuration returns the parsed scoring backoff.
func (c *AgentConfig) ScoringBackoffDuration() time.Duration {
	return parseDuration(c.ScoringBackoff, 10*time.Second)
}

// AdaptationIntervalDuration returns the parsed adaptation cadence.
func (c *AgentConfig) AdaptationIntervalDuration() time.Duration {
	return parseDuration(c.AdaptationInterval, 5*time.Minute)
}

// AdaptationDelayDuration returns the parsed adaptation startup delay.
func (c *AgentConfig) AdaptationDelayDuration() time.Duration {
	return parseDuration(c.AdaptationDelay, time.Minute)
}
