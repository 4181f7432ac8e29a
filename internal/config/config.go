// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete chatdeck configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Prompts PromptsConfig `toml:"prompts"`
	Metrics MetricsConfig `toml:"metrics"`
	UI      UIConfig      `toml:"ui"`
}

// BackendConfig configures the local completion backend.
type BackendConfig struct {
	// URL of the backend server
	URL string `toml:"url"`
	// Model is the default model for drafts
	Model string `toml:"model"`
	// TimeoutSecs is the per-request timeout for completions
	TimeoutSecs int `toml:"timeout_secs"`
	// AutoStart launches the backend process if it is not running
	AutoStart bool `toml:"auto_start"`
}

// PromptsConfig configures the template library.
type PromptsConfig struct {
	// Dir holds the *.txt prompt templates (empty = ~/.chatdeck/prompts)
	Dir string `toml:"dir"`
	// WatchDebounceMs is the debounce for the directory watcher
	WatchDebounceMs int `toml:"watch_debounce_ms"`
}

// MetricsConfig configures interaction telemetry.
type MetricsConfig struct {
	// Enabled controls whether interactions are recorded at all
	Enabled bool `toml:"enabled"`
	// DatabasePath is the SQLite file (empty = ~/.chatdeck/metrics.db)
	DatabasePath string `toml:"database_path"`
	// RecentCount is how many recent interactions the metrics view shows
	RecentCount int `toml:"recent_count"`
}

// UIConfig configures the dashboard.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light"
	Theme string `toml:"theme"`
	// MessageLimit caps how many messages a chat load keeps
	MessageLimit int `toml:"message_limit"`
	// AnimationTickMs is the matrix background repaint interval
	AnimationTickMs int `toml:"animation_tick_ms"`
	// AnimationEnabled toggles the idle background animation
	AnimationEnabled bool `toml:"animation_enabled"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://127.0.0.1:11434",
			Model:       "llama3.2",
			TimeoutSecs: 60,
			AutoStart:   true,
		},
		Prompts: PromptsConfig{
			WatchDebounceMs: 500,
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			RecentCount: 10,
		},
		UI: UIConfig{
			Theme:            "dark",
			MessageLimit:     50,
			AnimationTickMs:  50,
			AnimationEnabled: true,
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the chatdeck configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// BackendTimeout returns the completion timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// WatchDebounce returns the prompt watcher debounce as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Prompts.WatchDebounceMs) * time.Millisecond
}

// AnimationTick returns the background repaint interval as a duration.
func (c *Config) AnimationTick() time.Duration {
	return time.Duration(c.UI.AnimationTickMs) * time.Millisecond
}

// PromptsDir resolves the template directory, defaulting under the
// config directory.
func (c *Config) PromptsDir() (string, error) {
	if c.Prompts.Dir != "" {
		return c.Prompts.Dir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prompts"), nil
}

// MetricsPath resolves the metrics database path, defaulting under the
// config directory.
func (c *Config) MetricsPath() (string, error) {
	if c.Metrics.DatabasePath != "" {
		return c.Metrics.DatabasePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "metrics.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads ~/.chatdeck/config.toml if present, falls back to
// defaults otherwise, applies environment overrides, and validates.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.Model == "" {
		c.Backend.Model = defaults.Backend.Model
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Prompts.WatchDebounceMs == 0 {
		c.Prompts.WatchDebounceMs = defaults.Prompts.WatchDebounceMs
	}
	if c.Metrics.RecentCount == 0 {
		c.Metrics.RecentCount = defaults.Metrics.RecentCount
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.MessageLimit == 0 {
		c.UI.MessageLimit = defaults.UI.MessageLimit
	}
	if c.UI.AnimationTickMs == 0 {
		c.UI.AnimationTickMs = defaults.UI.AnimationTickMs
	}
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default TOML file with
// owner-only permissions.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# chatdeck configuration file")
	fmt.Fprintln(file, "# Generated by chatdeck - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Backend.URL != "" {
		if _, err := url.Parse(c.Backend.URL); err != nil {
			errs = append(errs, ValidationError{
				Field:   "backend.url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		}
	}

	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.Prompts.WatchDebounceMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "prompts.watch_debounce_ms",
			Message: "must be non-negative",
		})
	}

	if c.Metrics.RecentCount < 0 {
		errs = append(errs, ValidationError{
			Field:   "metrics.recent_count",
			Message: "must be non-negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light", c.UI.Theme),
		})
	}

	if c.UI.MessageLimit < 1 || c.UI.MessageLimit > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.message_limit",
			Message: fmt.Sprintf("must be 1-1000, got %d", c.UI.MessageLimit),
		})
	}

	if c.UI.AnimationTickMs < 10 {
		errs = append(errs, ValidationError{
			Field:   "ui.animation_tick_ms",
			Message: fmt.Sprintf("must be at least 10ms, got %d", c.UI.AnimationTickMs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - CHATDECK_MODEL: overrides backend.model
//   - CHATDECK_BACKEND_URL: overrides backend.url
//   - CHATDECK_PROMPTS_DIR: overrides prompts.dir
//   - CHATDECK_METRICS_DB: overrides metrics.database_path
//   - CHATDECK_NO_METRICS: set to "1" or "true" to disable telemetry
//   - CHATDECK_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("CHATDECK_MODEL"); model != "" {
		c.Backend.Model = model
	}
	if backendURL := os.Getenv("CHATDECK_BACKEND_URL"); backendURL != "" {
		c.Backend.URL = backendURL
	}
	if dir := os.Getenv("CHATDECK_PROMPTS_DIR"); dir != "" {
		c.Prompts.Dir = dir
	}
	if db := os.Getenv("CHATDECK_METRICS_DB"); db != "" {
		c.Metrics.DatabasePath = db
	}
	if off := os.Getenv("CHATDECK_NO_METRICS"); off != "" {
		if off == "1" || strings.ToLower(off) == "true" {
			c.Metrics.Enabled = false
		}
	}
	if theme := os.Getenv("CHATDECK_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}
