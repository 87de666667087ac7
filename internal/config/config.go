// Package config provides configuration management for vkc.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultKeymap is the keymap directory used when none is configured.
const DefaultKeymap = "vial"

// Config holds the vkc configuration.
type Config struct {
	KeyboardDir  string `yaml:"keyboard_dir"`
	Keymap       string `yaml:"keymap,omitempty"`
	Layout       string `yaml:"layout,omitempty"`
	OutputFormat string `yaml:"output_format,omitempty"`
	AutoConfirm  bool   `yaml:"auto_confirm,omitempty"`
}

// Validate checks that all required fields are present and valid.
func (c *Config) Validate() error {
	if c.KeyboardDir == "" {
		return errors.New("keyboard_dir is required")
	}
	if strings.ContainsAny(c.Keymap, `/\`) {
		return errors.New("keymap must be a directory name, not a path")
	}
	if c.Layout != "" && !strings.HasPrefix(c.Layout, "LAYOUT") {
		return errors.New("layout must name a LAYOUT macro")
	}
	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("output_format must be table, json or plain, got %q", c.OutputFormat)
	}
	return nil
}

// KeymapName returns the configured keymap or DefaultKeymap.
func (c *Config) KeymapName() string {
	if c.Keymap == "" {
		return DefaultKeymap
	}
	return c.Keymap
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if dir := os.Getenv("VKC_KEYBOARD_DIR"); dir != "" {
		c.KeyboardDir = dir
	}
	if keymap := os.Getenv("VKC_KEYMAP"); keymap != "" {
		c.Keymap = keymap
	}
	if layout := os.Getenv("VKC_LAYOUT"); layout != "" {
		c.Layout = layout
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "vkc", "config.yml")
	}

	// Fall back to ~/.config/vkc/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".vkc", "config.yml")
	}

	return filepath.Join(home, ".config", "vkc", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		// If file doesn't exist, start with empty config
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
