// Package config provides configuration management for mdflow.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a field is unset.
const (
	DefaultTypingSpeedMS = 80
	DefaultChunkSize     = 8
	DefaultChunkDelayMS  = 40
	DefaultOutputFormat  = "table"
	DefaultTheme         = "auto"
)

var validThemes = map[string]bool{
	"auto":  true,
	"dark":  true,
	"light": true,
	"notty": true,
	"ascii": true,
}

// Config holds the mdflow configuration.
type Config struct {
	TypingSpeedMS     int    `yaml:"typing_speed_ms,omitempty"`
	DisableTypewriter bool   `yaml:"disable_typewriter,omitempty"`
	BareButtons       bool   `yaml:"bare_buttons,omitempty"`
	Normalize         bool   `yaml:"normalize,omitempty"`
	OutputFormat      string `yaml:"output_format,omitempty"`
	Theme             string `yaml:"theme,omitempty"`
	ChunkSize         int    `yaml:"chunk_size,omitempty"`
	ChunkDelayMS      int    `yaml:"chunk_delay_ms,omitempty"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.TypingSpeedMS == 0 {
		c.TypingSpeedMS = DefaultTypingSpeedMS
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkDelayMS == 0 {
		c.ChunkDelayMS = DefaultChunkDelayMS
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultOutputFormat
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.TypingSpeedMS < 0 {
		return errors.New("typing_speed_ms must not be negative")
	}
	if c.ChunkSize < 0 {
		return errors.New("chunk_size must not be negative")
	}
	if c.ChunkDelayMS < 0 {
		return errors.New("chunk_delay_ms must not be negative")
	}
	switch c.OutputFormat {
	case "", "table", "json", "plain":
	default:
		return fmt.Errorf("output_format must be table, json or plain, got %q", c.OutputFormat)
	}
	if c.Theme != "" && !validThemes[c.Theme] {
		return fmt.Errorf("theme must be auto, dark, light, notty or ascii, got %q", c.Theme)
	}
	return nil
}

// TypingSpeed returns the delay between reveal ticks.
func (c *Config) TypingSpeed() time.Duration {
	return time.Duration(c.TypingSpeedMS) * time.Millisecond
}

// ChunkDelay returns the delay between simulated stream chunks.
func (c *Config) ChunkDelay() time.Duration {
	return time.Duration(c.ChunkDelayMS) * time.Millisecond
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and valid.
func (c *Config) LoadFromEnv() {
	if v, ok := envInt("MDFLOW_TYPING_SPEED_MS"); ok {
		c.TypingSpeedMS = v
	}
	if v, ok := envBool("MDFLOW_DISABLE_TYPEWRITER"); ok {
		c.DisableTypewriter = v
	}
	if v, ok := envBool("MDFLOW_BARE_BUTTONS"); ok {
		c.BareButtons = v
	}
	if v, ok := envBool("MDFLOW_NORMALIZE"); ok {
		c.Normalize = v
	}
	if v := os.Getenv("MDFLOW_OUTPUT_FORMAT"); v != "" {
		c.OutputFormat = v
	}
	if v := os.Getenv("MDFLOW_THEME"); v != "" {
		c.Theme = v
	}
	if v, ok := envInt("MDFLOW_CHUNK_SIZE"); ok {
		c.ChunkSize = v
	}
	if v, ok := envInt("MDFLOW_CHUNK_DELAY_MS"); ok {
		c.ChunkDelayMS = v
	}
}

// EnvVars lists the environment variables read by LoadFromEnv.
func EnvVars() []string {
	return []string{
		"MDFLOW_TYPING_SPEED_MS",
		"MDFLOW_DISABLE_TYPEWRITER",
		"MDFLOW_BARE_BUTTONS",
		"MDFLOW_NORMALIZE",
		"MDFLOW_OUTPUT_FORMAT",
		"MDFLOW_THEME",
		"MDFLOW_CHUNK_SIZE",
		"MDFLOW_CHUNK_DELAY_MS",
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	// Try XDG config directory first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mdflow", "config.yml")
	}

	// Fall back to ~/.config/mdflow/config.yml
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".mdflow", "config.yml")
	}

	return filepath.Join(home, ".config", "mdflow", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
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

// LoadWithEnv loads configuration from file, overrides with environment
// variables and applies defaults. A missing file is not an error.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}
