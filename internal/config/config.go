package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/mdslate/convert"
)

// Diff styles understood by the roundtrip command
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "plain"
)

// DiffConfig controls how round-trip diffs are shown
type DiffConfig struct {
	Style    string `yaml:"style"`
	WordWrap int    `yaml:"word_wrap"`
}

// Config represents the mdslate configuration
type Config struct {
	MaxDepth        int        `yaml:"max_depth"`
	StrictFootnotes bool       `yaml:"strict_footnotes"`
	InlineNotes     bool       `yaml:"inline_notes"`
	LogLevel        string     `yaml:"log_level"`
	LogFile         string     `yaml:"log_file,omitempty"` // empty logs to stderr
	Diff            DiffConfig `yaml:"diff"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:        convert.DefaultMaxDepth,
		StrictFootnotes: false,
		InlineNotes:     true,
		LogLevel:        "warn",
		Diff: DiffConfig{
			Style:    StyleAuto,
			WordWrap: 100,
		},
	}
}

// ConfigPath returns the path to the config file
// Can be overridden for testing
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "mdslate", "config.yaml")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from path. Keys missing from the file keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes configuration to configPath
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': %w", c.LogLevel, err)
	}

	validStyles := map[string]bool{
		StyleAuto:  true,
		StyleDark:  true,
		StyleLight: true,
		StylePlain: true,
	}
	if !validStyles[c.Diff.Style] {
		return fmt.Errorf("invalid diff.style '%s': must be one of: auto, dark, light, plain", c.Diff.Style)
	}
	if c.Diff.WordWrap < 0 {
		return fmt.Errorf("diff.word_wrap cannot be negative")
	}

	return nil
}

// Level returns the parsed log level, warn if it cannot be parsed
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// EngineOptions returns the conversion options described by the config
func (c *Config) EngineOptions() []convert.Option {
	return []convert.Option{
		convert.WithMaxDepth(c.MaxDepth),
		convert.WithStrictFootnotes(c.StrictFootnotes),
		convert.WithInlineNotes(c.InlineNotes),
	}
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
