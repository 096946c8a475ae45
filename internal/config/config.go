package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"timeline_stats/internal/timeline"
)

// EventStyle defines how a group of event names is shown
type EventStyle struct {
	// Name is the display name of this group
	Name string `yaml:"name" validate:"required"`

	// Color is the catppuccin color name (e.g., "red", "yellow", "green", "mauve")
	Color string `yaml:"color"`

	// Bold makes the text bold
	Bold bool `yaml:"bold"`

	// Patterns is a list of event names that belong to this group (supports wildcards)
	Patterns []string `yaml:"patterns" validate:"required,min=1"`

	// Hide if true, matching events are left out of the events table.
	// They are still analyzed.
	Hide bool `yaml:"hide"`
}

// NormalizeConfig is the target range of the normalized histogram
type NormalizeConfig struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max" validate:"gtefield=Min"`
}

// LogConfig controls structured logging
type LogConfig struct {
	// Level is one of trace, debug, info, warn (or warning), error, disabled
	Level string `yaml:"level" validate:"oneof=trace debug info warn warning error disabled"`

	// Format is json or console
	Format string `yaml:"format" validate:"oneof=json console"`

	// File receives log output; empty means stderr, or discard in the TUI
	File string `yaml:"file"`
}

// ServerConfig configures the HTTP analyze endpoint
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`

	// MaxUploadSize caps the request body in bytes
	MaxUploadSize int64 `yaml:"max_upload_size" validate:"gt=0"`
}

// Config holds the application configuration
type Config struct {
	// Theme is the color theme to use (mocha, macchiato, frappe, latte)
	Theme string `yaml:"theme" validate:"oneof=mocha macchiato frappe latte"`

	Normalize NormalizeConfig `yaml:"normalize"`

	// TopValues is how many rows the value breakdown shows; 0 shows all
	TopValues int `yaml:"top_values" validate:"gte=0"`

	// TimestampLayouts are Go time layouts tried before the built-in ones
	TimestampLayouts []string `yaml:"timestamp_layouts"`

	// EventStyles color event names (checked in order, first match wins)
	EventStyles []EventStyle `yaml:"event_styles" validate:"dive"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Theme:     "mocha",
		Normalize: NormalizeConfig{Min: 0, Max: 1},
		TopValues: 10,
		EventStyles: []EventStyle{
			{
				Name:     "periodic",
				Color:    "blue",
				Patterns: []string{string(timeline.EventPeriodic)},
			},
			{
				Name:     "seek",
				Color:    "peach",
				Bold:     true,
				Patterns: []string{string(timeline.EventSeek)},
			},
			{
				Name:     "play",
				Color:    "green",
				Patterns: []string{string(timeline.EventPlay)},
			},
			{
				Name:     "pause",
				Color:    "yellow",
				Patterns: []string{string(timeline.EventPause)},
			},
			{
				Name:     "unmatched",
				Color:    "overlay1",
				Patterns: []string{"*"},
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxUploadSize: 10 << 20,
		},
	}
}

// Load reads the config from a YAML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //nolint:gosec // config path from known locations
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}

	return cfg, nil
}

// LoadFromDefaultPath attempts to load config from standard locations
func LoadFromDefaultPath() (*Config, error) {
	// Check in order: current dir, ~/.config/timeline_stats/, XDG_CONFIG_HOME
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "timeline_stats", "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "timeline_stats", "config.yaml"))
	}

	for _, path := range paths {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil { //nolint:gosec // config path from known locations
			return Load(cleanPath)
		}
	}

	return DefaultConfig(), nil
}

// Validate checks field constraints and reports the first violation
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("invalid config: %s failed %q (value %v)", first.Namespace(), first.Tag(), first.Value())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// Options converts the config into pipeline options
func (c *Config) Options() timeline.Options {
	return timeline.Options{
		Load:         timeline.LoadOptions{TimestampLayouts: c.TimestampLayouts},
		NormalizeMin: c.Normalize.Min,
		NormalizeMax: c.Normalize.Max,
	}
}

// GetEventStyle returns the first style matching an event name, or nil
func (c *Config) GetEventStyle(name timeline.EventName) *EventStyle {
	for i := range c.EventStyles {
		style := &c.EventStyles[i]
		if style.Matches(string(name)) {
			return style
		}
	}
	return nil
}

// Matches returns true if the event name matches this style
func (s *EventStyle) Matches(name string) bool {
	for _, p := range s.Patterns {
		if matchPattern(p, name) {
			return true
		}
	}
	return false
}

// ShouldHide returns true if events with this name are left out of the table
func (c *Config) ShouldHide(name timeline.EventName) bool {
	style := c.GetEventStyle(name)
	return style != nil && style.Hide
}

// matchPattern checks if a pattern matches (supports a single * wildcard)
func matchPattern(pattern, value string) bool {
	if pattern == value {
		return true
	}

	// e.g., "buffer*" matches "buffering" and "buffer_empty"
	if prefix, suffix, ok := strings.Cut(pattern, "*"); ok {
		return len(value) >= len(prefix)+len(suffix) &&
			strings.HasPrefix(value, prefix) && strings.HasSuffix(value, suffix)
	}

	return false
}
