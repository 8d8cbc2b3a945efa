// Package config loads the lv configuration file (.lv/config.yaml): the
// color theme, the default layout, and export and watch settings. All of it
// is optional; a missing file yields the built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Theme holds the canvas colors as #rrggbb hex strings.
type Theme struct {
	// Background is the canvas fill color
	Background string `yaml:"background,omitempty" json:"background,omitempty"`

	// Node is the plain node / bare-node fill color
	Node string `yaml:"node,omitempty" json:"node,omitempty"`

	// SelfLink is the lemniscate loop stroke color
	SelfLink string `yaml:"self_link,omitempty" json:"self_link,omitempty"`

	// Link is the regular link arrow color
	Link string `yaml:"link,omitempty" json:"link,omitempty"`

	// Text is the label color
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// Highlight marks the hovered entity
	Highlight string `yaml:"highlight,omitempty" json:"highlight,omitempty"`

	// Selected marks the entity being dragged
	Selected string `yaml:"selected,omitempty" json:"selected,omitempty"`
}

// ExportConfig controls the snapshot renderers.
type ExportConfig struct {
	// Width and Height are the snapshot surface size in pixels (default 1600x1200)
	Width  int `yaml:"width,omitempty" json:"width,omitempty"`
	Height int `yaml:"height,omitempty" json:"height,omitempty"`
}

// WatchConfig controls live reload of the input file.
type WatchConfig struct {
	// Debounce collapses rapid successive writes (default 200ms)
	Debounce time.Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`
}

// UnmarshalYAML accepts debounce as a duration string ("200ms", "1s").
func (w *WatchConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Debounce string `yaml:"debounce"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Debounce != "" {
		d, err := time.ParseDuration(raw.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		w.Debounce = d
	}
	return nil
}

// MarshalYAML writes debounce back out as a duration string.
func (w WatchConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Debounce string `yaml:"debounce,omitempty"`
	}{Debounce: w.Debounce.String()}, nil
}

// Config is the full lv configuration.
type Config struct {
	Theme Theme `yaml:"theme,omitempty" json:"theme,omitempty"`

	// DefaultLayout is applied after every load (default "spring")
	DefaultLayout string `yaml:"default_layout,omitempty" json:"default_layout,omitempty"`

	Export ExportConfig `yaml:"export,omitempty" json:"export,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty" json:"watch,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Theme: Theme{
			Background: "#222222",
			Node:       "#888888",
			SelfLink:   "#ff8888",
			Link:       "#8888ff",
			Text:       "#dddddd",
			Highlight:  "#ffff88",
			Selected:   "#aaaaaa",
		},
		DefaultLayout: "spring",
		Export: ExportConfig{
			Width:  1600,
			Height: 1200,
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	colors := map[string]string{
		"background": c.Theme.Background,
		"node":       c.Theme.Node,
		"self_link":  c.Theme.SelfLink,
		"link":       c.Theme.Link,
		"text":       c.Theme.Text,
		"highlight":  c.Theme.Highlight,
		"selected":   c.Theme.Selected,
	}
	for name, v := range colors {
		if !validHexColor(v) {
			return fmt.Errorf("theme.%s: %q is not a #rrggbb color", name, v)
		}
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return fmt.Errorf("export: dimensions must be positive, got %dx%d", c.Export.Width, c.Export.Height)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce: must not be negative")
	}
	return nil
}

func validHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// LoadConfig loads a configuration file, layering it over the defaults so a
// partial file only overrides what it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// FindConfig searches for .lv/config.yaml starting from dir and walking up
// the directory tree.
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}

	for {
		candidate := filepath.Join(dir, ".lv", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// Load resolves the effective configuration: the discovered file when one
// exists, the defaults otherwise. An explicit path that fails to load is an
// error; a merely absent discovered file is not.
func Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return LoadConfig(explicitPath)
	}

	path, err := FindConfig("")
	if err != nil {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	return LoadConfig(path)
}
