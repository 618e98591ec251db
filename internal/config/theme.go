// ABOUTME: YAML theme files: default colors, 16-color palette, font paths
// ABOUTME: A theme overrides settings colors; explicit flags still win

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme is a named look for rendered terminals.
type Theme struct {
	Foreground string   `yaml:"foreground"`
	Background string   `yaml:"background"`
	Palette    []string `yaml:"palette"` // up to 16 ANSI colors, index order
	Fonts      struct {
		Regular    string `yaml:"regular"`
		Bold       string `yaml:"bold"`
		Italic     string `yaml:"italic"`
		BoldItalic string `yaml:"bold_italic"`
	} `yaml:"fonts"`
	FallbackFamilies []string `yaml:"fallback_families"`
}

// LoadTheme reads a theme from a YAML file.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading theme: %w", err)
	}
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %s: %w", path, err)
	}
	if len(t.Palette) > 16 {
		return nil, fmt.Errorf("theme %s: palette has %d colors, max 16", path, len(t.Palette))
	}
	return &t, nil
}
