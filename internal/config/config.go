// ABOUTME: Settings loading with defaults + global config file merge
// ABOUTME: JSON-based configuration using encoding/json; flags override at the CLI

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings enumerates every conversion option with its default. CLI flags
// bind directly onto a merged Settings value.
type Settings struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Foreground string `json:"foreground,omitempty"`
	Background string `json:"background,omitempty"`

	FontRegular    string `json:"font_regular,omitempty"`
	FontBold       string `json:"font_bold,omitempty"`
	FontItalic     string `json:"font_italic,omitempty"`
	FontBoldItalic string `json:"font_bold_italic,omitempty"`

	FallbackFamilies []string `json:"fallback_families,omitempty"`

	FontSize    float64 `json:"font_size,omitempty"`
	LineSpacing int     `json:"line_spacing,omitempty"`
	Margin      int     `json:"margin,omitempty"`
	Antialias   int     `json:"antialias,omitempty"`

	CursorBlink       float64 `json:"cursor_blink,omitempty"`        // seconds; half-period shown first
	LastFrameDuration float64 `json:"last_frame_duration,omitempty"` // seconds
	FPS               int     `json:"fps,omitempty"`

	Theme string `json:"theme,omitempty"` // path to a YAML theme file
}

// Defaults returns the built-in settings: green on black, 17px, 5px margin,
// 24 fps, 3s tail.
func Defaults() Settings {
	return Settings{
		Foreground:        "#00ff00",
		Background:        "black",
		FontSize:          17,
		Margin:            5,
		CursorBlink:       0.5,
		LastFrameDuration: 3,
		FPS:               24,
	}
}

// GlobalConfigFile returns the path of the user-wide settings file.
func GlobalConfigFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "castmovie", "config.json")
	}
	return ""
}

// Load merges the global config file (when present) onto the defaults.
func Load() (Settings, error) {
	s := Defaults()
	path := GlobalConfigFile()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("loading config: %w", err)
	}
	var over Settings
	if err := json.Unmarshal(data, &over); err != nil {
		return s, fmt.Errorf("parsing %s: %w", path, err)
	}
	return Merge(s, over), nil
}

// Merge overlays non-zero fields of over onto base.
func Merge(base, over Settings) Settings {
	result := base

	if over.Width != 0 {
		result.Width = over.Width
	}
	if over.Height != 0 {
		result.Height = over.Height
	}
	if over.Foreground != "" {
		result.Foreground = over.Foreground
	}
	if over.Background != "" {
		result.Background = over.Background
	}
	if over.FontRegular != "" {
		result.FontRegular = over.FontRegular
	}
	if over.FontBold != "" {
		result.FontBold = over.FontBold
	}
	if over.FontItalic != "" {
		result.FontItalic = over.FontItalic
	}
	if over.FontBoldItalic != "" {
		result.FontBoldItalic = over.FontBoldItalic
	}
	if len(over.FallbackFamilies) > 0 {
		result.FallbackFamilies = append([]string(nil), over.FallbackFamilies...)
	}
	if over.FontSize != 0 {
		result.FontSize = over.FontSize
	}
	if over.LineSpacing != 0 {
		result.LineSpacing = over.LineSpacing
	}
	if over.Margin != 0 {
		result.Margin = over.Margin
	}
	if over.Antialias != 0 {
		result.Antialias = over.Antialias
	}
	if over.CursorBlink != 0 {
		result.CursorBlink = over.CursorBlink
	}
	if over.LastFrameDuration != 0 {
		result.LastFrameDuration = over.LastFrameDuration
	}
	if over.FPS != 0 {
		result.FPS = over.FPS
	}
	if over.Theme != "" {
		result.Theme = over.Theme
	}

	return result
}
