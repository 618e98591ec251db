// ABOUTME: Tests for settings defaults, file merge and YAML theme loading
// ABOUTME: Uses XDG_CONFIG_HOME redirection so no real user config is touched

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	d := Defaults()
	if d.Foreground != "#00ff00" || d.Background != "black" {
		t.Errorf("default colors = %q on %q", d.Foreground, d.Background)
	}
	if d.FontSize != 17 || d.Margin != 5 {
		t.Errorf("default geometry = size %v margin %d", d.FontSize, d.Margin)
	}
	if d.FPS != 24 || d.LastFrameDuration != 3 || d.CursorBlink != 0.5 {
		t.Errorf("default timing = fps %d last %v blink %v", d.FPS, d.LastFrameDuration, d.CursorBlink)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := Defaults()
	over := Settings{
		Width:            120,
		Foreground:       "white",
		FontSize:         14,
		FallbackFamilies: []string{"Noto Sans CJK"},
	}
	got := Merge(base, over)

	if got.Width != 120 || got.Foreground != "white" || got.FontSize != 14 {
		t.Errorf("overrides not applied: %+v", got)
	}
	if got.Background != "black" || got.FPS != 24 {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if len(got.FallbackFamilies) != 1 || got.FallbackFamilies[0] != "Noto Sans CJK" {
		t.Errorf("fallback families = %v", got.FallbackFamilies)
	}

	// Zero overlay leaves base intact.
	if got := Merge(base, Settings{}); !reflect.DeepEqual(got, base) {
		t.Errorf("zero overlay changed base: %+v", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	skipIfNoXDG(t)

	s, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s, Defaults()) {
		t.Errorf("missing config file should yield pure defaults, got %+v", s)
	}
}

func TestLoadMergesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	skipIfNoXDG(t)

	cfgDir := filepath.Join(dir, "castmovie")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `{"font_size": 21, "background": "#101010", "fps": 30}`
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if s.FontSize != 21 || s.Background != "#101010" || s.FPS != 30 {
		t.Errorf("file values not merged: %+v", s)
	}
	if s.Foreground != "#00ff00" {
		t.Errorf("default foreground lost: %q", s.Foreground)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	skipIfNoXDG(t)

	cfgDir := filepath.Join(dir, "castmovie")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected parse error for malformed config")
	}
}

// skipIfNoXDG skips on platforms where UserConfigDir ignores XDG_CONFIG_HOME.
func skipIfNoXDG(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME not honored on this platform")
	}
}

func TestLoadTheme(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "theme.yaml")
	body := `foreground: "#c0c0c0"
background: "#1d1f21"
palette:
  - "#000000"
  - "#cc6666"
fonts:
  regular: /fonts/mono.ttf
  bold: /fonts/mono-bold.ttf
fallback_families:
  - Noto Sans CJK
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadTheme(path)
	if err != nil {
		t.Fatal(err)
	}
	if th.Foreground != "#c0c0c0" || th.Background != "#1d1f21" {
		t.Errorf("colors = %q on %q", th.Foreground, th.Background)
	}
	if len(th.Palette) != 2 || th.Palette[1] != "#cc6666" {
		t.Errorf("palette = %v", th.Palette)
	}
	if th.Fonts.Regular != "/fonts/mono.ttf" || th.Fonts.Bold != "/fonts/mono-bold.ttf" {
		t.Errorf("fonts = %+v", th.Fonts)
	}
	if len(th.FallbackFamilies) != 1 {
		t.Errorf("fallback families = %v", th.FallbackFamilies)
	}
}

func TestLoadThemeErrors(t *testing.T) {
	t.Parallel()

	if _, err := LoadTheme(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing theme file")
	}

	big := filepath.Join(t.TempDir(), "big.yaml")
	body := "palette:\n"
	for i := 0; i < 17; i++ {
		body += "  - \"#000000\"\n"
	}
	if err := os.WriteFile(big, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTheme(big); err == nil {
		t.Error("expected error for a 17-color palette")
	}
}
