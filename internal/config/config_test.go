package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kobzarvs/qhex/internal/hexdump"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QHEX_CONFIG_HOME", "/tmp/qhex-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/qhex-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/qhex-config")
	}

	t.Setenv("QHEX_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/qhex" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/qhex")
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	t.Setenv("QHEX_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	layout, err := cfg.Layout.Hexdump()
	if err != nil {
		t.Fatalf("default layout: %v", err)
	}
	if layout != hexdump.DefaultLayout() {
		t.Fatalf("layout = %+v, want %+v", layout, hexdump.DefaultLayout())
	}
	if !cfg.View.WatchEnabled() || !cfg.View.RestoreEnabled() {
		t.Fatalf("watch/restore should default to enabled")
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QHEX_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
highlight-background = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[layout]
row-length = 8
row-spacing = 2

[view]
selection-mapping = "legacy"
watch = false

[theme]
theme = "test"
highlight-background = "#123456"

[keymap]
x = "quit"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Layout.RowLength != 8 || cfg.Layout.RowSpacing != 2 || cfg.Layout.ByteWidth != 2 {
		t.Fatalf("Layout = %+v, want 8/2/2", cfg.Layout)
	}
	if cfg.View.SelectionMapping != "legacy" {
		t.Fatalf("SelectionMapping = %q, want %q", cfg.View.SelectionMapping, "legacy")
	}
	if cfg.View.WatchEnabled() {
		t.Fatalf("WatchEnabled = true, want false")
	}
	if !cfg.View.RestoreEnabled() {
		t.Fatalf("RestoreEnabled = false, want true")
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.HighlightBackground != "#123456" {
		t.Fatalf("HighlightBackground = %q, want %q", cfg.Theme.HighlightBackground, "#123456")
	}
	if cfg.Keymap["x"] != "quit" {
		t.Fatalf("keymap x = %q, want %q", cfg.Keymap["x"], "quit")
	}
	if cfg.Keymap["h"] != "move_left" {
		t.Fatalf("keymap h = %q, want %q", cfg.Keymap["h"], "move_left")
	}
}

func TestLoadRejectsBadLayout(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QHEX_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[layout]
row-length = 16
row-spacing = 5
`)
	_, err := Load()
	if !errors.Is(err, hexdump.ErrInvalidLayout) {
		t.Fatalf("Load error = %v, want ErrInvalidLayout", err)
	}
}

func TestLoadRejectsExplicitZero(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QHEX_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[layout]
byte-width = 0
`)
	if _, err := Load(); !errors.Is(err, hexdump.ErrInvalidLayout) {
		t.Fatalf("Load error = %v, want ErrInvalidLayout", err)
	}
}

func TestLoadKeepsZeroScrollMargin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QHEX_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[view]
scroll-margin = 0
`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.View.ScrollMargin != 0 {
		t.Fatalf("ScrollMargin = %d, want 0", cfg.View.ScrollMargin)
	}

	writeFile(t, filepath.Join(dir, "config.toml"), `
[view]
scroll-margin = -1
`)
	if _, err := Load(); err == nil {
		t.Fatalf("Load: want error for negative scroll-margin")
	}
}

func TestLoadRejectsUnknownMapping(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QHEX_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[view]
selection-mapping = "fuzzy"
`)
	if _, err := Load(); err == nil {
		t.Fatalf("Load: want error for unknown selection mapping")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QHEX_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
offset-foreground = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.OffsetForeground != "#bbbbbb" {
		t.Fatalf("OffsetForeground = %q, want %q", theme.OffsetForeground, "#bbbbbb")
	}
}
