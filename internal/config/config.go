package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/qhex/internal/hexdump"
)

type Layout struct {
	RowLength  int `toml:"row-length"`
	RowSpacing int `toml:"row-spacing"`
	ByteWidth  int `toml:"byte-width"`
}

// Hexdump converts the layout section and validates it.
func (l Layout) Hexdump() (hexdump.Layout, error) {
	layout := hexdump.Layout{
		RowLength:  l.RowLength,
		RowSpacing: l.RowSpacing,
		ByteWidth:  l.ByteWidth,
	}
	if err := layout.Validate(); err != nil {
		return hexdump.Layout{}, err
	}
	return layout, nil
}

type ViewOptions struct {
	SelectionMapping string `toml:"selection-mapping"`
	Watch            *bool  `toml:"watch"`
	RestoreSession   *bool  `toml:"restore-session"`
	ScrollMargin     int    `toml:"scroll-margin"`
}

func (v ViewOptions) WatchEnabled() bool {
	return v.Watch == nil || *v.Watch
}

func (v ViewOptions) RestoreEnabled() bool {
	return v.RestoreSession == nil || *v.RestoreSession
}

type Theme struct {
	Theme                 string `toml:"theme"`
	Foreground            string `toml:"foreground"`
	Background            string `toml:"background"`
	OffsetForeground      string `toml:"offset-foreground"`
	InactiveForeground    string `toml:"inactive-foreground"`
	SelectionForeground   string `toml:"selection-foreground"`
	SelectionBackground   string `toml:"selection-background"`
	HighlightForeground   string `toml:"highlight-foreground"`
	HighlightBackground   string `toml:"highlight-background"`
	CursorBackground      string `toml:"cursor-background"`
	StatuslineForeground  string `toml:"statusline-foreground"`
	StatuslineBackground  string `toml:"statusline-background"`
	CommandlineForeground string `toml:"commandline-foreground"`
	CommandlineBackground string `toml:"commandline-background"`
}

type Config struct {
	Layout Layout            `toml:"layout"`
	View   ViewOptions       `toml:"view"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Layout: Layout{
			RowLength:  hexdump.DefaultRowLength,
			RowSpacing: hexdump.DefaultRowSpacing,
			ByteWidth:  hexdump.DefaultByteWidth,
		},
		View: ViewOptions{
			SelectionMapping: "exact",
			ScrollMargin:     2,
		},
		Theme: Theme{
			Foreground:            "#B3B1AD",
			Background:            "#0A0E14",
			OffsetForeground:      "#F07178",
			InactiveForeground:    "#5C6773",
			SelectionForeground:   "#B3B1AD",
			SelectionBackground:   "#27425A",
			HighlightForeground:   "#0A0E14",
			HighlightBackground:   "#FF3333",
			CursorBackground:      "#E6B450",
			StatuslineForeground:  "#B3B1AD",
			StatuslineBackground:  "#0F1419",
			CommandlineForeground: "#B3B1AD",
			CommandlineBackground: "#0F1419",
		},
		Keymap: map[string]string{
			"h":           "move_left",
			"j":           "move_down",
			"k":           "move_up",
			"l":           "move_right",
			"left":        "move_left",
			"down":        "move_down",
			"up":          "move_up",
			"right":       "move_right",
			"shift+left":  "select_left",
			"shift+right": "select_right",
			"shift+up":    "select_up",
			"shift+down":  "select_down",
			"H":           "select_left",
			"L":           "select_right",
			"K":           "select_up",
			"J":           "select_down",
			"home":        "row_start",
			"end":         "row_end",
			"0":           "row_start",
			"$":           "row_end",
			"g":           "file_start",
			"G":           "file_end",
			"ctrl+home":   "file_start",
			"ctrl+end":    "file_end",
			"pgup":        "page_up",
			"pgdn":        "page_down",
			"ctrl+y":      "scroll_up",
			"ctrl+e":      "scroll_down",
			"tab":         "switch_lane",
			"shift+tab":   "switch_lane",
			"v":           "toggle_select",
			";":           "collapse_selection",
			"esc":         "collapse_selection",
			"%":           "select_all",
			"y":           "yank",
			":":           "enter_command",
			"ctrl+j":      "goto_offset_prompt",
			"r":           "reload",
			"q":           "quit",
			"ctrl+c":      "quit",
		},
	}
}

// Load returns the defaults merged with the user's config.toml and theme.
func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	md, err := toml.Decode(string(data), &userCfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	// Explicit zero values are kept so the layout check rejects them.
	if md.IsDefined("layout", "row-length") {
		cfg.Layout.RowLength = userCfg.Layout.RowLength
	}
	if md.IsDefined("layout", "row-spacing") {
		cfg.Layout.RowSpacing = userCfg.Layout.RowSpacing
	}
	if md.IsDefined("layout", "byte-width") {
		cfg.Layout.ByteWidth = userCfg.Layout.ByteWidth
	}
	if _, err := cfg.Layout.Hexdump(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if userCfg.View.SelectionMapping != "" {
		cfg.View.SelectionMapping = userCfg.View.SelectionMapping
	}
	if _, err := hexdump.ParseStrategy(cfg.View.SelectionMapping); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if userCfg.View.Watch != nil {
		cfg.View.Watch = userCfg.View.Watch
	}
	if userCfg.View.RestoreSession != nil {
		cfg.View.RestoreSession = userCfg.View.RestoreSession
	}
	if md.IsDefined("view", "scroll-margin") {
		if userCfg.View.ScrollMargin < 0 {
			return cfg, fmt.Errorf("%s: scroll-margin must not be negative, got %d", path, userCfg.View.ScrollMargin)
		}
		cfg.View.ScrollMargin = userCfg.View.ScrollMargin
	}

	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}
	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.OffsetForeground, src.OffsetForeground)
	set(&dst.InactiveForeground, src.InactiveForeground)
	set(&dst.SelectionForeground, src.SelectionForeground)
	set(&dst.SelectionBackground, src.SelectionBackground)
	set(&dst.HighlightForeground, src.HighlightForeground)
	set(&dst.HighlightBackground, src.HighlightBackground)
	set(&dst.CursorBackground, src.CursorBackground)
	set(&dst.StatuslineForeground, src.StatuslineForeground)
	set(&dst.StatuslineBackground, src.StatuslineBackground)
	set(&dst.CommandlineForeground, src.CommandlineForeground)
	set(&dst.CommandlineBackground, src.CommandlineBackground)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The keys may sit at the top level or
// under a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QHEX_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qhex"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qhex"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
