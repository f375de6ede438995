package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette used across pages. InitializeSkin replaces these at startup.
var (
	ColorBlue   = lipgloss.Color("39")
	ColorGray   = lipgloss.Color("245")
	ColorRed    = lipgloss.Color("196")
	ColorGreen  = lipgloss.Color("42")
	ColorOrange = lipgloss.Color("208")
	ColorWhite  = lipgloss.Color("255")
)

// Skin is a named color palette. Empty fields keep the current color.
type Skin struct {
	Name   string `yaml:"name"`
	Accent string `yaml:"accent"`
	Muted  string `yaml:"muted"`
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	Warn   string `yaml:"warn"`
	Text   string `yaml:"text"`
}

var builtinSkins = map[string]Skin{
	"default": {
		Name:   "default",
		Accent: "39",
		Muted:  "245",
		Left:   "196",
		Right:  "42",
		Warn:   "208",
		Text:   "255",
	},
	"mono": {
		Name:   "mono",
		Accent: "255",
		Muted:  "242",
		Left:   "250",
		Right:  "255",
		Warn:   "250",
		Text:   "255",
	},
}

// InitializeSkin applies the named skin. A file at configDir/skins/<name>.yml
// takes precedence over the built-in skins.
func InitializeSkin(name, configDir string) error {
	if name == "" {
		name = "default"
	}

	if configDir != "" {
		path := filepath.Join(configDir, "skins", name+".yml")
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var s Skin
			if err := yaml.Unmarshal(data, &s); err != nil {
				return fmt.Errorf("tui: parse skin %s: %w", path, err)
			}
			applySkin(builtinSkins["default"])
			applySkin(s)
			return nil
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("tui: read skin %s: %w", path, err)
		}
	}

	s, ok := builtinSkins[name]
	if !ok {
		return fmt.Errorf("tui: unknown skin %q", name)
	}
	applySkin(s)
	return nil
}

func applySkin(s Skin) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&ColorBlue, s.Accent)
	set(&ColorGray, s.Muted)
	set(&ColorRed, s.Left)
	set(&ColorGreen, s.Right)
	set(&ColorOrange, s.Warn)
	set(&ColorWhite, s.Text)
}
