package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ThresholdRatio != defaultThresholdRatio {
		t.Errorf("threshold-ratio = %v, want %v", cfg.ThresholdRatio, defaultThresholdRatio)
	}
	if cfg.SwipeOutDuration != 250*time.Millisecond {
		t.Errorf("swipe-out-duration = %s, want 250ms", cfg.SwipeOutDuration)
	}
	if cfg.ExitMultiplier != 1.2 || cfg.StackStep != 10 {
		t.Errorf("exit-multiplier/stack-step = %v/%v", cfg.ExitMultiplier, cfg.StackStep)
	}
	if !cfg.APIEnabled || cfg.APIAddr != "127.0.0.1:3000" {
		t.Errorf("api = %v %q", cfg.APIEnabled, cfg.APIAddr)
	}
	if want := filepath.Join(home, ".local", "share", "swipedeck", "swipedeck.duckdb"); cfg.DBPath != want {
		t.Errorf("db-path = %q, want %q", cfg.DBPath, want)
	}
	if !cfg.JournalEnabled || !strings.HasSuffix(cfg.JournalPath, "swipes.journal") {
		t.Errorf("journal = %v %q", cfg.JournalEnabled, cfg.JournalPath)
	}
	if cfg.ConfigPath != "" {
		t.Errorf("config path = %q, want empty without a file", cfg.ConfigPath)
	}
	if want := filepath.Join(home, ".config", "swipedeck"); cfg.configDir() != want {
		t.Errorf("configDir = %q, want %q", cfg.configDir(), want)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SWIPEDECK_API_PORT", "4100")

	path := writeConfig(t, t.TempDir(), `
deck-file: ~/decks/trips.yml
threshold-ratio: 0.3
swipe-out-duration: 400ms
skin: mono
journal-enabled: false
api-port: 3900
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if want := filepath.Join(home, "decks", "trips.yml"); cfg.DeckFile != want {
		t.Errorf("deck-file = %q, want %q", cfg.DeckFile, want)
	}
	if cfg.ThresholdRatio != 0.3 || cfg.SwipeOutDuration != 400*time.Millisecond {
		t.Errorf("threshold/duration = %v/%s", cfg.ThresholdRatio, cfg.SwipeOutDuration)
	}
	if cfg.Skin != "mono" || cfg.JournalEnabled {
		t.Errorf("skin/journal = %q/%v", cfg.Skin, cfg.JournalEnabled)
	}
	if cfg.APIPort != 4100 || cfg.APIAddr != "127.0.0.1:4100" {
		t.Errorf("env did not override api-port: %d %q", cfg.APIPort, cfg.APIAddr)
	}
	if cfg.ConfigPath != path || cfg.configDir() != filepath.Dir(path) {
		t.Errorf("config path = %q", cfg.ConfigPath)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"ratio zero", "threshold-ratio: 0", "threshold-ratio"},
		{"ratio one", "threshold-ratio: 1", "threshold-ratio"},
		{"duration", "swipe-out-duration: 0s", "swipe-out-duration"},
		{"multiplier", "exit-multiplier: 0.5", "exit-multiplier"},
		{"port", "api-port: 70000", "api-port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := loadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("loadConfig error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, t.TempDir(), "api-port: [\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}
