package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/swipedeck/internal/model"
)

const (
	defaultThresholdRatio   = model.DefaultThresholdRatio
	defaultSwipeOutDuration = model.DefaultSwipeOutDuration
	defaultExitMultiplier   = model.DefaultExitMultiplier
	defaultStackStep        = model.DefaultStackStep
	defaultSkin             = model.DefaultSkin
	defaultFlushInterval    = model.DefaultFlushInterval
	defaultQueryTimeout     = model.DefaultQueryTimeout
	defaultBindHost         = "127.0.0.1"
	defaultAPIPort          = 3000
	defaultFPS              = model.DefaultFPS
	defaultRetentionDays    = 0 // days, 0 = keep forever
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DeckFile         string        `mapstructure:"deck-file"`
	WatchDeck        bool          `mapstructure:"watch-deck"`
	ThresholdRatio   float64       `mapstructure:"threshold-ratio"`
	SwipeOutDuration time.Duration `mapstructure:"swipe-out-duration"`
	ExitMultiplier   float64       `mapstructure:"exit-multiplier"`
	StackStep        float64       `mapstructure:"stack-step"`
	FPS              int           `mapstructure:"fps"`
	Skin             string        `mapstructure:"skin"`
	Session          string        `mapstructure:"session"`
	DBPath           string        `mapstructure:"db-path"`
	QueryTimeout     time.Duration `mapstructure:"query-timeout"`
	RetentionDays    int           `mapstructure:"retention-days"`
	JournalEnabled   bool          `mapstructure:"journal-enabled"`
	JournalPath      string        `mapstructure:"journal-path"`
	FlushInterval    time.Duration `mapstructure:"flush-interval"`
	APIEnabled       bool          `mapstructure:"api-enabled"`
	APIPort          int           `mapstructure:"api-port"`
	APIAddr          string        `mapstructure:"api-addr"`
	ConfigPath       string        `mapstructure:"-"` // not from config file
}

// configDir returns the directory skins and the default config live in.
func (c appConfig) configDir() string {
	if c.ConfigPath != "" {
		return filepath.Dir(c.ConfigPath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "swipedeck")
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	dataDir := filepath.Join(home, ".local", "share", "swipedeck")

	v := viper.New()
	v.SetEnvPrefix("SWIPEDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("deck-file", "")
	v.SetDefault("watch-deck", true)
	v.SetDefault("threshold-ratio", defaultThresholdRatio)
	v.SetDefault("swipe-out-duration", defaultSwipeOutDuration)
	v.SetDefault("exit-multiplier", defaultExitMultiplier)
	v.SetDefault("stack-step", defaultStackStep)
	v.SetDefault("fps", defaultFPS)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("session", "")
	v.SetDefault("db-path", filepath.Join(dataDir, "swipedeck.duckdb"))
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("retention-days", defaultRetentionDays)
	v.SetDefault("journal-enabled", true)
	v.SetDefault("journal-path", filepath.Join(dataDir, "swipes.journal"))
	v.SetDefault("flush-interval", defaultFlushInterval)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("api-addr", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "swipedeck", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
		cfg.ConfigPath = v.ConfigFileUsed()
	}

	if cfg.ThresholdRatio <= 0 || cfg.ThresholdRatio >= 1 {
		return cfg, fmt.Errorf("invalid threshold-ratio: %v (want between 0 and 1)", cfg.ThresholdRatio)
	}
	if cfg.SwipeOutDuration <= 0 {
		return cfg, fmt.Errorf("invalid swipe-out-duration: %s", cfg.SwipeOutDuration)
	}
	if cfg.ExitMultiplier < 1 {
		return cfg, fmt.Errorf("invalid exit-multiplier: %v (cards must leave the surface)", cfg.ExitMultiplier)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}

	// Expand ~ in paths
	cfg.DeckFile = expandHome(cfg.DeckFile, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.JournalPath = expandHome(cfg.JournalPath, home)

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
