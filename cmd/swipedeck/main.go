package main

import (
	"flag"
	"fmt"
	"os"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	var configPath string
	var deckPath string
	var showVersion bool
	var noAPI bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/swipedeck/config.yml)")
	flag.StringVar(&deckPath, "deck", "", "deck file to swipe through (YAML or JSON); overrides deck-file")
	flag.BoolVar(&noAPI, "no-api", false, "disable the HTTP API")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("swipedeck - Swipeable Card Deck\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if deckPath != "" {
		cfg.DeckFile = deckPath
	}
	if noAPI {
		cfg.APIEnabled = false
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
