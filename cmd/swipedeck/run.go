package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/swipedeck/internal/cards"
	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/duckdb"
	"github.com/tinytelemetry/swipedeck/internal/httpserver"
	"github.com/tinytelemetry/swipedeck/internal/journal"
	"github.com/tinytelemetry/swipedeck/internal/recorder"
	"github.com/tinytelemetry/swipedeck/internal/tui"
)

// services is everything run needs besides the terminal program.
type services struct {
	store     *duckdb.Store
	journal   *journal.Journal
	recorder  *recorder.Recorder
	retention *duckdb.RetentionCleaner
	snapshots *deck.Publisher
}

// openServices opens the store and journal and replays decisions a previous
// run left uncommitted.
func openServices(cfg appConfig) (*services, error) {
	store, err := duckdb.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DuckDB: %w", err)
	}
	svc := &services{store: store, snapshots: &deck.Publisher{}}

	if cfg.JournalEnabled {
		svc.journal, err = journal.Open(cfg.JournalPath)
		if err != nil {
			svc.close()
			return nil, fmt.Errorf("failed to open decision journal: %w", err)
		}
	}

	svc.recorder = recorder.New(store, recorder.Config{
		FlushInterval: cfg.FlushInterval,
		Journal:       svc.journal,
	})
	n, err := svc.recorder.ReplayJournal()
	if err != nil {
		svc.close()
		return nil, fmt.Errorf("failed to replay decision journal: %w", err)
	}
	if n > 0 {
		log.Printf("decision journal: replayed %d uncommitted decisions", n)
	}

	svc.retention = duckdb.NewRetentionCleaner(store, duckdb.RetentionConfig{
		RetentionDays: cfg.RetentionDays,
	})
	return svc, nil
}

func (s *services) close() {
	if s.retention != nil {
		s.retention.Stop()
	}
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			log.Printf("decision journal: close: %v", err)
		}
	}
	if err := s.store.Close(); err != nil {
		log.Printf("duckdb: close: %v", err)
	}
}

// loadDeck reads the configured deck file, or the built-in sample deck when
// none is configured.
func loadDeck(path string) (cards.Deck, error) {
	if path == "" {
		return cards.Sample(), nil
	}
	d, err := cards.Load(path)
	if err != nil {
		return cards.Deck{}, fmt.Errorf("failed to load deck: %w", err)
	}
	return d, nil
}

func deckOptions(cfg appConfig) tui.DeckOptions {
	session := cfg.Session
	if session == "" {
		session = uuid.NewString()
	}
	return tui.DeckOptions{
		ThresholdRatio:   cfg.ThresholdRatio,
		SwipeOutDuration: cfg.SwipeOutDuration,
		ExitMultiplier:   cfg.ExitMultiplier,
		StackStep:        cfg.StackStep,
		FPS:              cfg.FPS,
		Session:          session,
	}
}

// run starts the swipe deck TUI with its recorder, API server and deck file
// watcher.
func run(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	if err := tui.InitializeSkin(cfg.Skin, cfg.configDir()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load skin '%s': %v (using default)\n", cfg.Skin, err)
	}

	initial, err := loadDeck(cfg.DeckFile)
	if err != nil {
		return err
	}

	svc, err := openServices(cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	var loader tui.DeckLoader
	if cfg.DeckFile != "" {
		loader = func() (cards.Deck, error) { return cards.Load(cfg.DeckFile) }
	}

	deckPage := tui.NewDeckPage(tui.DeckPageConfig{
		Deck:      initial,
		Options:   deckOptions(cfg),
		Recorder:  svc.recorder,
		Snapshots: svc.snapshots,
		Loader:    loader,
	})
	app := tui.NewApp(deckPage, tui.NewStatsPage(svc.store, svc.snapshots))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Everything outside the program hands decks over through Send so the
	// controller keeps a single writer.
	sendDeck := func(source string) func(cards.Deck) {
		return func(d cards.Deck) {
			p.Send(tui.ItemsMsg{Deck: d, Source: source})
		}
	}

	// Bind the API before starting goroutines.
	var apiServer *httpserver.Server
	if cfg.APIEnabled {
		sink := httpserver.DeckSinkFunc(func(d cards.Deck) error {
			sendDeck("api")(d)
			return nil
		})
		apiServer = httpserver.NewServer(cfg.APIAddr, svc.store, svc.snapshots, sink)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
		log.Printf("api: listening on %s", apiServer.Addr())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svc.recorder.Run(gctx)
	})

	if apiServer != nil {
		g.Go(func() error {
			<-gctx.Done()
			return apiServer.Stop()
		})
	}

	if cfg.WatchDeck && cfg.DeckFile != "" {
		g.Go(func() error {
			return cards.Watch(gctx, cfg.DeckFile, cards.DefaultDebounce, sendDeck("watch"))
		})
	}

	g.Go(func() error {
		// The program ending, for any reason, stops everything else.
		defer cancel()
		if _, err := p.Run(); err != nil {
			if strings.Contains(err.Error(), "TTY") || strings.Contains(err.Error(), "/dev/tty") {
				return errors.New("TUI requires a real terminal")
			}
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	return g.Wait()
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "swipedeck")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "swipedeck.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
}
