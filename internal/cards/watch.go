package cards

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change to a
// deck file before reloading it.
const DefaultDebounce = 150 * time.Millisecond

// Watch reloads the deck file at path whenever it changes and passes the new
// deck to onChange. It blocks until ctx is done. Decks that fail to load are
// logged and skipped.
//
// The parent directory is watched so rename-over saves are seen.
func Watch(ctx context.Context, path string, debounce time.Duration, onChange func(Deck)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cards: watch %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cards: new watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("cards: watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("cards: watcher error: %v", err)

		case <-timer.C:
			d, err := Load(abs)
			if err != nil {
				log.Printf("cards: reload skipped: %v", err)
				continue
			}
			onChange(d)
		}
	}
}
