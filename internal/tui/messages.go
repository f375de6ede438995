package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/swipedeck/internal/cards"
)

// ItemsMsg replaces the deck shown by the deck page. Other goroutines
// deliver it with tea.Program.Send.
type ItemsMsg struct {
	Deck   cards.Deck
	Source string
}

// loadFailedMsg reports a reload that could not be read.
type loadFailedMsg struct {
	err error
}

// frameMsg drives animations.
type frameMsg time.Time

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// DeckLoader reads the deck afresh for the reload key.
type DeckLoader func() (cards.Deck, error)

func reloadCmd(load DeckLoader) tea.Cmd {
	return func() tea.Msg {
		d, err := load()
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return ItemsMsg{Deck: d, Source: "reload"}
	}
}
