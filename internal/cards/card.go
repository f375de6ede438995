// Package cards defines the items swiped through the deck and loads them
// from YAML or JSON deck files.
package cards

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateKey is returned when two cards in a deck share a key.
var ErrDuplicateKey = errors.New("cards: duplicate card key")

// ErrMissingKey is returned when a card has neither an ID nor a title.
var ErrMissingKey = errors.New("cards: card has no id or title")

// Card is one item in a deck.
type Card struct {
	ID       string            `json:"id" yaml:"id"`
	Title    string            `json:"title" yaml:"title"`
	Subtitle string            `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Body     string            `json:"body,omitempty" yaml:"body,omitempty"`
	Tags     []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Meta     map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Key returns the card's stable identity: its ID, or its title when no ID
// is set.
func (c Card) Key() string {
	if id := strings.TrimSpace(c.ID); id != "" {
		return id
	}
	return strings.TrimSpace(c.Title)
}

// Deck is a named, ordered set of cards.
type Deck struct {
	Name  string `json:"name" yaml:"name"`
	Cards []Card `json:"cards" yaml:"cards"`
}

// Validate checks that every card has a key and that keys are unique.
// An empty deck is valid.
func (d Deck) Validate() error {
	seen := make(map[string]int, len(d.Cards))
	for i, c := range d.Cards {
		key := c.Key()
		if key == "" {
			return fmt.Errorf("%w: card %d", ErrMissingKey, i)
		}
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: %q at %d and %d", ErrDuplicateKey, key, prev, i)
		}
		seen[key] = i
	}
	return nil
}
