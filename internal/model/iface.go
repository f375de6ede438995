package model

// DecisionWriter persists dismissals.
type DecisionWriter interface {
	InsertDecisions(decisions []Decision) error
}

// DecisionReader provides read-only queries over recorded dismissals.
type DecisionReader interface {
	Tally(deck string) (Tally, error)
	RecentDecisions(deck string, limit int) ([]Decision, error)
	CardHistory(cardID string) ([]Decision, error)
	Decks() ([]DeckCount, error)
}

// DecisionStore is the full store contract used by the binary.
type DecisionStore interface {
	DecisionWriter
	DecisionReader
}
