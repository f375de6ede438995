package model

import "time"

// Direction values recorded for a dismissal.
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

// Decision is one dismissed card as recorded by the journal and the store.
type Decision struct {
	Journal   string    `json:"journal,omitempty"` // identity of the journal that assigned Seq
	Seq       uint64    `json:"seq,omitempty"`
	Session   string    `json:"session"`
	Deck      string    `json:"deck"`
	CardID    string    `json:"card_id"`
	CardTitle string    `json:"card_title"`
	Direction string    `json:"direction"` // "left" or "right"
	Position  int       `json:"position"`  // front index at dismissal
	DX        float64   `json:"dx"`
	DY        float64   `json:"dy"`
	SwipedAt  time.Time `json:"swiped_at"`
}

// Tally counts dismissals per direction for one deck.
type Tally struct {
	Deck  string `json:"deck"`
	Left  int64  `json:"left"`
	Right int64  `json:"right"`
}

// Total returns the number of dismissals in the tally.
func (t Tally) Total() int64 { return t.Left + t.Right }

// DeckCount is the number of decisions recorded against a deck name.
type DeckCount struct {
	Deck  string `json:"deck"`
	Count int64  `json:"count"`
}
