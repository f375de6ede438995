package deck

import "sync/atomic"

// Snapshot is an immutable, type-erased view of a controller, safe to hand
// to other goroutines.
type Snapshot struct {
	Deck          string   `json:"deck"`
	FrontIndex    int      `json:"front_index"`
	Len           int      `json:"len"`
	Exhausted     bool     `json:"exhausted"`
	Phase         string   `json:"phase"`
	Offset        Offset   `json:"offset"`
	Threshold     float64  `json:"threshold"`
	FrontKey      string   `json:"front_key,omitempty"`
	RemainingKeys []string `json:"remaining_keys"`
}

// TakeSnapshot captures the current state of c under the given deck name.
func TakeSnapshot[T any](c *Controller[T], name string) Snapshot {
	s := Snapshot{
		Deck:          name,
		FrontIndex:    c.FrontIndex(),
		Len:           c.Len(),
		Exhausted:     c.Exhausted(),
		Phase:         c.Phase().String(),
		Offset:        c.DragOffset(),
		Threshold:     c.Threshold(),
		RemainingKeys: []string{},
	}
	for i, item := range c.Remaining() {
		key := c.Key(item)
		if i == 0 {
			s.FrontKey = key
		}
		s.RemainingKeys = append(s.RemainingKeys, key)
	}
	return s
}

// Publisher holds the latest Snapshot. The event loop stores, any goroutine
// loads.
type Publisher struct {
	latest atomic.Pointer[Snapshot]
}

// Publish replaces the latest snapshot.
func (p *Publisher) Publish(s Snapshot) {
	p.latest.Store(&s)
}

// Snapshot returns the latest snapshot and whether one has been published.
func (p *Publisher) Snapshot() (Snapshot, bool) {
	s := p.latest.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}
