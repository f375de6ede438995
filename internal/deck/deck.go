// Package deck implements the swipe deck state machine: an ordered list of
// items, the index of the front item, and the in-progress drag offset.
//
// A gesture host streams DragMove calls while a drag is active and finishes
// with one DragRelease. The controller classifies the release by horizontal
// displacement alone, fires the matching dismiss callback and advances the
// front index, or cancels and resets the offset. Rendering and animation are
// the host's business.
//
// Controller is not safe for concurrent use. All calls are expected from the
// host's event loop.
package deck

// Offset is a drag displacement from the front card's rest position.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsZero reports whether o is the rest position.
func (o Offset) IsZero() bool { return o.X == 0 && o.Y == 0 }

// Config holds the fixed configuration of a Controller.
type Config[T any] struct {
	// Threshold is the horizontal distance a release must exceed to dismiss.
	// It must be positive; the controller does not check.
	Threshold float64

	// OnDismissLeft and OnDismissRight are called with the dismissed item.
	// Nil means no-op.
	OnDismissLeft  func(item T)
	OnDismissRight func(item T)

	// Key returns a stable identity for an item. Optional.
	Key func(item T) string
}

// Controller owns deck state for items of type T.
type Controller[T any] struct {
	cfg      Config[T]
	items    []T
	front    int
	offset   Offset
	dragging bool
}

// New creates a controller over items with the front index at zero.
func New[T any](cfg Config[T], items []T) *Controller[T] {
	c := &Controller[T]{cfg: cfg}
	c.SetItems(items)
	return c
}

// SetItems replaces the item sequence and resets the deck to its first item.
// An empty sequence leaves the deck exhausted.
func (c *Controller[T]) SetItems(items []T) {
	c.items = append([]T(nil), items...)
	c.front = 0
	c.offset = Offset{}
	c.dragging = false
}

// DragMove records the current drag offset of the front card. It is ignored
// when the deck is exhausted.
func (c *Controller[T]) DragMove(dx, dy float64) {
	if c.Exhausted() {
		return
	}
	c.offset = Offset{X: dx, Y: dy}
	c.dragging = true
}

// DragRelease resolves the gesture on the front card. A release past the
// threshold dismisses the front item, calls the direction callback exactly
// once and advances the front index. Anything else cancels. The drag offset
// is reset either way. Calls on an exhausted deck return an Ignored outcome
// and change nothing.
func (c *Controller[T]) DragRelease(dx, dy float64) Outcome[T] {
	if c.Exhausted() {
		return Outcome[T]{Kind: Ignored, Index: c.front}
	}

	out := Outcome[T]{
		Kind:    Classify(c.cfg.Threshold, dx),
		Index:   c.front,
		Release: Offset{X: dx, Y: dy},
	}
	c.offset = Offset{}
	c.dragging = false

	if !out.Kind.Dismissed() {
		return out
	}

	out.Item = c.items[c.front]
	c.front++

	switch out.Kind {
	case DismissLeft:
		if c.cfg.OnDismissLeft != nil {
			c.cfg.OnDismissLeft(out.Item)
		}
	case DismissRight:
		if c.cfg.OnDismissRight != nil {
			c.cfg.OnDismissRight(out.Item)
		}
	}
	return out
}

// Threshold returns the configured swipe threshold.
func (c *Controller[T]) Threshold() float64 { return c.cfg.Threshold }

// FrontIndex returns the index of the front item. It equals Len when the deck
// is exhausted.
func (c *Controller[T]) FrontIndex() int { return c.front }

// Len returns the number of items in the current sequence, dismissed included.
func (c *Controller[T]) Len() int { return len(c.items) }

// Exhausted reports whether no front item remains.
func (c *Controller[T]) Exhausted() bool { return c.front >= len(c.items) }

// DragOffset returns the offset of the drag in progress, or zero.
func (c *Controller[T]) DragOffset() Offset { return c.offset }

// Front returns the front item.
func (c *Controller[T]) Front() (T, bool) {
	if c.Exhausted() {
		var zero T
		return zero, false
	}
	return c.items[c.front], true
}

// Remaining returns the undismissed items, front item first.
func (c *Controller[T]) Remaining() []T {
	if c.Exhausted() {
		return nil
	}
	return append([]T(nil), c.items[c.front:]...)
}

// Phase returns the gesture phase of the front item.
func (c *Controller[T]) Phase() Phase {
	switch {
	case c.Exhausted():
		return PhaseExhausted
	case c.dragging:
		return PhaseDragging
	default:
		return PhaseIdle
	}
}

// Key returns the identity of item, or "" when no key function is set.
func (c *Controller[T]) Key(item T) string {
	if c.cfg.Key == nil {
		return ""
	}
	return c.cfg.Key(item)
}
