package motion

import (
	"time"

	"github.com/tinytelemetry/swipedeck/internal/deck"
)

// Exit carries a dismissed card from its release offset off the surface over
// a fixed duration.
type Exit struct {
	from     deck.Offset
	to       deck.Offset
	duration time.Duration
	curve    Curve
	elapsed  time.Duration
	pos      deck.Offset
}

// NewExit creates a timed animation from from to to. A nil curve is linear;
// a non-positive duration completes on the first step.
func NewExit(from, to deck.Offset, duration time.Duration, curve Curve) *Exit {
	if curve == nil {
		curve = Linear
	}
	return &Exit{from: from, to: to, duration: duration, curve: curve, pos: from}
}

// Step advances the exit by dt.
func (e *Exit) Step(dt time.Duration) (deck.Offset, bool) {
	e.elapsed += dt
	if e.duration <= 0 || e.elapsed >= e.duration {
		e.elapsed = e.duration
		e.pos = e.to
		return e.pos, true
	}
	t := e.curve(float64(e.elapsed) / float64(e.duration))
	e.pos = deck.Offset{
		X: lerp(e.from.X, e.to.X, t),
		Y: lerp(e.from.Y, e.to.Y, t),
	}
	return e.pos, false
}

// Position returns the current exit position.
func (e *Exit) Position() deck.Offset { return e.pos }

// Target returns where the exit ends.
func (e *Exit) Target() deck.Offset { return e.to }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
