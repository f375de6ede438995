// Package motion provides the animations a gesture host plays around the
// deck controller: the spring back to rest after a cancelled drag, the timed
// swipe-out after a dismissal, and the per-frame card transforms.
//
// Animations are stepped explicitly with elapsed time, so they run the same
// under a terminal frame ticker and in tests.
package motion

import (
	"time"

	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

// Animation moves the front card between two offsets.
type Animation interface {
	// Step advances the animation by dt and returns the new position.
	// done is true once the animation has reached its end.
	Step(dt time.Duration) (pos deck.Offset, done bool)
	// Position returns the current position without advancing.
	Position() deck.Offset
}

// FrameInterval returns the tick period for the given frame rate.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = model.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// ExitTarget returns where a dismissed card leaves the surface: past the
// edge on the dismiss side, back at the vertical rest line.
func ExitTarget(kind deck.Kind, width, multiplier float64) deck.Offset {
	if multiplier <= 0 {
		multiplier = model.DefaultExitMultiplier
	}
	return deck.Offset{X: kind.Sign() * width * multiplier, Y: 0}
}

// StackOffset returns the vertical offset of the background card at pos when
// the front card is at front.
func StackOffset(pos, front int, step float64) float64 {
	if pos <= front {
		return 0
	}
	return step * float64(pos-front)
}
