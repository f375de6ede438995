package deck

import "fmt"

// Kind classifies a drag release.
type Kind int

const (
	// Cancel means the release did not cross the threshold.
	Cancel Kind = iota
	// DismissLeft means the front item was swiped off to the left.
	DismissLeft
	// DismissRight means the front item was swiped off to the right.
	DismissRight
	// Ignored means the deck was exhausted when the release arrived.
	Ignored
)

// Classify decides a release from its horizontal displacement. Both
// comparisons are strict, so a release exactly at the threshold cancels.
func Classify(threshold, dx float64) Kind {
	switch {
	case dx > threshold:
		return DismissRight
	case dx < -threshold:
		return DismissLeft
	default:
		return Cancel
	}
}

// Dismissed reports whether k removes the front item.
func (k Kind) Dismissed() bool {
	return k == DismissLeft || k == DismissRight
}

// Sign returns -1 for left, +1 for right and 0 otherwise.
func (k Kind) Sign() float64 {
	switch k {
	case DismissLeft:
		return -1
	case DismissRight:
		return 1
	default:
		return 0
	}
}

// Direction returns "left" or "right" for dismissals and "" otherwise.
func (k Kind) Direction() string {
	switch k {
	case DismissLeft:
		return "left"
	case DismissRight:
		return "right"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case Cancel:
		return "cancel"
	case DismissLeft:
		return "dismiss-left"
	case DismissRight:
		return "dismiss-right"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome describes how a release was resolved.
type Outcome[T any] struct {
	Kind Kind
	// Item is the dismissed item. Zero unless Kind.Dismissed().
	Item T
	// Index is the front index at the time of the release.
	Index int
	// Release is the offset the release was delivered at.
	Release Offset
}
