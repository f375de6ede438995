package deck

import "fmt"

// Phase is the gesture state of the front item.
//
//	PhaseIdle ──DragMove──► PhaseDragging
//	    ▲                        │
//	    └───────DragRelease──────┘   (cancel, or dismiss onto the next item)
//
// PhaseExhausted is entered when the last item is dismissed and left only
// through SetItems.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}
