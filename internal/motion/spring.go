package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/tinytelemetry/swipedeck/internal/deck"
	"github.com/tinytelemetry/swipedeck/internal/model"
)

const (
	defaultSpringFrequency = 7.0
	defaultSpringDamping   = 0.55
	settleEpsilon          = 0.5
)

// Spring pulls the card from its release offset back to rest.
type Spring struct {
	spring harmonica.Spring
	frame  time.Duration
	target deck.Offset
	pos    deck.Offset
	vel    deck.Offset
	carry  time.Duration
	done   bool
}

// SpringConfig tunes a Spring. Zero values use the defaults.
type SpringConfig struct {
	FPS       int
	Frequency float64
	Damping   float64
}

// NewSpring starts a spring at from heading for rest.
func NewSpring(from deck.Offset, cfg SpringConfig) *Spring {
	if cfg.FPS <= 0 {
		cfg.FPS = model.DefaultFPS
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = defaultSpringFrequency
	}
	if cfg.Damping <= 0 {
		cfg.Damping = defaultSpringDamping
	}
	s := &Spring{
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), cfg.Frequency, cfg.Damping),
		frame:  FrameInterval(cfg.FPS),
		pos:    from,
	}
	s.done = s.settled()
	if s.done {
		s.pos = s.target
	}
	return s
}

// Step advances the spring by whole frames covered by dt. Leftover time is
// carried into the next call.
func (s *Spring) Step(dt time.Duration) (deck.Offset, bool) {
	if s.done {
		return s.pos, true
	}
	s.carry += dt
	for s.carry >= s.frame && !s.done {
		s.carry -= s.frame
		s.pos.X, s.vel.X = s.spring.Update(s.pos.X, s.vel.X, s.target.X)
		s.pos.Y, s.vel.Y = s.spring.Update(s.pos.Y, s.vel.Y, s.target.Y)
		if s.settled() {
			s.pos = s.target
			s.vel = deck.Offset{}
			s.done = true
		}
	}
	return s.pos, s.done
}

// Position returns the current spring position.
func (s *Spring) Position() deck.Offset { return s.pos }

func (s *Spring) settled() bool {
	return math.Abs(s.pos.X-s.target.X) < settleEpsilon &&
		math.Abs(s.pos.Y-s.target.Y) < settleEpsilon &&
		math.Abs(s.vel.X) < settleEpsilon &&
		math.Abs(s.vel.Y) < settleEpsilon
}
