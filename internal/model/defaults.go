package model

import "time"

// Shared defaults used by the binary and its tests.
const (
	DefaultThresholdRatio   = 0.25
	DefaultSwipeOutDuration = 250 * time.Millisecond
	DefaultExitMultiplier   = 1.2
	DefaultStackStep        = 10
	DefaultFPS              = 60
	DefaultSkin             = "default"
	DefaultFlushInterval    = 500 * time.Millisecond
	DefaultQueryTimeout     = 10 * time.Second
	DefaultRecentLimit      = 50
)
