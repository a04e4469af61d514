package model

import "time"

// EngineConfig contains runtime settings for the stage engine.
type EngineConfig struct {
	// TickInterval controls how often a running stage refreshes its display.
	TickInterval time.Duration
	// ResetDelay is the grace period between dismissing the last stage and
	// the whole-session reset.
	ResetDelay time.Duration
}

// DefaultEngineConfig returns the standard tick and reset timings.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval: 250 * time.Millisecond,
		ResetDelay:   time.Second,
	}
}

// Tick interval bounds. Expiry is only observed on a tick, so the interval
// must stay below one second for a stage to complete on time.
const (
	MinTickInterval = 50 * time.Millisecond
	MaxTickInterval = time.Second
)

// ClampTickInterval bounds interval to [MinTickInterval, MaxTickInterval].
func ClampTickInterval(interval time.Duration) time.Duration {
	if interval < MinTickInterval {
		return MinTickInterval
	}
	if interval > MaxTickInterval {
		return MaxTickInterval
	}
	return interval
}
