// Package timeouts defines delay constants for akcfg operations.
package timeouts

import "time"

const (
	// RemovalAnimationDelay is how long a removed entry stays visible in its
	// pending state before it is dropped from the list.
	RemovalAnimationDelay = 200 * time.Millisecond

	// PickCountdown is the default delay before the window under the mouse
	// cursor is sampled by the pick command.
	PickCountdown = 3 * time.Second

	// PickTick is the interval at which the pick countdown is reported.
	PickTick = 1 * time.Second
)

// FromMillis converts a configured millisecond value, falling back when it
// is not positive.
func FromMillis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}

	return time.Duration(ms) * time.Millisecond
}
