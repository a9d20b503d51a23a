package tree

import "time"

// Clock supplies the current time for node timestamps.
//
// Production code uses the wall clock. Tests swap in a manual clock so
// propagation behavior (including same-instant ties) can be pinned down
// deterministically.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now().UTC() }

var clock Clock = wallClock{}

// SetClock replaces the clock used for new timestamps and returns the
// previous one so callers can restore it.
func SetClock(c Clock) Clock {
	prev := clock
	clock = c
	return prev
}

func now() time.Time { return clock.Now() }
