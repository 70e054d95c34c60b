package governor

import (
	"time"

	"k8s.io/utils/clock"
)

// Timer is a handle to a callback scheduled through a Clock.
// Stop is idempotent: stopping a fired or already stopped timer is a no-op
// that returns false.
type Timer interface {
	Stop() bool
}

// Clock is the time source and one-shot scheduler a governor runs on.
// Now must be non-decreasing for the governor to behave as documented; a
// clock that goes backward is tolerated and treated as the start of a new
// burst.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

var _ Clock = hostClock{}

// hostClock adapts a k8s clock to Clock.
type hostClock struct {
	clock clock.WithDelayedExecution
}

func (h hostClock) Now() time.Time {
	return h.clock.Now()
}

func (h hostClock) AfterFunc(d time.Duration, f func()) Timer {
	return h.clock.AfterFunc(d, f)
}

// FromClock wraps a k8s.io/utils clock so it can drive a governor.
func FromClock(c clock.WithDelayedExecution) Clock {
	return hostClock{clock: c}
}

// RealClock returns the wall clock. Callbacks run on timer goroutines.
func RealClock() Clock {
	return FromClock(clock.RealClock{})
}
