package governor

import "time"

// Throttled invokes a function at most once per window.
//
// Both edges are on by default: the first call of a burst invokes
// immediately, and the latest arguments seen during a window are used for a
// trailing invocation when the window closes. Under continuous calls this
// yields one invocation per window boundary.
type Throttled[A, R any] struct {
	*wrapper[A, R]
}

// NewThrottled wraps fn. It fails if fn is nil, window is negative or
// WithMaxWait is given.
func NewThrottled[A, R any](fn Func[A, R], window time.Duration, opts ...Option) (*Throttled[A, R], error) {
	w, err := newWrapper(fn, modeThrottle, window, opts)
	if err != nil {
		return nil, err
	}
	return &Throttled[A, R]{wrapper: w}, nil
}
