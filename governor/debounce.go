package governor

import "time"

// Debounced defers invocations of a function until delay has passed without
// a new call.
//
// By default only the trailing edge invokes, with the arguments of the last
// call in the burst. WithLeading(true) also invokes on the first call of a
// burst; WithMaxWait(d) forces an invocation at least every d while calls
// keep arriving.
type Debounced[A, R any] struct {
	*wrapper[A, R]
}

// NewDebounced wraps fn. It fails if fn is nil, delay or maxWait is negative.
// A maxWait shorter than delay is raised to delay.
func NewDebounced[A, R any](fn Func[A, R], delay time.Duration, opts ...Option) (*Debounced[A, R], error) {
	w, err := newWrapper(fn, modeDebounce, delay, opts)
	if err != nil {
		return nil, err
	}
	return &Debounced[A, R]{wrapper: w}, nil
}
