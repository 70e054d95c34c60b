package governor

import "errors"

var (
	ErrNilFunc           = errors.New("governed function is nil")
	ErrNegativeDelay     = errors.New("delay must not be negative")
	ErrNegativeMaxWait   = errors.New("max wait must not be negative")
	ErrOptionUnsupported = errors.New("option not supported in this mode")

	// ErrInvocationPanic wraps a panic recovered from a timer-fired invocation.
	ErrInvocationPanic = errors.New("governed function panicked")
)
