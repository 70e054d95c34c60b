package governor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/on-the-ground/governor_go/log"
)

// Option configures a governor at construction.
type Option func(*config)

type config struct {
	leading  Optional[bool]
	trailing Optional[bool]
	maxWait  Optional[time.Duration]
	clock    Clock
	logger   *zap.Logger
	onError  func(error)
	name     string
	metrics  *Metrics
}

// WithLeading sets whether the first call of a burst invokes immediately.
func WithLeading(leading bool) Option {
	return func(c *config) { c.leading = Some(leading) }
}

// WithTrailing sets whether the last call of a burst invokes when the burst ends.
func WithTrailing(trailing bool) Option {
	return func(c *config) { c.trailing = Some(trailing) }
}

// WithMaxWait bounds how long a debounced invocation can be deferred by
// continuous calls. Throttled governors reject it.
func WithMaxWait(d time.Duration) Option {
	return func(c *config) { c.maxWait = Some(d) }
}

// WithClock replaces the wall clock, e.g. with an event loop or a virtual
// clock in tests.
func WithClock(clk Clock) Option {
	return func(c *config) { c.clock = clk }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithErrorHandler receives failures of timer-fired invocations, which have
// no caller to return to. The default handler logs them.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) { c.onError = fn }
}

// WithName labels logs and metrics. Unnamed governors get a random id.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// newConfig applies opts over the mode defaults and validates the result
// into a policy.
func newConfig(m mode, wait time.Duration, opts []Option) (config, policy, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if wait < 0 {
		return cfg, policy{}, fmt.Errorf("%w: %v", ErrNegativeDelay, wait)
	}

	p := policy{mode: m, wait: wait}
	switch m {
	case modeDebounce:
		p.leading = optionOr(cfg.leading, false)
		p.trailing = optionOr(cfg.trailing, true)
		if maxWait, ok := cfg.maxWait.Get(); ok {
			if maxWait < 0 {
				return cfg, policy{}, fmt.Errorf("%w: %v", ErrNegativeMaxWait, maxWait)
			}
			p.maxWait = Some(max(maxWait, wait))
			p.escape = true
		}
	case modeThrottle:
		if cfg.maxWait.IsSome() {
			return cfg, policy{}, fmt.Errorf("%w: max wait on %v", ErrOptionUnsupported, m)
		}
		p.leading = optionOr(cfg.leading, true)
		p.trailing = optionOr(cfg.trailing, true)
		p.maxWait = Some(wait)
	}

	if cfg.clock == nil {
		cfg.clock = RealClock()
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
	if cfg.name == "" {
		cfg.name = uuid.NewString()
	}
	cfg.logger = cfg.logger.With(zap.String("governor", cfg.name), zap.Stringer("mode", m))
	if cfg.onError == nil {
		logger := cfg.logger
		cfg.onError = func(err error) {
			logger.Error("unhandled invocation error", zap.Error(err))
		}
	}
	return cfg, p, nil
}

func optionOr[T any](o Optional[T], fallback T) T {
	if v, ok := o.Get(); ok {
		return v
	}
	return fallback
}
