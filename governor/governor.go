package governor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Func is a governed function. The context is the one passed to the call
// whose argument is being used.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// Snapshot is a point-in-time copy of a governor's bookkeeping.
type Snapshot struct {
	Pending        bool
	EscapePending  bool
	HasPendingArgs bool
	LastCallTime   Optional[time.Time]
	LastInvokeTime time.Time
}

// timerSlot owns one scheduled callback. The token changes on every stop or
// start, so a callback that already fired but lost the race for the lock can
// tell it has been superseded.
type timerSlot struct {
	timer Timer
	token uint64
}

func (s *timerSlot) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.token++
}

func (s *timerSlot) start(clk Clock, d time.Duration, fire func(token uint64)) {
	s.stop()
	token := s.token
	s.timer = clk.AfterFunc(d, func() { fire(token) })
}

// wrapper is the machinery shared by Debounced and Throttled.
//
// mu guards the machine, both timer slots and the cached result. The
// governed function always runs with mu released, so it may call back into
// the wrapper and observe the state its own invocation left behind.
type wrapper[A, R any] struct {
	fn      Func[A, R]
	clock   Clock
	logger  *zap.Logger
	onError func(error)
	name    string
	metrics *Metrics

	mu      sync.Mutex
	m       *machine[A]
	primary timerSlot
	escape  timerSlot
	result  Optional[R]
}

func newWrapper[A, R any](fn Func[A, R], md mode, wait time.Duration, opts []Option) (*wrapper[A, R], error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	cfg, p, err := newConfig(md, wait, opts)
	if err != nil {
		return nil, err
	}
	return &wrapper[A, R]{
		fn:      fn,
		clock:   cfg.clock,
		logger:  cfg.logger,
		onError: cfg.onError,
		name:    cfg.name,
		metrics: cfg.metrics,
		m:       newMachine[A](p),
	}, nil
}

// Call requests an invocation with arg. If this request invokes the
// function, its result and error are returned; otherwise the result of the
// last successful invocation is returned with a nil error.
func (w *wrapper[A, R]) Call(ctx context.Context, arg A) (R, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	w.metrics.call(w.name, w.m.mode)

	w.mu.Lock()
	p := w.m.call(w.clock.Now(), pendingCall[A]{ctx: ctx, arg: arg})
	w.apply(p)
	cached, _ := w.result.Get()
	w.mu.Unlock()

	if pc, ok := p.invoke.Get(); ok {
		return w.invoke(pc, p.edge)
	}
	return cached, nil
}

// Cancel drops pending work and resets the governor to its initial state.
// No callback scheduled before Cancel invokes the function afterwards.
func (w *wrapper[A, R]) Cancel() {
	w.mu.Lock()
	p := w.m.cancel()
	w.apply(p)
	w.mu.Unlock()

	w.metrics.cancellation(w.name, w.m.mode)
	w.logger.Debug("cancelled")
}

// Flush runs pending trailing work now. With nothing pending it returns the
// cached result without invoking.
func (w *wrapper[A, R]) Flush() (R, error) {
	w.mu.Lock()
	p := w.m.flush(w.clock.Now())
	w.apply(p)
	cached, _ := w.result.Get()
	w.mu.Unlock()

	if pc, ok := p.invoke.Get(); ok {
		return w.invoke(pc, p.edge)
	}
	return cached, nil
}

// Pending reports whether a timer is scheduled.
func (w *wrapper[A, R]) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.m.timerLive
}

// LastResult returns the result of the last successful invocation, if any.
func (w *wrapper[A, R]) LastResult() (R, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result.Get()
}

func (w *wrapper[A, R]) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Pending:        w.m.timerLive,
		EscapePending:  w.m.escapeLive,
		HasPendingArgs: w.m.pending.IsSome(),
		LastCallTime:   w.m.lastCallTime,
		LastInvokeTime: w.m.lastInvokeTime,
	}
}

// apply carries out the timer side of p. Must hold w.mu.
func (w *wrapper[A, R]) apply(p plan[A]) {
	if p.stopTimer {
		w.primary.stop()
	}
	if p.stopEscape {
		w.escape.stop()
	}
	if d, ok := p.startTimer.Get(); ok {
		w.primary.start(w.clock, d, w.onTimer)
		if p.edge == edgeNone {
			w.logger.Debug("timer rescheduled", zap.Duration("remaining", d))
		}
	}
	if d, ok := p.startEscape.Get(); ok {
		w.escape.start(w.clock, d, w.onEscape)
	}
}

func (w *wrapper[A, R]) onTimer(token uint64) {
	w.fire(&w.primary, token, w.m.timerExpired)
}

func (w *wrapper[A, R]) onEscape(token uint64) {
	w.fire(&w.escape, token, w.m.escapeExpired)
}

func (w *wrapper[A, R]) fire(slot *timerSlot, token uint64, transition func(time.Time) plan[A]) {
	w.mu.Lock()
	if slot.token != token {
		w.mu.Unlock()
		return
	}
	slot.timer = nil
	slot.token++
	p := transition(w.clock.Now())
	w.apply(p)
	w.mu.Unlock()

	if pc, ok := p.invoke.Get(); ok {
		w.invokeDetached(pc, p.edge)
	}
}

func (w *wrapper[A, R]) invoke(pc pendingCall[A], e edge) (R, error) {
	w.logger.Debug("invoking", zap.String("edge", string(e)))
	w.metrics.invocation(w.name, w.m.mode, e)

	res, err := w.fn(pc.ctx, pc.arg)
	if err == nil {
		w.mu.Lock()
		w.result = Some(res)
		w.mu.Unlock()
	}
	return res, err
}

// invokeDetached runs a timer-fired invocation. There is no caller to return
// to, so failures and panics go to the error handler.
func (w *wrapper[A, R]) invokeDetached(pc pendingCall[A], e edge) {
	defer func() {
		if r := recover(); r != nil {
			w.onError(fmt.Errorf("%w: %v", ErrInvocationPanic, r))
		}
	}()
	if _, err := w.invoke(pc, e); err != nil {
		w.onError(fmt.Errorf("%s invocation: %w", e, err))
	}
}
