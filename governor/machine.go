package governor

import (
	"context"
	"time"
)

type mode int

const (
	modeDebounce mode = iota
	modeThrottle
)

func (m mode) String() string {
	switch m {
	case modeDebounce:
		return "debounce"
	case modeThrottle:
		return "throttle"
	default:
		return "unknown"
	}
}

// edge names the transition that produced an invocation.
type edge string

const (
	edgeNone     edge = ""
	edgeLeading  edge = "leading"
	edgeTrailing edge = "trailing"
	edgeMaxWait  edge = "maxwait"
	edgeWindow   edge = "window"
	edgeFlush    edge = "flush"
)

// pendingCall is the argument tuple of a request together with the context
// it was made in.
type pendingCall[A any] struct {
	ctx context.Context
	arg A
}

// plan describes the side effects of one transition.
// Stops are applied before starts.
type plan[A any] struct {
	stopTimer   bool
	startTimer  Optional[time.Duration]
	stopEscape  bool
	startEscape Optional[time.Duration]
	invoke      Optional[pendingCall[A]]
	edge        edge
}

// policy is the immutable configuration of a machine.
type policy struct {
	mode     mode
	wait     time.Duration
	maxWait  Optional[time.Duration]
	escape   bool
	leading  bool
	trailing bool
}

// machine is the governor state machine with timers reduced to liveness
// flags. Every transition takes the current time and returns the plan the
// owner must carry out; the machine itself never touches a clock.
type machine[A any] struct {
	policy

	lastCallTime   Optional[time.Time]
	lastInvokeTime time.Time
	pending        Optional[pendingCall[A]]
	timerLive      bool
	escapeLive     bool
}

func newMachine[A any](p policy) *machine[A] {
	return &machine[A]{policy: p}
}

func (m *machine[A]) shouldInvoke(now time.Time) bool {
	last, ok := m.lastCallTime.Get()
	if !ok {
		return true
	}
	sinceCall := now.Sub(last)
	if sinceCall >= m.wait || sinceCall < 0 {
		return true
	}
	if maxWait, ok := m.maxWait.Get(); ok && now.Sub(m.lastInvokeTime) >= maxWait {
		return true
	}
	return false
}

func (m *machine[A]) remainingWait(now time.Time) time.Duration {
	last, _ := m.lastCallTime.Get()
	waiting := m.wait - now.Sub(last)
	if maxWait, ok := m.maxWait.Get(); ok {
		return min(waiting, maxWait-now.Sub(m.lastInvokeTime))
	}
	return waiting
}

// take consumes the pending call and marks now as the last invocation.
func (m *machine[A]) take(now time.Time) pendingCall[A] {
	pc, _ := m.pending.Get()
	m.pending = None[pendingCall[A]]()
	m.markInvoked(now)
	return pc
}

func (m *machine[A]) markInvoked(now time.Time) {
	if now.After(m.lastInvokeTime) {
		m.lastInvokeTime = now
	}
}

func (m *machine[A]) armEscape(p *plan[A], d time.Duration) {
	if !m.escape {
		return
	}
	p.stopEscape = m.escapeLive
	p.startEscape = Some(max(d, 0))
	m.escapeLive = true
}

func (m *machine[A]) call(now time.Time, pc pendingCall[A]) plan[A] {
	invoking := m.shouldInvoke(now)
	m.pending = Some(pc)
	m.lastCallTime = Some(now)

	if invoking {
		if !m.timerLive {
			return m.leadingEdge(now)
		}
		if maxWait, ok := m.maxWait.Get(); ok {
			// The bound elapsed while calls kept the timer alive.
			p := plan[A]{stopTimer: true, startTimer: Some(m.wait), edge: edgeMaxWait}
			if m.mode == modeThrottle {
				p.edge = edgeWindow
			}
			m.armEscape(&p, maxWait)
			p.invoke = Some(m.take(now))
			return p
		}
	}

	var p plan[A]
	if !m.timerLive {
		m.timerLive = true
		p.startTimer = Some(m.wait)
		if maxWait, ok := m.maxWait.Get(); ok && !m.escapeLive {
			m.armEscape(&p, maxWait-now.Sub(m.lastInvokeTime))
		}
	}
	return p
}

func (m *machine[A]) leadingEdge(now time.Time) plan[A] {
	m.markInvoked(now)
	m.timerLive = true
	p := plan[A]{startTimer: Some(m.wait), edge: edgeLeading}
	if maxWait, ok := m.maxWait.Get(); ok {
		m.armEscape(&p, maxWait)
	}
	if m.leading {
		p.invoke = Some(m.take(now))
	}
	return p
}

// timerExpired runs when the primary timer fires.
func (m *machine[A]) timerExpired(now time.Time) plan[A] {
	m.timerLive = false
	if m.shouldInvoke(now) {
		return m.trailingEdge(now)
	}
	m.timerLive = true
	return plan[A]{startTimer: Some(m.remainingWait(now))}
}

// escapeExpired runs when the maxWait timer fires.
func (m *machine[A]) escapeExpired(now time.Time) plan[A] {
	m.escapeLive = false
	if !m.trailing || !m.pending.IsSome() {
		return plan[A]{}
	}
	p := m.trailingEdge(now)
	p.edge = edgeMaxWait
	return p
}

func (m *machine[A]) trailingEdge(now time.Time) plan[A] {
	p := plan[A]{stopTimer: m.timerLive, stopEscape: m.escapeLive, edge: edgeTrailing}
	m.timerLive = false
	m.escapeLive = false
	if m.trailing && m.pending.IsSome() {
		p.invoke = Some(m.take(now))
		return p
	}
	m.pending = None[pendingCall[A]]()
	return p
}

// flush runs the trailing edge now if a timer is live.
// An empty plan means nothing was pending.
func (m *machine[A]) flush(now time.Time) plan[A] {
	if !m.timerLive {
		return plan[A]{}
	}
	p := m.trailingEdge(now)
	p.edge = edgeFlush
	return p
}

func (m *machine[A]) cancel() plan[A] {
	p := plan[A]{stopTimer: m.timerLive, stopEscape: m.escapeLive}
	m.lastCallTime = None[time.Time]()
	m.lastInvokeTime = time.Time{}
	m.pending = None[pendingCall[A]]()
	m.timerLive = false
	m.escapeLive = false
	return p
}
