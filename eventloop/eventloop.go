// Package eventloop runs callbacks one at a time on a single goroutine.
//
// A Loop is a governor.Clock: timers scheduled through it fire on the loop
// goroutine, so a governor driven by a Loop never has two callbacks running
// at once. Calls into the governor should be made from the loop too, via
// Post or Do, to get the fully single-threaded model.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/on-the-ground/governor_go/governor"
)

var ErrClosedLoop = errors.New("event loop is closed")

var _ governor.Clock = (*Loop)(nil)

// Loop is a cooperative callback queue.
type Loop struct {
	Id string

	clock  clock.WithDelayedExecution
	logger *zap.Logger
	tasks  chan func()

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// New starts a loop that lives until Close is called or ctx is cancelled.
// bufferSize bounds the number of queued callbacks before Post blocks.
// A nil clk means the wall clock; a nil logger discards logs.
func New(
	ctx context.Context,
	bufferSize int,
	clk clock.WithDelayedExecution,
	logger *zap.Logger,
) *Loop {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	id := uuid.New().String()
	l := &Loop{
		Id:     id,
		clock:  clk,
		logger: logger.With(zap.String("loopId", id)),
		tasks:  make(chan func(), bufferSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	ready := make(chan struct{})
	go l.run(ready)
	<-ready

	l.logger.Debug("event loop started")
	return l
}

func (l *Loop) run(ready chan struct{}) {
	defer close(l.done)
	close(ready)
	for {
		select {
		case task := <-l.tasks:
			l.runTask(task)
		case <-l.ctx.Done():
			return
		}
	}
}

func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic in loop callback", zap.Any("error", r))
		}
	}()
	task()
}

// Post queues f. It returns false if the loop is closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.ctx.Done():
		return false
	default:
	}
	select {
	case <-l.ctx.Done():
		return false
	case l.tasks <- f:
		return true
	}
}

// Do queues f and waits until it has run. It must not be called from the
// loop goroutine.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrClosedLoop
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return ErrClosedLoop
	}
}

func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

const (
	timerPending int32 = iota
	timerStopped
	timerRunning
)

// loopTimer is stoppable until its callback starts on the loop, even after
// the underlying clock timer has fired and queued it.
type loopTimer struct {
	timer clock.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}

// AfterFunc runs f on the loop once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, f func()) governor.Timer {
	lt := &loopTimer{}
	lt.timer = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if lt.state.CompareAndSwap(timerPending, timerRunning) {
				f()
			}
		})
	})
	return lt
}

// Close stops the loop and waits for the running callback, if any, to
// finish. Queued callbacks are dropped. Close is idempotent and must not be
// called from the loop goroutine.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.cancel()
		<-l.done
		l.logger.Debug("event loop closed")
	})
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
