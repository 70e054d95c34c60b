package governor_test

import (
	"context"
	"sync"
	"time"

	"github.com/on-the-ground/governor_go/shared/virtualclock"
)

// invocation is one recorded run of the governed function, at a virtual
// offset from virtualclock.Epoch.
type invocation struct {
	At  time.Duration
	Arg int
}

type recorder struct {
	clk *virtualclock.Clock

	mu    sync.Mutex
	calls []invocation
}

func newRecorder() *recorder {
	return &recorder{clk: virtualclock.NewAtEpoch()}
}

func (r *recorder) fn(_ context.Context, arg int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invocation{At: r.clk.Since(virtualclock.Epoch), Arg: arg})
	return arg, nil
}

func (r *recorder) invocations() []invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invocation(nil), r.calls...)
}

func (r *recorder) at(offset time.Duration) {
	r.clk.AdvanceTo(virtualclock.Epoch.Add(offset))
}

type caller interface {
	Call(ctx context.Context, arg int) (int, error)
}

// callAt advances the clock to offset and calls g with the offset in
// milliseconds as argument.
func (r *recorder) callAt(g caller, offset time.Duration) (int, error) {
	r.at(offset)
	return g.Call(context.Background(), int(offset/time.Millisecond))
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
