//go:build go1.25

package governor_test

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/on-the-ground/governor_go/governor"
)

type realRecorder struct {
	start time.Time

	mu    sync.Mutex
	calls []invocation
}

func (r *realRecorder) fn(_ context.Context, arg int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, invocation{At: time.Since(r.start), Arg: arg})
	return arg, nil
}

func (r *realRecorder) invocations() []invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invocation(nil), r.calls...)
}

func TestDebouncedRealClockSynctest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &realRecorder{start: time.Now()}
		d, err := governor.NewDebounced(rec.fn, 100*time.Millisecond, governor.WithLogger(zap.NewNop()))
		require.NoError(t, err)

		d.Call(context.Background(), 1)
		time.Sleep(50 * time.Millisecond)
		d.Call(context.Background(), 2)
		assert.True(t, d.Pending())

		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, []invocation{{At: 150 * time.Millisecond, Arg: 2}}, rec.invocations())
		assert.False(t, d.Pending())
	})
}

func TestThrottledRealClockSynctest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &realRecorder{start: time.Now()}
		th, err := governor.NewThrottled(rec.fn, 100*time.Millisecond, governor.WithLogger(zap.NewNop()))
		require.NoError(t, err)

		// every 30ms, so no call lands on a timer deadline
		for i := 0; i < 9; i++ {
			th.Call(context.Background(), i*30)
			time.Sleep(30 * time.Millisecond)
		}
		time.Sleep(time.Second)
		synctest.Wait()

		want := []invocation{
			{At: 0, Arg: 0},
			{At: 100 * time.Millisecond, Arg: 90},
			{At: 220 * time.Millisecond, Arg: 210},
			{At: 340 * time.Millisecond, Arg: 240},
		}
		assert.Equal(t, want, rec.invocations())
	})
}

func TestCancelStopsRealTimersSynctest(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		rec := &realRecorder{start: time.Now()}
		d, err := governor.NewDebounced(rec.fn, 100*time.Millisecond,
			governor.WithMaxWait(150*time.Millisecond), governor.WithLogger(zap.NewNop()))
		require.NoError(t, err)

		d.Call(context.Background(), 1)
		time.Sleep(50 * time.Millisecond)
		d.Cancel()

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Empty(t, rec.invocations())
	})
}
