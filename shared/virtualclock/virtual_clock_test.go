package virtualclock_test

import (
	"testing"
	"time"

	"github.com/on-the-ground/governor_go/shared/virtualclock"
	"github.com/stretchr/testify/assert"
)

func TestClock_FiresInDeadlineOrder(t *testing.T) {
	clk := virtualclock.NewAtEpoch()

	var fired []time.Duration
	record := func() {
		fired = append(fired, clk.Since(virtualclock.Epoch))
	}
	clk.AfterFunc(30*time.Millisecond, record)
	clk.AfterFunc(10*time.Millisecond, record)
	clk.AfterFunc(20*time.Millisecond, record)

	clk.Advance(25 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, fired)
	assert.Equal(t, 25*time.Millisecond, clk.Since(virtualclock.Epoch))
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(time.Hour)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond}, fired)
}

func TestClock_TiesFireInSchedulingOrder(t *testing.T) {
	clk := virtualclock.NewAtEpoch()

	var order []string
	clk.AfterFunc(time.Second, func() { order = append(order, "a") })
	clk.AfterFunc(time.Second, func() { order = append(order, "b") })

	clk.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestClock_CallbackSchedulesWithinSameAdvance(t *testing.T) {
	clk := virtualclock.NewAtEpoch()

	count := 0
	var tick func()
	tick = func() {
		count++
		clk.AfterFunc(10*time.Millisecond, tick)
	}
	clk.AfterFunc(10*time.Millisecond, tick)

	clk.Advance(55 * time.Millisecond)
	assert.Equal(t, 5, count)
}

func TestClock_StopIsIdempotent(t *testing.T) {
	clk := virtualclock.NewAtEpoch()

	ran := false
	timer := clk.AfterFunc(time.Second, func() { ran = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	clk.Advance(2 * time.Second)
	assert.False(t, ran)
	assert.False(t, timer.Stop(), "stopping a fired or stopped timer reports false")
}

func TestClock_ZeroDelayWaitsForAdvance(t *testing.T) {
	clk := virtualclock.NewAtEpoch()

	ran := false
	clk.AfterFunc(0, func() { ran = true })
	assert.False(t, ran)

	clk.Advance(0)
	assert.True(t, ran)
}

func TestClock_SetDoesNotFire(t *testing.T) {
	clk := virtualclock.NewAtEpoch()

	ran := false
	clk.AfterFunc(time.Second, func() { ran = true })
	clk.Set(virtualclock.Epoch.Add(-time.Minute))
	assert.False(t, ran)
	assert.Equal(t, virtualclock.Epoch.Add(-time.Minute), clk.Now())
}
