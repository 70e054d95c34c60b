// Package virtualclock provides a manually advanced governor.Clock whose
// timers fire in deadline order at their exact deadlines.
package virtualclock

import (
	"sort"
	"sync"
	"time"

	"github.com/on-the-ground/governor_go/governor"
)

var _ governor.Clock = (*Clock)(nil)

// Epoch is the default start time of a Clock.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*timer // sorted by deadline, then scheduling order
}

type timer struct {
	clock    *Clock
	deadline time.Time
	seq      uint64
	fn       func()
	done     bool
}

func New(start time.Time) *Clock {
	return &Clock{now: start}
}

// NewAtEpoch returns a Clock starting at Epoch.
func NewAtEpoch() *Clock {
	return New(Epoch)
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Since returns the virtual time elapsed since t.
func (c *Clock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// AfterFunc schedules f to run d after the current virtual time. It never
// runs f synchronously, not even for d <= 0; f runs during the next Advance.
func (c *Clock) AfterFunc(d time.Duration, f func()) governor.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &timer{clock: c, deadline: c.now.Add(max(d, 0)), seq: c.seq, fn: f}

	idx := sort.Search(len(c.timers), func(i int) bool {
		return t.before(c.timers[i])
	})
	c.timers = append(c.timers, nil)
	copy(c.timers[idx+1:], c.timers[idx:])
	c.timers[idx] = t
	return t
}

func (t *timer) before(o *timer) bool {
	if t.deadline.Equal(o.deadline) {
		return t.seq < o.seq
	}
	return t.deadline.Before(o.deadline)
}

func (t *timer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
	}
	return true
}

// Advance moves the clock forward by d, firing due timers on the way.
func (c *Clock) Advance(d time.Duration) {
	c.AdvanceTo(c.Now().Add(d))
}

// AdvanceTo fires, in order, every timer due at or before target, including
// those scheduled by callbacks along the way. The clock reads each timer's
// deadline while its callback runs and reads target afterwards. Callbacks
// run on the calling goroutine with no lock held.
func (c *Clock) AdvanceTo(target time.Time) {
	for {
		c.mu.Lock()
		if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
			if target.After(c.now) {
				c.now = target
			}
			c.mu.Unlock()
			return
		}
		t := c.timers[0]
		c.timers = c.timers[1:]
		t.done = true
		if t.deadline.After(c.now) {
			c.now = t.deadline
		}
		c.mu.Unlock()

		t.fn()
	}
}

// Set moves the clock to t without firing anything. Moving it backward
// simulates a misbehaving host clock.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Pending returns the number of scheduled timers.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
