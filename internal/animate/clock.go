package animate

import (
	"sort"
	"sync"
	"time"
)

// ManualClock is a Scheduler whose time only moves when Advance is called.
// Due callbacks run synchronously on the caller's goroutine, in deadline
// order and then in scheduling order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []manualTimer
}

type manualTimer struct {
	at  time.Time
	seq int
	f   func()
}

// NewManualClock returns a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.timers = append(c.timers, manualTimer{at: c.now.Add(d), seq: c.seq, f: f})
}

// Pending is the number of callbacks not yet fired.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, firing every callback that falls due
// on the way, including ones scheduled by earlier callbacks.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		f, ok := c.popDue(target)
		if !ok {
			break
		}
		f()
	}
	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

// RunUntilIdle fires callbacks until none remain, moving time to each
// deadline. It stops after limit callbacks and reports whether the clock
// went idle.
func (c *ManualClock) RunUntilIdle(limit int) bool {
	for i := 0; i < limit; i++ {
		c.mu.Lock()
		if len(c.timers) == 0 {
			c.mu.Unlock()
			return true
		}
		c.sortLocked()
		t := c.timers[0]
		c.timers = c.timers[1:]
		if t.at.After(c.now) {
			c.now = t.at
		}
		c.mu.Unlock()
		t.f()
	}
	return c.Pending() == 0
}

func (c *ManualClock) popDue(target time.Time) (func(), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil, false
	}
	c.sortLocked()
	t := c.timers[0]
	if t.at.After(target) {
		return nil, false
	}
	c.timers = c.timers[1:]
	if t.at.After(c.now) {
		c.now = t.at
	}
	return t.f, true
}

func (c *ManualClock) sortLocked() {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})
}
