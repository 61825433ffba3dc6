package clock

import (
	"sort"
	"sync"
	"time"
)

// VirtualClock is a Clock whose time stands still until a test moves it.
// Advance and Set deliver every timer that comes due before returning,
// in deadline order, so playback tests can fire ticks instantly and
// observe them one at a time.
//
// Safe for concurrent use.
type VirtualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*virtualTimer
}

// virtualTimer is one armed After call. Delivery happens at most once;
// the channel is buffered so a receiver that gave up does not block the
// clock.
type virtualTimer struct {
	due time.Time
	ch  chan time.Time
}

// NewVirtualClock returns a VirtualClock frozen at start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the frozen time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After arms a timer due at now+d. A non-positive duration delivers
// before After returns; anything else waits for Advance or Set to reach
// the deadline. The delivered value is the timer's deadline, as with
// time.After.
func (c *VirtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.timers = append(c.timers, &virtualTimer{due: c.now.Add(d), ch: ch})
	return ch
}

// Advance moves time forward by d, delivering due timers. Panics if d is
// negative.
func (c *VirtualClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: cannot advance by negative duration")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveTo(c.now.Add(d))
}

// Set jumps to an absolute time, delivering due timers. Panics if t is
// before the current time.
func (c *VirtualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.now) {
		panic("clock: cannot set time to the past")
	}
	c.moveTo(t)
}

// Waiters reports how many timers are still armed. Tests use it to see
// whether the player has scheduled, or cancelled, its next tick.
func (c *VirtualClock) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// moveTo sets the time, then delivers every timer due by then, earliest
// deadline first. Must be called with c.mu held.
func (c *VirtualClock) moveTo(t time.Time) {
	c.now = t
	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].due.Before(c.timers[j].due)
	})
	kept := 0
	for _, tm := range c.timers {
		if tm.due.After(c.now) {
			c.timers[kept] = tm
			kept++
			continue
		}
		tm.ch <- tm.due
	}
	c.timers = c.timers[:kept]
}
