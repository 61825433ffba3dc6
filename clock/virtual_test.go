package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtualClockNow(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewVirtualClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute), c.Now())
}

func TestAfterFiresOnAdvance(t *testing.T) {
	c := NewVirtualClock(time.Unix(0, 0))
	ch := c.After(100 * time.Millisecond)

	select {
	case <-ch:
		t.Fatal("timer fired before the clock advanced")
	default:
	}

	c.Advance(99 * time.Millisecond)
	select {
	case <-ch:
		t.Fatal("timer fired before its deadline")
	default:
	}

	c.Advance(time.Millisecond)
	select {
	case got := <-ch:
		assert.Equal(t, time.Unix(0, 0).Add(100*time.Millisecond), got)
	default:
		t.Fatal("timer did not fire at its deadline")
	}
}

func TestAfterZeroFiresImmediately(t *testing.T) {
	c := NewVirtualClock(time.Unix(0, 0))
	select {
	case <-c.After(0):
	default:
		t.Fatal("zero-duration timer did not fire immediately")
	}
}

func TestAdvanceFiresMultipleWaitersInOneCall(t *testing.T) {
	c := NewVirtualClock(time.Unix(0, 0))
	a := c.After(10 * time.Millisecond)
	b := c.After(20 * time.Millisecond)
	require.Equal(t, 2, c.Waiters())

	c.Advance(time.Second)
	assert.Equal(t, 0, c.Waiters())

	for _, ch := range []<-chan time.Time{a, b} {
		select {
		case <-ch:
		default:
			t.Fatal("waiter did not fire")
		}
	}
}

func TestTimersReceiveTheirOwnDeadline(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewVirtualClock(start)
	late := c.After(30 * time.Millisecond)
	early := c.After(10 * time.Millisecond)

	c.Advance(time.Second)

	// One big jump past several deadlines still delivers each timer its
	// deadline, not the post-advance time.
	assert.Equal(t, start.Add(10*time.Millisecond), <-early)
	assert.Equal(t, start.Add(30*time.Millisecond), <-late)
}

func TestAdvanceNegativePanics(t *testing.T) {
	c := NewVirtualClock(time.Unix(0, 0))
	assert.Panics(t, func() { c.Advance(-time.Second) })
}

func TestSetBackwardsPanics(t *testing.T) {
	c := NewVirtualClock(time.Unix(100, 0))
	assert.Panics(t, func() { c.Set(time.Unix(0, 0)) })
}
