package session

import (
	"context"
	"sync"
)

// flight is one in-progress token refresh. done is closed after token and
// err are written, so any number of awaiters observe the same settlement.
type flight struct {
	done  chan struct{}
	token string
	err   error
}

// flightGroup coordinates the process-wide refresh: at most one refresh
// runs at a time, every concurrent caller attaches to it, and the handle
// is cleared the moment it settles so the next 401 starts a fresh one.
type flightGroup struct {
	mu  sync.Mutex
	cur *flight
}

// getOrStart returns the pending flight if one exists, or starts fn on a
// new one. The caller then awaits it with flight.wait.
func (g *flightGroup) getOrStart(fn func() (string, error)) *flight {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cur != nil {
		return g.cur
	}

	f := &flight{done: make(chan struct{})}
	g.cur = f
	go func() {
		f.token, f.err = fn()
		// Clear the handle before waking awaiters: a subsequent 401
		// must never attach to a settled flight.
		g.mu.Lock()
		if g.cur == f {
			g.cur = nil
		}
		g.mu.Unlock()
		close(f.done)
	}()
	return f
}

// abandon detaches any in-flight refresh without awaiting it. Its result
// is discarded when it settles.
func (g *flightGroup) abandon() {
	g.mu.Lock()
	g.cur = nil
	g.mu.Unlock()
}

// wait blocks until the flight settles or ctx is done. A caller backing
// out does not cancel the refresh; other awaiters still get its result.
func (f *flight) wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.token, f.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
