package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlightGroupSharesPendingFlight(t *testing.T) {
	var g flightGroup
	release := make(chan struct{})
	var calls int

	fn := func() (string, error) {
		calls++
		<-release
		return "token", nil
	}

	first := g.getOrStart(fn)
	second := g.getOrStart(fn)
	assert.Same(t, first, second)

	close(release)

	var wg sync.WaitGroup
	for _, f := range []*flight{first, second} {
		f := f
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := f.wait(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "token", token)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestFlightGroupClearsHandleOnSettlement(t *testing.T) {
	var g flightGroup

	f := g.getOrStart(func() (string, error) { return "one", nil })
	_, err := f.wait(context.Background())
	require.NoError(t, err)

	// A settled flight must not be reused; the next call starts fresh.
	next := g.getOrStart(func() (string, error) { return "two", nil })
	assert.NotSame(t, f, next)
	token, err := next.wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two", token)
}

func TestFlightGroupPropagatesSameError(t *testing.T) {
	var g flightGroup
	wantErr := errors.New("refresh rejected")

	f := g.getOrStart(func() (string, error) { return "", wantErr })
	for i := 0; i < 3; i++ {
		_, err := f.wait(context.Background())
		assert.ErrorIs(t, err, wantErr)
	}
}

func TestFlightWaitRespectsContext(t *testing.T) {
	var g flightGroup
	release := make(chan struct{})
	defer close(release)

	f := g.getOrStart(func() (string, error) {
		<-release
		return "late", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlightGroupAbandon(t *testing.T) {
	var g flightGroup
	release := make(chan struct{})

	f := g.getOrStart(func() (string, error) {
		<-release
		return "stale", nil
	})
	g.abandon()

	// After abandoning, a new 401 starts a fresh flight even though the
	// old one has not settled.
	next := g.getOrStart(func() (string, error) { return "fresh", nil })
	assert.NotSame(t, f, next)

	close(release)
	token, err := next.wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
}
