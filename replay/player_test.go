package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorse/paddlebot/clock"
)

func testLog(t *testing.T, frames int) *Log {
	t.Helper()
	text := "step,ball_x,ball_y\n"
	for i := 0; i < frames; i++ {
		text += "0,1.0,1.0\n"
	}
	log, err := ParseLog(text)
	require.NoError(t, err)
	require.Equal(t, frames, log.Len())
	return log
}

// recorder collects cursor indices delivered to a subscriber and lets the
// test block until each notification arrives.
type recorder struct {
	ch chan int
}

func newRecorder(p *Player) *recorder {
	r := &recorder{ch: make(chan int, 64)}
	p.OnFrame(func(_ Frame, c Cursor) {
		r.ch <- c.Index
	})
	return r
}

func (r *recorder) next(t *testing.T) int {
	t.Helper()
	select {
	case i := <-r.ch:
		return i
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a frame notification")
		return -1
	}
}

func (r *recorder) none(t *testing.T) {
	t.Helper()
	select {
	case i := <-r.ch:
		t.Fatalf("unexpected frame notification for index %d", i)
	default:
	}
}

func tickInterval(rate float64) time.Duration {
	return time.Duration(float64(time.Second) / rate)
}

func TestSeekClamps(t *testing.T) {
	p := NewPlayer()
	p.Load(testLog(t, 5))

	cases := []struct {
		seek int
		want int
	}{
		{seek: -3, want: 0},
		{seek: 0, want: 0},
		{seek: 4, want: 4},
		{seek: 5, want: 4},
		{seek: 100, want: 4},
	}
	for _, tc := range cases {
		p.Seek(tc.seek)
		assert.Equal(t, tc.want, p.Cursor().Index, "seek(%d)", tc.seek)
	}
}

func TestStepClampsAtLastFrame(t *testing.T) {
	p := NewPlayer()
	p.Load(testLog(t, 3))

	p.Seek(2)
	p.Step(+1)
	assert.Equal(t, 2, p.Cursor().Index)

	p.Seek(0)
	p.Step(-1)
	assert.Equal(t, 0, p.Cursor().Index)
}

func TestTransportNoOpsWithoutLog(t *testing.T) {
	p := NewPlayer()
	rec := newRecorder(p)

	p.Seek(3)
	p.Step(1)
	p.Play()

	c := p.Cursor()
	assert.Equal(t, 0, c.Index)
	assert.False(t, c.Playing)
	rec.none(t)
}

func TestLoadResetsCursorAndNotifies(t *testing.T) {
	p := NewPlayer()
	rec := newRecorder(p)

	p.Load(testLog(t, 4))
	assert.Equal(t, 0, rec.next(t))

	p.Seek(3)
	assert.Equal(t, 3, rec.next(t))

	p.Load(testLog(t, 2))
	assert.Equal(t, 0, rec.next(t))
	assert.Equal(t, 0, p.Cursor().Index)
}

func TestLoadTextKeepsOldLogOnParseError(t *testing.T) {
	p := NewPlayer()
	require.NoError(t, p.LoadText("step\n1\n2\n"))
	p.Seek(1)

	err := p.LoadText("step\n")
	assert.ErrorIs(t, err, ErrEmptyLog)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 1, p.Cursor().Index)
}

func TestPlaybackVisitsEveryFrameThenStops(t *testing.T) {
	vc := clock.NewVirtualClock(time.Unix(0, 0))
	p := NewPlayer(WithClock(vc))
	rec := newRecorder(p)

	const frames = 5
	p.Load(testLog(t, frames))
	require.Equal(t, 0, rec.next(t))

	p.Play()
	require.True(t, p.Cursor().Playing)

	interval := tickInterval(DefaultRate)
	for want := 1; want < frames; want++ {
		vc.Advance(interval)
		assert.Equal(t, want, rec.next(t))
	}

	// One more tick runs off the end and stops playback instead of
	// advancing; the last frame stays displayed.
	vc.Advance(interval)
	require.Eventually(t, func() bool { return !p.Cursor().Playing }, time.Second, time.Millisecond)
	assert.Equal(t, frames-1, p.Cursor().Index)
	rec.none(t)
}

func TestPlayAtLastFrameIsNoOp(t *testing.T) {
	vc := clock.NewVirtualClock(time.Unix(0, 0))
	p := NewPlayer(WithClock(vc))
	p.Load(testLog(t, 3))
	p.Seek(2)

	p.Play()
	assert.False(t, p.Cursor().Playing)
	assert.Equal(t, 0, vc.Waiters())
}

func TestPauseCancelsPendingTick(t *testing.T) {
	vc := clock.NewVirtualClock(time.Unix(0, 0))
	p := NewPlayer(WithClock(vc))
	rec := newRecorder(p)

	p.Load(testLog(t, 10))
	require.Equal(t, 0, rec.next(t))

	p.Play()
	interval := tickInterval(DefaultRate)
	vc.Advance(interval)
	require.Equal(t, 1, rec.next(t))

	p.Pause()
	assert.False(t, p.Cursor().Playing)

	// Firing the already-scheduled tick after Pause must not advance.
	vc.Advance(10 * interval)
	rec.none(t)
	assert.Equal(t, 1, p.Cursor().Index)
}

func TestPauseThenLoadShorterLogSilencesOldTimer(t *testing.T) {
	vc := clock.NewVirtualClock(time.Unix(0, 0))
	p := NewPlayer(WithClock(vc))
	rec := newRecorder(p)

	p.Load(testLog(t, 10))
	require.Equal(t, 0, rec.next(t))
	p.Play()

	interval := tickInterval(DefaultRate)
	vc.Advance(interval)
	require.Equal(t, 1, rec.next(t))

	p.Pause()
	p.Load(testLog(t, 2))
	require.Equal(t, 0, rec.next(t))

	vc.Advance(100 * interval)
	rec.none(t)
	c := p.Cursor()
	assert.Equal(t, 0, c.Index)
	assert.False(t, c.Playing)
}

func TestSetRateClampsToOne(t *testing.T) {
	p := NewPlayer()
	p.SetRate(0)
	assert.Equal(t, 1.0, p.Cursor().Rate)
	p.SetRate(-5)
	assert.Equal(t, 1.0, p.Cursor().Rate)
	p.SetRate(30)
	assert.Equal(t, 30.0, p.Cursor().Rate)
}

func TestRateChangeAppliesToNextScheduledTick(t *testing.T) {
	vc := clock.NewVirtualClock(time.Unix(0, 0))
	p := NewPlayer(WithClock(vc))
	rec := newRecorder(p)

	p.Load(testLog(t, 5))
	require.Equal(t, 0, rec.next(t))
	p.Play()

	// The pending tick keeps the old interval even after SetRate.
	p.SetRate(2)
	vc.Advance(tickInterval(DefaultRate))
	require.Equal(t, 1, rec.next(t))

	// The next tick was scheduled at the new rate.
	vc.Advance(tickInterval(2))
	require.Equal(t, 2, rec.next(t))
}

func TestCloseStopsPlayback(t *testing.T) {
	vc := clock.NewVirtualClock(time.Unix(0, 0))
	p := NewPlayer(WithClock(vc))
	rec := newRecorder(p)

	p.Load(testLog(t, 5))
	require.Equal(t, 0, rec.next(t))
	p.Play()
	p.Close()

	vc.Advance(10 * tickInterval(DefaultRate))
	rec.none(t)
	assert.False(t, p.Cursor().Playing)
}
