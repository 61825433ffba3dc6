package replay

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kmorse/paddlebot/clock"
)

// DefaultRate is the playback speed, in frames per second, before any
// SetRate call.
const DefaultRate = 12.0

// Cursor is the playback position: the current frame index plus the
// transport state.
type Cursor struct {
	Index   int
	Playing bool
	Rate    float64
}

// FrameFunc receives the current frame and cursor whenever the cursor
// lands on a new frame. Callbacks run on the player's tick path while the
// player is locked; they must not call back into the Player.
type FrameFunc func(Frame, Cursor)

// Player drives frame-by-frame playback of a loaded log. All transport
// operations are no-ops until a log is loaded. The recurring timer tick
// is the only asynchronous driver; every operation that stops playback
// cancels the pending tick before returning, so no tick is observed
// after Pause, Load or Close.
type Player struct {
	mu     sync.Mutex
	clk    clock.Clock
	logger *slog.Logger

	log    *Log
	cursor Cursor

	// stop identifies the current playback run. Closed and replaced on
	// every transition out of the playing state; a late tick holding a
	// stale channel discards itself.
	stop chan struct{}

	subscribers []FrameFunc
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithClock sets the clock driving the playback timer. Defaults to the
// real clock.
func WithClock(clk clock.Clock) PlayerOption {
	return func(p *Player) { p.clk = clk }
}

// WithLogger sets the structured logger. If not set, a default JSON
// logger writing to stderr is used.
func WithLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) { p.logger = logger }
}

// NewPlayer creates a Player with no log loaded.
func NewPlayer(opts ...PlayerOption) *Player {
	p := &Player{
		cursor: Cursor{Rate: DefaultRate},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.clk == nil {
		p.clk = clock.NewRealClock()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return p
}

// OnFrame registers a subscriber notified on every cursor change: after a
// load, a step or seek that moves the cursor, and each timer tick.
func (p *Player) OnFrame(fn FrameFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// Load replaces the frame sequence, resets the cursor to frame 0 and
// stops any active playback.
func (p *Player) Load(log *Log) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.log = log
	p.cursor.Index = 0
	if log.Len() > 0 {
		p.notifyLocked()
	}
}

// LoadText parses log text and loads the result. On a parse error the
// previously loaded log is left untouched.
func (p *Player) LoadText(text string) error {
	log, err := ParseLog(text)
	if err != nil {
		return err
	}
	p.Load(log)
	return nil
}

// Cursor returns the current playback position.
func (p *Player) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Frame returns the frame under the cursor. ok is false when no log with
// frames is loaded.
func (p *Player) Frame() (Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.log.Len() == 0 {
		return Frame{}, false
	}
	return p.log.Frames[p.cursor.Index], true
}

// Len returns the number of loaded frames.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.log.Len()
}

// SetRate changes the playback speed in frames per second. Rates below 1
// are clamped to 1. While playing, the new rate applies from the next
// scheduled tick; the tick already pending keeps its interval.
func (p *Player) SetRate(fps float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if fps < 1 {
		fps = 1
	}
	p.cursor.Rate = fps
}

// Play starts the playback loop. It has no effect with no frames loaded,
// while already playing, or with the cursor on the last frame.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.log.Len() == 0 || p.cursor.Playing || p.cursor.Index >= p.log.Len()-1 {
		return
	}
	p.cursor.Playing = true
	p.stop = make(chan struct{})
	p.scheduleLocked()
}

// Pause stops playback and cancels the pending tick. Safe to call when
// not playing.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Step moves the cursor by delta frames, clamped to the loaded range.
// No-op if no log is loaded.
func (p *Player) Step(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekLocked(p.cursor.Index + delta)
}

// Seek moves the cursor to index, clamped to the loaded range. No-op if
// no log is loaded.
func (p *Player) Seek(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seekLocked(index)
}

// Close stops playback. The player keeps its log; a closed player may be
// reused by loading again.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) seekLocked(index int) {
	n := p.log.Len()
	if n == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > n-1 {
		index = n - 1
	}
	if index == p.cursor.Index {
		return
	}
	p.cursor.Index = index
	p.notifyLocked()
}

// stopLocked leaves the playing state and invalidates the pending tick.
// Must be called with p.mu held.
func (p *Player) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	p.cursor.Playing = false
}

// scheduleLocked arms the next tick at the current rate. Must be called
// with p.mu held while playing.
func (p *Player) scheduleLocked() {
	stop := p.stop
	interval := time.Duration(float64(time.Second) / p.cursor.Rate)
	ch := p.clk.After(interval)
	go func() {
		select {
		case <-stop:
		case <-ch:
			p.tick(stop)
		}
	}()
}

// tick advances the cursor by one frame, or stops at the end of the log.
func (p *Player) tick(stop chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != stop || !p.cursor.Playing {
		// Playback was cancelled after this tick fired.
		return
	}
	next := p.cursor.Index + 1
	if next >= p.log.Len() {
		p.logger.Debug("playback reached end of log", "frames", p.log.Len())
		p.stopLocked()
		return
	}
	p.cursor.Index = next
	p.scheduleLocked()
	p.notifyLocked()
}

func (p *Player) notifyLocked() {
	frame := p.log.Frames[p.cursor.Index]
	for _, fn := range p.subscribers {
		fn(frame, p.cursor)
	}
}
