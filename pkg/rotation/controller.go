// Package rotation cycles through a fixed, ordered set of items on a timer.
//
// A Controller has two states, playing and paused. While playing, a ticker
// advances the current index every interval. Any explicit navigation (Advance,
// Retreat, JumpTo) pauses the controller so the next tick cannot override what
// the user asked for; SetAutoPlaying(true) resumes it from a full interval.
package rotation

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// State is a snapshot of a controller
type State struct {
	Index       int
	AutoPlaying bool
	Progress    int
}

// Cause identifies what produced a state change
type Cause uint8

const (
	// CauseTick is a timer-driven advance
	CauseTick Cause = iota
	// CauseProgress is a progress ticker step
	CauseProgress
	// CauseManual is an explicit navigation
	CauseManual
	// CauseAutoPlay is an autoplay toggle
	CauseAutoPlay
)

func (c Cause) String() string {
	switch c {
	case CauseTick:
		return "tick"
	case CauseProgress:
		return "progress"
	case CauseManual:
		return "manual"
	case CauseAutoPlay:
		return "autoplay"
	default:
		return "unknown"
	}
}

// ChangeFunc is called after every state change, outside the controller lock.
// It must not call Close.
type ChangeFunc func(st State, cause Cause)

type options struct {
	clock         clockwork.Clock
	autoPlay      bool
	progressStep  int
	progressEvery time.Duration
	onChange      ChangeFunc
	logger        *slog.Logger
}

// Option configures a Controller
type Option func(*options)

// WithClock sets the clock used for tickers. Defaults to the real clock.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithAutoPlay sets the initial autoplay state. Defaults to true.
func WithAutoPlay(enabled bool) Option {
	return func(o *options) {
		o.autoPlay = enabled
	}
}

// WithProgress attaches a progress ticker that adds step every period while
// the controller is playing.
func WithProgress(step int, every time.Duration) Option {
	return func(o *options) {
		o.progressStep = step
		o.progressEvery = every
	}
}

// WithOnChange registers the change callback
func WithOnChange(fn ChangeFunc) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// WithLogger sets the logger used for lifecycle debug output
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Controller is a timer-driven index cycler with manual override.
type Controller[T any] struct {
	items    []T
	interval time.Duration
	clock    clockwork.Clock
	onChange ChangeFunc
	logger   *slog.Logger

	progressEvery time.Duration

	mu       sync.Mutex
	index    int
	playing  bool
	started  bool
	closed   bool
	progress *Progress

	// gen identifies the live autoplay schedule. Every stop bumps it, so a
	// tick that was already in flight sees a stale generation and is dropped.
	gen  uint64
	stop chan struct{}
	wg   sync.WaitGroup

	// notifying counts change callbacks running outside the lock
	notifying sync.WaitGroup
}

// New creates a controller over items. The items are copied and never
// mutated. Timers do not run until Start is called.
func New[T any](items []T, interval time.Duration, opts ...Option) (*Controller[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptySet
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	o := options{
		clock:    clockwork.NewRealClock(),
		autoPlay: true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller[T]{
		items:    slices.Clone(items),
		interval: interval,
		clock:    o.clock,
		onChange: o.onChange,
		logger:   o.logger,
		playing:  o.autoPlay,
	}

	if o.progressStep != 0 || o.progressEvery != 0 {
		if o.progressEvery <= 0 {
			return nil, fmt.Errorf("progress cadence: %w", ErrInvalidInterval)
		}
		p, err := NewProgress(o.progressStep)
		if err != nil {
			return nil, err
		}
		c.progress = p
		c.progressEvery = o.progressEvery
	}

	return c, nil
}

// Start begins the autoplay schedule if the controller is playing.
// Calling Start more than once has no effect.
func (c *Controller[T]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.closed {
		return
	}
	c.started = true
	if c.playing {
		c.startLocked()
	}
}

// Close cancels the schedule, then waits for the timer goroutine and for
// change callbacks already in progress. No change callback fires after Close
// returns. Close must not be called from the change callback.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopLocked()
	c.mu.Unlock()

	c.wg.Wait()
	c.notifying.Wait()
}

// Advance moves to the next item and pauses autoplay
func (c *Controller[T]) Advance() {
	c.navigate(func(i, n int) int { return (i + 1) % n })
}

// Retreat moves to the previous item and pauses autoplay
func (c *Controller[T]) Retreat() {
	c.navigate(func(i, n int) int { return (i - 1 + n) % n })
}

// JumpTo moves to index and pauses autoplay. An index outside [0, N) is
// rejected with ErrOutOfRange and leaves the controller untouched.
func (c *Controller[T]) JumpTo(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, index, len(c.items))
	}
	c.navigate(func(int, int) int { return index })
	return nil
}

// SetAutoPlaying starts or stops the schedule. Enabling restarts from a full
// interval; disabling guarantees no pending tick advances the index.
func (c *Controller[T]) SetAutoPlaying(enabled bool) {
	c.setAutoPlaying(func(bool) bool { return enabled })
}

// Toggle flips the autoplay state
func (c *Controller[T]) Toggle() {
	c.setAutoPlaying(func(cur bool) bool { return !cur })
}

// State returns a snapshot of the controller
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Current returns the item at the current index
func (c *Controller[T]) Current() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[c.index]
}

// Items returns a copy of the rotation set
func (c *Controller[T]) Items() []T {
	return slices.Clone(c.items)
}

// Len returns the size of the rotation set
func (c *Controller[T]) Len() int {
	return len(c.items)
}

// Interval returns the autoplay interval
func (c *Controller[T]) Interval() time.Duration {
	return c.interval
}

func (c *Controller[T]) navigate(next func(i, n int) int) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.index = next(c.index, len(c.items))
	c.playing = false
	c.stopLocked()
	c.resetProgressLocked()
	st := c.stateLocked()
	c.notifying.Add(1)
	c.mu.Unlock()

	c.notify(st, CauseManual)
}

func (c *Controller[T]) setAutoPlaying(decide func(cur bool) bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	enabled := decide(c.playing)
	if enabled == c.playing {
		c.mu.Unlock()
		return
	}

	c.playing = enabled
	if enabled {
		c.resetProgressLocked()
		if c.started {
			c.startLocked()
		}
	} else {
		c.stopLocked()
	}
	st := c.stateLocked()
	c.notifying.Add(1)
	c.mu.Unlock()

	c.notify(st, CauseAutoPlay)
}

// startLocked creates the tickers before returning so a caller that advances
// a fake clock right after SetAutoPlaying(true) observes them.
func (c *Controller[T]) startLocked() {
	c.stopLocked()

	gen := c.gen
	stop := make(chan struct{})
	c.stop = stop

	rot := c.clock.NewTicker(c.interval)
	var prog clockwork.Ticker
	if c.progress != nil {
		prog = c.clock.NewTicker(c.progressEvery)
	}

	c.wg.Add(1)
	go c.run(gen, stop, rot, prog)

	c.logger.Debug("rotation autoplay started", "interval", c.interval, "items", len(c.items))
}

func (c *Controller[T]) stopLocked() {
	c.gen++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
		c.logger.Debug("rotation autoplay stopped", "index", c.index)
	}
}

func (c *Controller[T]) run(gen uint64, stop <-chan struct{}, rot, prog clockwork.Ticker) {
	defer c.wg.Done()
	defer rot.Stop()

	var progC <-chan time.Time
	if prog != nil {
		defer prog.Stop()
		progC = prog.Chan()
	}

	for {
		select {
		case <-stop:
			return
		case <-rot.Chan():
			c.tick(gen)
		case <-progC:
			c.tickProgress(gen)
		}
	}
}

func (c *Controller[T]) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.playing {
		c.mu.Unlock()
		return
	}
	c.index = (c.index + 1) % len(c.items)
	c.resetProgressLocked()
	st := c.stateLocked()
	c.notifying.Add(1)
	c.mu.Unlock()

	c.notify(st, CauseTick)
}

func (c *Controller[T]) tickProgress(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.playing || c.progress == nil {
		c.mu.Unlock()
		return
	}
	c.progress.Tick()
	st := c.stateLocked()
	c.notifying.Add(1)
	c.mu.Unlock()

	c.notify(st, CauseProgress)
}

func (c *Controller[T]) resetProgressLocked() {
	if c.progress != nil {
		c.progress.Reset()
	}
}

func (c *Controller[T]) stateLocked() State {
	st := State{
		Index:       c.index,
		AutoPlaying: c.playing,
	}
	if c.progress != nil {
		st.Progress = c.progress.Value()
	}
	return st
}

// notify runs the change callback. The caller has called notifying.Add
// while holding the lock and while the controller was open.
func (c *Controller[T]) notify(st State, cause Cause) {
	defer c.notifying.Done()
	if c.onChange != nil {
		c.onChange(st, cause)
	}
}
