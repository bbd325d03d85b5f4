package rotation

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	pollAt  = time.Millisecond
	quiet   = 50 * time.Millisecond
)

type recorder struct {
	mu     sync.Mutex
	causes []Cause
}

func (r *recorder) record(_ State, cause Cause) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.causes = append(r.causes, cause)
}

func (r *recorder) count(cause Cause) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.causes {
		if c == cause {
			n++
		}
	}
	return n
}

func newTestController(t *testing.T, n int, interval time.Duration, opts ...Option) (*Controller[int], *clockwork.FakeClock) {
	t.Helper()

	items := make([]int, n)
	for i := range items {
		items[i] = i * 10
	}

	clock := clockwork.NewFakeClock()
	c, err := New(items, interval, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, clock
}

func waitIndex(t *testing.T, c *Controller[int], want int) {
	t.Helper()
	require.Eventually(t, func() bool { return c.State().Index == want }, waitFor, pollAt,
		"index never reached %d", want)
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]string{}, time.Second)
	assert.ErrorIs(t, err, ErrEmptySet)

	_, err = New[string](nil, time.Second)
	assert.ErrorIs(t, err, ErrEmptySet)

	_, err = New([]string{"a"}, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = New([]string{"a"}, time.Second, WithProgress(0, 100*time.Millisecond))
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = New([]string{"a"}, time.Second, WithProgress(2, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestNew_InitialState(t *testing.T) {
	c, _ := newTestController(t, 3, time.Second)

	st := c.State()
	assert.Equal(t, 0, st.Index)
	assert.True(t, st.AutoPlaying)
	assert.Equal(t, 0, c.Current())
	assert.Equal(t, 3, c.Len())

	paused, _ := newTestController(t, 3, time.Second, WithAutoPlay(false))
	assert.False(t, paused.State().AutoPlaying)
}

func TestNew_CopiesItems(t *testing.T) {
	items := []string{"a", "b"}
	c, err := New(items, time.Second)
	require.NoError(t, err)
	defer c.Close()

	items[0] = "mutated"
	assert.Equal(t, "a", c.Current())

	got := c.Items()
	got[1] = "mutated"
	assert.Equal(t, []string{"a", "b"}, c.Items())
}

func TestAdvance_StaysInRangeAndCycles(t *testing.T) {
	for n := 1; n <= 7; n++ {
		c, _ := newTestController(t, n, time.Second)

		for i := 0; i < n; i++ {
			c.Advance()
			idx := c.State().Index
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, n)
		}
		assert.Equal(t, 0, c.State().Index, "n=%d: N advances should return to start", n)
	}
}

func TestRetreat_UndoesAdvance(t *testing.T) {
	c, _ := newTestController(t, 5, time.Second)

	require.NoError(t, c.JumpTo(3))
	c.Advance()
	c.Retreat()
	assert.Equal(t, 3, c.State().Index)

	require.NoError(t, c.JumpTo(0))
	c.Retreat()
	assert.Equal(t, 4, c.State().Index, "retreat from 0 wraps to N-1")
}

func TestManualNavigation_PausesAndResumes(t *testing.T) {
	tests := []struct {
		name string
		nav  func(c *Controller[int])
	}{
		{"advance", func(c *Controller[int]) { c.Advance() }},
		{"retreat", func(c *Controller[int]) { c.Retreat() }},
		{"jump", func(c *Controller[int]) { _ = c.JumpTo(2) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, 4, time.Second)
			c.Start()

			tt.nav(c)
			st := c.State()
			assert.False(t, st.AutoPlaying)

			c.SetAutoPlaying(true)
			resumed := c.State()
			assert.True(t, resumed.AutoPlaying)
			assert.Equal(t, st.Index, resumed.Index, "resuming must not advance")
		})
	}
}

func TestScenario_TicksThenPrevious(t *testing.T) {
	interval := 5 * time.Second
	c, clock := newTestController(t, 4, interval)
	c.Start()

	for want := 1; want <= 3; want++ {
		clock.Advance(interval)
		waitIndex(t, c, want)
	}

	c.Retreat()
	st := c.State()
	assert.Equal(t, 2, st.Index)
	assert.False(t, st.AutoPlaying)

	for i := 0; i < 4; i++ {
		clock.Advance(interval)
	}
	assert.Never(t, func() bool { return c.State().Index != 2 }, quiet, pollAt)
	assert.False(t, c.State().AutoPlaying)
}

func TestJumpTo_RejectsOutOfRangeConsistently(t *testing.T) {
	c, _ := newTestController(t, 4, time.Second)
	c.Start()
	require.NoError(t, c.JumpTo(1))
	c.SetAutoPlaying(true)
	before := c.State()

	for _, idx := range []int{10, 4, -1, 10} {
		err := c.JumpTo(idx)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, before, c.State(), "rejected jump to %d must not change state", idx)
	}
}

func TestSetAutoPlaying_DisableStopsTicks(t *testing.T) {
	interval := time.Second
	c, clock := newTestController(t, 3, interval)
	c.Start()

	clock.Advance(interval)
	waitIndex(t, c, 1)

	c.SetAutoPlaying(false)
	clock.Advance(10 * interval)
	assert.Never(t, func() bool { return c.State().Index != 1 }, quiet, pollAt)
}

func TestSetAutoPlaying_InvalidatesInFlightTick(t *testing.T) {
	c, _ := newTestController(t, 3, time.Second)
	c.Start()

	c.mu.Lock()
	staleGen := c.gen
	c.mu.Unlock()

	c.SetAutoPlaying(false)
	c.tick(staleGen)
	assert.Equal(t, 0, c.State().Index)

	c.SetAutoPlaying(true)
	c.tick(staleGen)
	assert.Equal(t, 0, c.State().Index, "a tick from a previous schedule is dropped after resume")
}

func TestSetAutoPlaying_RestartsFromFullInterval(t *testing.T) {
	interval := time.Second
	c, clock := newTestController(t, 3, interval)
	c.Start()

	clock.Advance(interval / 2)
	c.SetAutoPlaying(false)
	c.SetAutoPlaying(true)

	clock.Advance(interval / 2)
	assert.Never(t, func() bool { return c.State().Index != 0 }, quiet, pollAt)

	clock.Advance(interval / 2)
	waitIndex(t, c, 1)
}

func TestToggle(t *testing.T) {
	rec := &recorder{}
	c, _ := newTestController(t, 2, time.Second, WithOnChange(rec.record))

	c.Toggle()
	assert.False(t, c.State().AutoPlaying)
	c.Toggle()
	assert.True(t, c.State().AutoPlaying)
	assert.Equal(t, 2, rec.count(CauseAutoPlay))

	c.SetAutoPlaying(true)
	assert.Equal(t, 2, rec.count(CauseAutoPlay), "setting the current state is a no-op")
}

func TestStart_WhilePausedDoesNotTick(t *testing.T) {
	c, clock := newTestController(t, 3, time.Second, WithAutoPlay(false))
	c.Start()

	clock.Advance(5 * time.Second)
	assert.Never(t, func() bool { return c.State().Index != 0 }, quiet, pollAt)
}

func TestClose_CancelsSchedule(t *testing.T) {
	rec := &recorder{}
	c, clock := newTestController(t, 3, time.Second, WithOnChange(rec.record))
	c.Start()

	clock.Advance(time.Second)
	waitIndex(t, c, 1)

	c.Close()
	c.Close()
	ticks := rec.count(CauseTick)

	clock.Advance(5 * time.Second)
	c.SetAutoPlaying(true)
	c.Advance()
	assert.Never(t, func() bool { return rec.count(CauseTick) != ticks }, quiet, pollAt)
	assert.Equal(t, 1, c.State().Index)
	assert.Zero(t, rec.count(CauseManual))
}

func TestClose_WaitsForManualCallback(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	c, _ := newTestController(t, 3, time.Second, WithOnChange(func(_ State, cause Cause) {
		if cause != CauseManual {
			return
		}
		close(entered)
		<-release
		finished.Store(true)
	}))

	go c.Advance()
	<-entered

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()

	assert.Never(t, func() bool {
		select {
		case <-closed:
			return true
		default:
			return false
		}
	}, quiet, pollAt, "Close returned while a callback was running")

	close(release)
	select {
	case <-closed:
	case <-time.After(waitFor):
		t.Fatal("Close did not return")
	}
	assert.True(t, finished.Load())
}

func TestOnChange_ReportsCauses(t *testing.T) {
	rec := &recorder{}
	c, clock := newTestController(t, 3, time.Second, WithOnChange(rec.record))
	c.Start()

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return rec.count(CauseTick) == 1 }, waitFor, pollAt)

	c.Advance()
	assert.Equal(t, 1, rec.count(CauseManual))
	assert.Equal(t, 0, rec.count(CauseProgress))
}

func TestProgress_TicksAndResetsOnAdvance(t *testing.T) {
	interval := time.Second
	every := 300 * time.Millisecond
	c, clock := newTestController(t, 3, interval, WithProgress(10, every))
	c.Start()

	for want := 10; want <= 30; want += 10 {
		clock.Advance(every)
		require.Eventually(t, func() bool { return c.State().Progress == want }, waitFor, pollAt)
	}

	// 900ms -> 1000ms: the rotation ticker fires and resets progress
	clock.Advance(100 * time.Millisecond)
	require.Eventually(t, func() bool {
		st := c.State()
		return st.Index == 1 && st.Progress == 0
	}, waitFor, pollAt)

	// 1000ms -> 1200ms: progress resumes from zero
	clock.Advance(200 * time.Millisecond)
	require.Eventually(t, func() bool { return c.State().Progress == 10 }, waitFor, pollAt)
}

func TestProgress_FrozenWhilePaused(t *testing.T) {
	every := 100 * time.Millisecond
	c, clock := newTestController(t, 3, time.Second, WithProgress(2, every))
	c.Start()

	clock.Advance(every)
	require.Eventually(t, func() bool { return c.State().Progress == 2 }, waitFor, pollAt)

	c.SetAutoPlaying(false)
	clock.Advance(5 * every)
	assert.Never(t, func() bool { return c.State().Progress != 2 }, quiet, pollAt)

	c.SetAutoPlaying(true)
	assert.Equal(t, 0, c.State().Progress, "resume restarts the interval and the bar")
}

func TestCause_String(t *testing.T) {
	assert.Equal(t, "tick", CauseTick.String())
	assert.Equal(t, "progress", CauseProgress.String())
	assert.Equal(t, "manual", CauseManual.String())
	assert.Equal(t, "autoplay", CauseAutoPlay.String())
	assert.Equal(t, "unknown", Cause(99).String())
}
