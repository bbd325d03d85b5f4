package reactive

import (
	"sync"
	"testing"

	"github.com/recera/clueso-site/pkg/scheduler"
	"github.com/recera/clueso-site/pkg/vdom"
)

// recordingScheduler counts MarkDirty calls per fiber
type recordingScheduler struct {
	mu    sync.Mutex
	marks map[uint32]int
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{marks: make(map[uint32]int)}
}

func (r *recordingScheduler) MarkDirty(f *scheduler.Fiber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks[f.ID()]++
}

func (r *recordingScheduler) count(f *scheduler.Fiber) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.marks[f.ID()]
}

func newFiber(s *scheduler.Scheduler) *scheduler.Fiber {
	return s.CreateFiber(func() *vdom.VNode { return nil }, nil)
}

func TestState_GetSet(t *testing.T) {
	state := NewState(42, nil)

	if got := state.Get(); got != 42 {
		t.Errorf("Expected initial value 42, got %d", got)
	}

	state.Set(100)
	if got := state.Get(); got != 100 {
		t.Errorf("Expected value 100 after Set, got %d", got)
	}
}

func TestState_SetMarksSubscribers(t *testing.T) {
	sched := scheduler.NewScheduler()
	rec := newRecordingScheduler()
	state := NewState("hello", rec)

	subscribed := newFiber(sched)
	other := newFiber(sched)

	state.Subscribe(subscribed)
	state.Set("world")

	if rec.count(subscribed) != 1 {
		t.Errorf("subscribed fiber marked %d times, want 1", rec.count(subscribed))
	}
	if rec.count(other) != 0 {
		t.Errorf("unsubscribed fiber marked %d times, want 0", rec.count(other))
	}

	state.Unsubscribe(subscribed)
	state.Set("again")
	if rec.count(subscribed) != 1 {
		t.Errorf("fiber marked after Unsubscribe")
	}
}

func TestState_Update(t *testing.T) {
	sched := scheduler.NewScheduler()
	rec := newRecordingScheduler()
	state := NewState(1, rec)
	fiber := newFiber(sched)
	state.Subscribe(fiber)

	if got := state.Update(func(v int) int { return v * 10 }); got != 10 {
		t.Errorf("Update returned %d, want 10", got)
	}
	if rec.count(fiber) != 1 {
		t.Errorf("fiber marked %d times, want 1", rec.count(fiber))
	}
}

func TestToggle(t *testing.T) {
	state := NewState(false, nil)

	if !Toggle(state) {
		t.Error("first toggle should return true")
	}
	if Toggle(state) {
		t.Error("second toggle should return false")
	}
	if state.Get() {
		t.Error("state should be false after two toggles")
	}
}

func TestState_ConcurrentUpdate(t *testing.T) {
	state := NewState(0, nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.Update(func(v int) int { return v + 1 })
		}()
	}
	wg.Wait()

	if got := state.Get(); got != 100 {
		t.Errorf("Expected 100 after concurrent updates, got %d", got)
	}
}

func TestState_NilFiber(t *testing.T) {
	state := NewState(0, newRecordingScheduler())

	// Should not panic
	state.Subscribe(nil)
	state.Unsubscribe(nil)
	state.Set(1)
}

func TestState_AttachAfterConstruction(t *testing.T) {
	sched := scheduler.NewScheduler()
	state := NewState(false, nil)
	fiber := newFiber(sched)

	// no scheduler yet: Set only stores
	state.Set(true)

	rec := newRecordingScheduler()
	state.Attach(rec, fiber)
	Toggle(state)

	if rec.count(fiber) != 1 {
		t.Errorf("fiber marked %d times after Attach, want 1", rec.count(fiber))
	}
	if state.Get() {
		t.Error("expected false after toggle")
	}
}
