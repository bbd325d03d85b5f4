// Package reactive holds view-local state cells that re-render the fibers
// subscribed to them.
//
// There is no ambient "current fiber": a live server runs many sessions at
// once, so a view subscribes its own fiber explicitly when it is mounted.
package reactive

import (
	"sync"

	"github.com/recera/clueso-site/pkg/scheduler"
)

// Scheduler is the part of the scheduler a State needs
type Scheduler interface {
	MarkDirty(fiber *scheduler.Fiber)
}

// Signal is the interface for reactive values
type Signal[T any] interface {
	Get() T
	Set(T)
	Subscribe(fiber *scheduler.Fiber)
	Unsubscribe(fiber *scheduler.Fiber)
}

var _ Signal[bool] = (*State[bool])(nil)

// State is a reactive value owned by a single view
type State[T any] struct {
	mu    sync.RWMutex
	value T

	depsMu    sync.Mutex
	deps      map[uint32]*scheduler.Fiber
	scheduler Scheduler
}

// NewState creates a new reactive state. sched may be nil, in which case Set
// only stores the value.
func NewState[T any](initial T, sched Scheduler) *State[T] {
	return &State[T]{
		value:     initial,
		deps:      make(map[uint32]*scheduler.Fiber),
		scheduler: sched,
	}
}

// Get returns the current value
func (s *State[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set stores value and marks subscribed fibers dirty
func (s *State[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	s.notify()
}

// Update atomically reads, modifies, and writes the value, then marks
// subscribed fibers dirty. It returns the new value.
func (s *State[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.value)
	next := s.value
	s.mu.Unlock()

	s.notify()
	return next
}

// Attach sets the scheduler and subscribes fiber in one step. Views build
// their state before they are mounted on a live session, so the scheduler is
// only known at mount time.
func (s *State[T]) Attach(sched Scheduler, fiber *scheduler.Fiber) {
	s.depsMu.Lock()
	s.scheduler = sched
	s.depsMu.Unlock()

	s.Subscribe(fiber)
}

// Subscribe adds a fiber as a dependency
func (s *State[T]) Subscribe(fiber *scheduler.Fiber) {
	if fiber == nil {
		return
	}

	s.depsMu.Lock()
	defer s.depsMu.Unlock()
	s.deps[fiber.ID()] = fiber
}

// Unsubscribe removes a fiber as a dependency
func (s *State[T]) Unsubscribe(fiber *scheduler.Fiber) {
	if fiber == nil {
		return
	}

	s.depsMu.Lock()
	defer s.depsMu.Unlock()
	delete(s.deps, fiber.ID())
}

// notify marks fibers dirty outside the locks
func (s *State[T]) notify() {
	s.depsMu.Lock()
	sched := s.scheduler
	if sched == nil {
		s.depsMu.Unlock()
		return
	}
	deps := make([]*scheduler.Fiber, 0, len(s.deps))
	for _, fiber := range s.deps {
		deps = append(deps, fiber)
	}
	s.depsMu.Unlock()

	for _, fiber := range deps {
		sched.MarkDirty(fiber)
	}
}

// Toggle flips a boolean state and returns the new value
func Toggle(s *State[bool]) bool {
	return s.Update(func(v bool) bool { return !v })
}
