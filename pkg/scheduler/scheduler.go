// Package scheduler runs view render functions on a single goroutine.
//
// Each live session owns one Scheduler. Views are wrapped in fibers; marking a
// fiber dirty queues it, and the loop renders queued fibers in batches and
// hands each result to the commit callback. Rendering of all views of one
// session is therefore serialized.
package scheduler

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/recera/clueso-site/pkg/vdom"
)

// RenderFunc is the function type for view render functions
type RenderFunc func() *vdom.VNode

// CommitFunc receives every successful render
type CommitFunc func(fiber *Fiber, node *vdom.VNode)

// ErrorHandler handles panics during rendering.
// Returns true to keep the fiber scheduled, false to remove it.
type ErrorHandler func(fiber *Fiber, err error) bool

// Fiber is the scheduling unit for one view
type Fiber struct {
	id     uint32
	parent *Fiber

	render RenderFunc

	// last rendered tree, only touched by the loop goroutine
	vnode *vdom.VNode

	dirty   atomic.Bool
	removed atomic.Bool

	onError ErrorHandler

	userData any
}

// Scheduler manages fiber execution
type Scheduler struct {
	mu      sync.Mutex
	fibers  map[uint32]*Fiber
	nextID  uint32
	wake    chan *Fiber
	stop    chan struct{}
	done    chan struct{}
	running atomic.Bool

	// missed is set when a wake send was dropped; the loop then sweeps
	// every dirty fiber
	missed atomic.Bool

	commit       CommitFunc
	defaultError ErrorHandler
	logger       *slog.Logger
}

// NewScheduler creates a new scheduler instance
func NewScheduler() *Scheduler {
	return &Scheduler{
		fibers: make(map[uint32]*Fiber),
		nextID: 1,
		wake:   make(chan *Fiber, 256),
		logger: slog.Default(),
	}
}

// SetCommit sets the function that receives rendered trees
func (s *Scheduler) SetCommit(fn CommitFunc) {
	s.commit = fn
}

// SetDefaultErrorHandler sets the error handler for fibers created afterwards
func (s *Scheduler) SetDefaultErrorHandler(handler ErrorHandler) {
	s.defaultError = handler
}

// SetLogger sets the logger used for render failures
func (s *Scheduler) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// CreateFiber creates a new fiber for a view
func (s *Scheduler) CreateFiber(render RenderFunc, parent *Fiber) *Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	fiber := &Fiber{
		id:      id,
		parent:  parent,
		render:  render,
		onError: s.defaultError,
	}

	s.fibers[id] = fiber
	return fiber
}

// RemoveFiber removes a fiber from the scheduler. A queued render of a
// removed fiber is dropped.
func (s *Scheduler) RemoveFiber(fiber *Fiber) {
	if fiber == nil {
		return
	}
	fiber.removed.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fibers, fiber.id)
}

// MarkDirty queues a fiber for rendering. Marking an already dirty fiber is a
// no-op. Fibers marked before Start are rendered once the loop starts.
func (s *Scheduler) MarkDirty(fiber *Fiber) {
	if fiber == nil || fiber.removed.Load() {
		return
	}
	if !fiber.dirty.CompareAndSwap(false, true) {
		return
	}
	if !s.running.Load() {
		return
	}

	select {
	case s.wake <- fiber:
	default:
		s.missed.Store(true)
		s.logger.Debug("scheduler wake channel full", "fiber", fiber.id)
		// the loop may have drained the channel before missed was set;
		// a nil nudge wakes it, and if the channel is full again the loop
		// is about to wake anyway
		select {
		case s.wake <- nil:
		default:
		}
	}
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.stop, s.done)
}

// Stop ends the loop and waits for an in-progress batch to finish.
// Pending renders are dropped.
func (s *Scheduler) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stop)
	<-s.done
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

func (s *Scheduler) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	// fibers that were marked before the loop started
	s.processBatch(s.dirtyFibers())

	for {
		var fiber *Fiber
		select {
		case <-stop:
			return
		case fiber = <-s.wake:
		}

		batch := []*Fiber{fiber}
	drain:
		for {
			select {
			case f := <-s.wake:
				batch = append(batch, f)
			default:
				break drain
			}
		}

		if s.missed.Swap(false) {
			batch = append(batch, s.dirtyFibers()...)
		}

		s.processBatch(batch)
	}
}

func (s *Scheduler) dirtyFibers() []*Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Fiber
	for _, f := range s.fibers {
		if f.dirty.Load() {
			out = append(out, f)
		}
	}
	return out
}

func (s *Scheduler) processBatch(batch []*Fiber) {
	for _, f := range batch {
		if f != nil {
			s.processFiber(f)
		}
	}
}

// processFiber renders a single fiber and commits the result
func (s *Scheduler) processFiber(fiber *Fiber) {
	if fiber.removed.Load() {
		return
	}
	// already rendered by an earlier batch entry
	if !fiber.dirty.CompareAndSwap(true, false) {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.handleFiberError(fiber, r)
		}
	}()

	next := fiber.render()
	fiber.vnode = next
	if s.commit != nil && next != nil {
		s.commit(fiber, next)
	}
}

func (s *Scheduler) handleFiberError(fiber *Fiber, r any) {
	err := fmt.Errorf("fiber %d panic: %v", fiber.id, r)
	s.logger.Error("render panic", "fiber", fiber.id, "error", r, "stack", string(debug.Stack()))

	keep := false
	if fiber.onError != nil {
		keep = fiber.onError(fiber, err)
	}
	if !keep {
		s.RemoveFiber(fiber)
	}
}

// GetFiber returns a fiber by ID
func (s *Scheduler) GetFiber(id uint32) *Fiber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fibers[id]
}

// FiberCount returns the number of active fibers
func (s *Scheduler) FiberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fibers)
}

// SetUserData attaches caller data to the fiber
func (f *Fiber) SetUserData(data any) {
	f.userData = data
}

// GetUserData returns the data set with SetUserData
func (f *Fiber) GetUserData() any {
	return f.userData
}

// ID returns the fiber's unique ID
func (f *Fiber) ID() uint32 {
	return f.id
}

// Parent returns the fiber's parent
func (f *Fiber) Parent() *Fiber {
	return f.parent
}

// VNode returns the fiber's last rendered tree. Only safe to call from the
// commit callback or after the scheduler has stopped.
func (f *Fiber) VNode() *vdom.VNode {
	return f.vnode
}

// SetErrorHandler sets a custom error handler for this fiber
func (f *Fiber) SetErrorHandler(handler ErrorHandler) {
	f.onError = handler
}
