package live

import (
	"log/slog"
	"sync/atomic"

	"github.com/recera/clueso-site/pkg/renderer/html"
	"github.com/recera/clueso-site/pkg/scheduler"
	"github.com/recera/clueso-site/pkg/vdom"
)

// mountedView connects one view to its session's scheduler and writer. It is
// the Host handed to View.Mount.
type mountedView struct {
	view    View
	session *Session
	fiber   *scheduler.Fiber
	mounted atomic.Bool

	// last HTML sent for this view, only touched by the scheduler loop
	lastHTML string
}

var _ Host = (*mountedView)(nil)

func (s *Session) mount(mv *mountedView) error {
	mv.fiber = s.sched.CreateFiber(mv.view.Render, nil)
	mv.fiber.SetUserData(mv)

	if err := mv.view.Mount(mv); err != nil {
		s.sched.RemoveFiber(mv.fiber)
		mv.view.Close()
		return err
	}
	mv.mounted.Store(true)
	return nil
}

func (mv *mountedView) unmount() {
	if !mv.mounted.CompareAndSwap(true, false) {
		return
	}
	mv.view.Close()
	mv.session.sched.RemoveFiber(mv.fiber)
}

// commit sends a render frame when the view's HTML actually changed
func (s *Session) commit(fiber *scheduler.Fiber, node *vdom.VNode) {
	mv, ok := fiber.GetUserData().(*mountedView)
	if !ok {
		return
	}

	out, err := html.RenderToString(node)
	if err != nil {
		s.logger.Error("render view", "view", mv.view.Name(), "error", err)
		return
	}
	if out == mv.lastHTML {
		return
	}
	mv.lastHTML = out
	s.enqueue(renderFrame(mv.view.Name(), out))
}

func (mv *mountedView) Invalidate() {
	mv.session.sched.MarkDirty(mv.fiber)
}

func (mv *mountedView) Progress(value int) {
	mv.session.enqueue(progressFrame(mv.view.Name(), value))
}

func (mv *mountedView) Toast(t Toast) {
	mv.session.enqueue(toastFrame(t))
}

func (mv *mountedView) Attach(states ...Attachable) {
	for _, st := range states {
		st.Attach(mv.session.sched, mv.fiber)
	}
}

func (mv *mountedView) Logger() *slog.Logger {
	return mv.session.logger.With("view", mv.view.Name())
}
