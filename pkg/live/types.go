package live

import (
	"errors"
	"log/slog"

	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/scheduler"
	"github.com/recera/clueso-site/pkg/vdom"
)

var (
	// ErrUnknownPage is returned by a ViewFactory for a page it does not serve
	ErrUnknownPage = errors.New("live: unknown page")

	// ErrUnknownView is reported when an event names a view the session lacks
	ErrUnknownView = errors.New("live: unknown view")

	// ErrUnknownAction is returned by views for actions they do not handle
	ErrUnknownAction = errors.New("live: unknown action")

	// ErrTooManySessions is reported when the session limit is reached
	ErrTooManySessions = errors.New("live: too many sessions")
)

// Event is a user action routed to a view
type Event struct {
	Action string
	Value  string
}

// Toast is a transient notification shown by the client
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

// View is a stateful page section driven over a live session.
//
// Render must be safe to call before Mount: pages render every view once on
// the server for the initial HTML. The root element of a render should carry
// data-view set to Name so the client can replace it.
type View interface {
	Name() string
	Render() *vdom.VNode
	Mount(host Host) error
	HandleEvent(ev Event) error
	Close()
}

// ViewFactory builds fresh views for a page. Every session gets its own
// instances; views never share mutable state.
type ViewFactory func(page string) ([]View, error)

// Attachable is state that re-renders a view when it changes
type Attachable interface {
	Attach(sched reactive.Scheduler, fiber *scheduler.Fiber)
}

// Host is the session side of a mounted view
type Host interface {
	// Invalidate schedules a re-render of the view
	Invalidate()
	// Progress sends a progress frame without re-rendering
	Progress(value int)
	// Toast sends a notification to the client
	Toast(t Toast)
	// Attach binds reactive state to the view's fiber
	Attach(states ...Attachable)
	Logger() *slog.Logger
}

// Recorder receives live protocol events, typically for metrics
type Recorder interface {
	SessionOpened(page string)
	SessionClosed(page string)
	FrameSent(frameType string)
	FrameReceived(frameType string)
}

type nopRecorder struct{}

func (nopRecorder) SessionOpened(string) {}
func (nopRecorder) SessionClosed(string) {}
func (nopRecorder) FrameSent(string)     {}
func (nopRecorder) FrameReceived(string) {}
