// Package views holds the site's live views: the sections whose state
// changes after the page is served (carousels, toggles, the hero player,
// the signup form and the dashboard).
package views

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/internal/submit"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/rotation"
)

// RotationRecorder observes index changes of rotating views
type RotationRecorder interface {
	RotationChanged(view, cause string)
}

type nopRecorder struct{}

func (nopRecorder) RotationChanged(string, string) {}

// Options are shared by every view a Factory builds
type Options struct {
	Clock    clockwork.Clock
	Recorder RotationRecorder
	Logger   *slog.Logger
	// Submit handles the signup form. Nil simulates every submission.
	Submit *submit.Service
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Submit == nil {
		o.Submit = submit.NewService(submit.NewSimulatedSubmitter(o.Clock, 0),
			submit.WithClock(o.Clock),
			submit.WithLogger(o.Logger),
		)
	}
	return o
}

// Pages lists the pages with live views, in no particular order
var Pages = []string{
	"home", "features", "pricing", "contact", "demo",
	"customers", "resources", "dashboard", "notfound",
}

// Factory builds the views of a page from the content in effect
type Factory struct {
	store *content.Store
	opts  Options
}

func NewFactory(store *content.Store, opts Options) *Factory {
	return &Factory{store: store, opts: opts.withDefaults()}
}

type builder func() (live.View, error)

// Build creates fresh, unmounted views for page. It has the signature of
// live.ViewFactory.
func (f *Factory) Build(page string) ([]live.View, error) {
	c := f.store.Current()

	header := func() (live.View, error) { return NewHeader(page), nil }
	hero := func() (live.View, error) { return NewHero(c.Hero, f.opts) }
	logos := func() (live.View, error) { return NewLogos(c.Logos, f.opts) }
	testimonials := func() (live.View, error) { return NewTestimonials(c.Testimonials, f.opts) }
	pricing := func() (live.View, error) { return NewPricing(c.Plans), nil }
	translate := func() (live.View, error) { return NewTranslate(c.Translate, f.opts), nil }
	useCases := func() (live.View, error) { return NewUseCases(c.UseCases), nil }
	signup := func() (live.View, error) { return NewSignup(c.TrustBadges, f.opts), nil }
	dashboard := func() (live.View, error) { return NewDashboard(c.Dashboard), nil }

	var builders []builder
	switch page {
	case "home":
		builders = []builder{header, hero, logos, translate, useCases, testimonials, signup}
	case "features":
		builders = []builder{header, useCases, testimonials, signup}
	case "pricing":
		builders = []builder{header, pricing}
	case "customers":
		builders = []builder{header, signup}
	case "dashboard":
		builders = []builder{dashboard}
	case "contact", "demo", "resources", "notfound":
		builders = []builder{header}
	default:
		return nil, fmt.Errorf("%w: %s", live.ErrUnknownPage, page)
	}

	built := make([]live.View, 0, len(builders))
	for _, build := range builders {
		v, err := build()
		if err != nil {
			closeAll(built)
			return nil, fmt.Errorf("build %s views: %w", page, err)
		}
		built = append(built, v)
	}
	return built, nil
}

// ByName indexes views by name
func ByName(vs []live.View) map[string]live.View {
	out := make(map[string]live.View, len(vs))
	for _, v := range vs {
		out[v.Name()] = v
	}
	return out
}

func closeAll(vs []live.View) {
	for _, v := range vs {
		v.Close()
	}
}

// binding connects a controller's change callback to whichever host the view
// is mounted on. Changes before Mount are ignored: the first render after
// mounting carries the current state anyway.
type binding struct {
	view     string
	recorder RotationRecorder

	mu   sync.RWMutex
	host live.Host
}

func (b *binding) bind(host live.Host) {
	b.mu.Lock()
	b.host = host
	b.mu.Unlock()
}

func (b *binding) current() live.Host {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.host
}

// onChange is the rotation.ChangeFunc of the view's controller
func (b *binding) onChange(st rotation.State, cause rotation.Cause) {
	if cause == rotation.CauseTick || cause == rotation.CauseManual {
		b.recorder.RotationChanged(b.view, cause.String())
	}

	host := b.current()
	if host == nil {
		return
	}
	if cause == rotation.CauseProgress {
		host.Progress(st.Progress)
		return
	}
	host.Invalidate()
}
