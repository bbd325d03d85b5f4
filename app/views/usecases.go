package views

import (
	"fmt"
	"strconv"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

// UseCases is the grid of team use cases. Hovering a card highlights it.
type UseCases struct {
	cases  []content.UseCase
	active *reactive.State[int]
	bind   *binding
}

var _ live.View = (*UseCases)(nil)

func NewUseCases(cases []content.UseCase) *UseCases {
	return &UseCases{
		cases:  cases,
		active: reactive.NewState(-1, nil),
		bind:   &binding{view: "usecases"},
	}
}

func (v *UseCases) Name() string { return "usecases" }

func (v *UseCases) Mount(host live.Host) error {
	v.bind.bind(host)
	host.Attach(v.active)
	return nil
}

func (v *UseCases) HandleEvent(ev live.Event) error {
	if ev.Action == "blur" {
		v.active.Set(-1)
		return nil
	}

	i, err := strconv.Atoi(ev.Value)
	if err != nil || i < 0 || i >= len(v.cases) {
		return fmt.Errorf("use case %q: %w", ev.Value, live.ErrUnknownAction)
	}
	uc := v.cases[i]

	switch ev.Action {
	case "focus":
		v.active.Set(i)
	case "learn":
		v.toast(live.Toast{Title: uc.Title, Description: "Opening case study and examples..."})
	case "watch":
		v.toast(live.Toast{Title: uc.Title + " Demo", Description: "Loading video demo..."})
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *UseCases) toast(t live.Toast) {
	if host := v.bind.current(); host != nil {
		host.Toast(t)
	}
}

func (v *UseCases) Close() {}

// Active returns the highlighted case, or -1
func (v *UseCases) Active() int { return v.active.Get() }

func (v *UseCases) Render() *vdom.VNode {
	active := v.active.Get()

	return h.Section(vdom.Props{"class": "cards use-cases", "data-view": "usecases"},
		h.Span(vdom.Props{"class": "eyebrow"}, h.Text("Use Cases")),
		h.H2(nil, h.Text("Built for every team")),
		h.P(vdom.Props{"class": "lead"}, h.Text("From customer education to internal training, see how teams across your organization use Clueso.")),
		h.Div(vdom.Props{"class": "card-grid"},
			h.Map(v.cases, func(i int, uc content.UseCase) *vdom.VNode {
				return h.Article(vdom.Props{
					"class":        vdom.Classes("card use-case", vdom.When(i == active, "active")),
					"data-hold":    "focus",
					"data-release": "blur",
					"data-value":   strconv.Itoa(i),
				},
					h.If(uc.Stats != "", h.Span(vdom.Props{"class": "use-case-stat"}, h.Text(uc.Stats))),
					h.H3(nil, h.Text(uc.Title)),
					h.P(nil, h.Text(uc.Description)),
					h.Ul(vdom.Props{"class": "use-case-features"},
						h.Map(uc.Features, func(_ int, f string) *vdom.VNode {
							return h.Li(nil, h.Span(vdom.Props{"aria-hidden": "true"}, h.Text("✓")), h.Text(" "+f))
						})...,
					),
					h.Div(vdom.Props{"class": "use-case-actions"},
						h.Button(vdom.Props{"type": "button", "class": "btn btn-ghost", "data-action": "learn", "data-value": strconv.Itoa(i)},
							h.Text("Learn more")),
						h.Button(vdom.Props{"type": "button", "class": "btn btn-ghost", "data-action": "watch", "data-value": strconv.Itoa(i), "aria-label": "Watch " + uc.Title + " demo"},
							h.Text("▶")),
					),
				)
			})...,
		),
	)
}
