package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/rotation"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

const testimonialInterval = 5 * time.Second

// Testimonials is the customer quote carousel
type Testimonials struct {
	ctrl *rotation.Controller[content.Testimonial]
	bind *binding
}

var _ live.View = (*Testimonials)(nil)

func NewTestimonials(items []content.Testimonial, opts Options) (*Testimonials, error) {
	opts = opts.withDefaults()
	v := &Testimonials{bind: &binding{view: "testimonials", recorder: opts.Recorder}}

	ctrl, err := rotation.New(items, testimonialInterval,
		rotation.WithClock(opts.Clock),
		rotation.WithOnChange(v.bind.onChange),
		rotation.WithLogger(opts.Logger.With("view", "testimonials")),
	)
	if err != nil {
		return nil, fmt.Errorf("testimonials: %w", err)
	}
	v.ctrl = ctrl
	return v, nil
}

func (v *Testimonials) Name() string { return "testimonials" }

func (v *Testimonials) Mount(host live.Host) error {
	v.bind.bind(host)
	v.ctrl.Start()
	return nil
}

func (v *Testimonials) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "next":
		v.ctrl.Advance()
	case "prev":
		v.ctrl.Retreat()
	case "toggle":
		v.ctrl.Toggle()
	case "jump":
		i, err := strconv.Atoi(ev.Value)
		if err != nil {
			return fmt.Errorf("jump %q: %w", ev.Value, err)
		}
		// an out of range index leaves the carousel as it was and is
		// never shown to the visitor
		if err := v.ctrl.JumpTo(i); err != nil {
			if host := v.bind.current(); host != nil {
				host.Logger().Debug("ignored jump", "index", i, "error", err)
			}
		}
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *Testimonials) Close() { v.ctrl.Close() }

func (v *Testimonials) State() rotation.State { return v.ctrl.State() }

func (v *Testimonials) Render() *vdom.VNode {
	st := v.ctrl.State()
	items := v.ctrl.Items()
	t := items[st.Index]

	toggleLabel, toggleIcon := "Pause autoplay", "❚❚"
	if !st.AutoPlaying {
		toggleLabel, toggleIcon = "Resume autoplay", "▶"
	}

	return h.Section(vdom.Props{"class": "testimonials", "data-view": "testimonials", "id": "testimonials"},
		h.H2(nil, h.Text("Loved by teams worldwide")),
		h.Article(vdom.Props{"class": "testimonial", "aria-live": "polite"},
			h.Div(vdom.Props{"class": "testimonial-company"},
				h.Span(vdom.Props{"class": "company-logo", "aria-hidden": "true"}, h.Text(t.Logo)),
				h.Span(nil, h.Text(t.Company)),
			),
			h.Div(vdom.Props{"class": "rating", "aria-label": fmt.Sprintf("%d out of 5 stars", t.Rating)},
				h.Text(strings.Repeat("★", t.Rating)),
			),
			h.Blockquote(nil, h.Textf("“%s”", t.Quote)),
			h.Div(vdom.Props{"class": "author"},
				h.Span(vdom.Props{"class": "avatar"}, h.Text(t.Avatar)),
				h.Div(nil,
					h.Strong(nil, h.Text(t.Author)),
					h.Small(nil, h.Textf("%s, %s", t.Role, t.Company)),
				),
				h.Div(vdom.Props{"class": "impact"},
					h.Strong(nil, h.Text(t.Impact)),
					h.Small(nil, h.Text("Impact")),
				),
			),
		),
		h.Div(vdom.Props{"class": "carousel-controls"},
			h.Button(vdom.Props{"type": "button", "data-action": "prev", "aria-label": "Previous testimonial"}, h.Text("‹")),
			h.Div(vdom.Props{"class": "dots", "role": "tablist"},
				h.Map(items, func(i int, item content.Testimonial) *vdom.VNode {
					return h.Button(vdom.Props{
						"type":          "button",
						"role":          "tab",
						"class":         vdom.Classes("dot", vdom.When(i == st.Index, "active")),
						"data-action":   "jump",
						"data-value":    i,
						"aria-selected": i == st.Index,
						"aria-label":    "Show testimonial from " + item.Company,
					})
				})...,
			),
			h.Button(vdom.Props{"type": "button", "data-action": "next", "aria-label": "Next testimonial"}, h.Text("›")),
			h.Button(vdom.Props{
				"type":        "button",
				"class":       vdom.Classes("autoplay", vdom.When(st.AutoPlaying, "playing")),
				"data-action": "toggle",
				"aria-label":  toggleLabel,
			}, h.Text(toggleIcon)),
		),
	)
}
