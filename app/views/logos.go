package views

import (
	"fmt"
	"time"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/rotation"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

const logoInterval = 3 * time.Second

// Logos is the customer logo strip. Every interval the strip shifts by one
// logo; hovering holds it in place.
type Logos struct {
	ctrl *rotation.Controller[content.Logo]
	bind *binding
}

var _ live.View = (*Logos)(nil)

func NewLogos(logos []content.Logo, opts Options) (*Logos, error) {
	opts = opts.withDefaults()
	v := &Logos{bind: &binding{view: "logos", recorder: opts.Recorder}}

	ctrl, err := rotation.New(logos, logoInterval,
		rotation.WithClock(opts.Clock),
		rotation.WithOnChange(v.bind.onChange),
		rotation.WithLogger(opts.Logger.With("view", "logos")),
	)
	if err != nil {
		return nil, fmt.Errorf("logos: %w", err)
	}
	v.ctrl = ctrl
	return v, nil
}

func (v *Logos) Name() string { return "logos" }

func (v *Logos) Mount(host live.Host) error {
	v.bind.bind(host)
	v.ctrl.Start()
	return nil
}

func (v *Logos) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "hold":
		v.ctrl.SetAutoPlaying(false)
	case "release":
		v.ctrl.SetAutoPlaying(true)
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *Logos) Close() { v.ctrl.Close() }

func (v *Logos) State() rotation.State { return v.ctrl.State() }

// Strip returns the logos in display order: starting at the current offset
// and repeated once so the strip can wrap without a gap.
func (v *Logos) Strip() []content.Logo {
	items := v.ctrl.Items()
	offset := v.ctrl.State().Index

	out := make([]content.Logo, 0, 2*len(items))
	for range 2 {
		out = append(out, items[offset:]...)
		out = append(out, items[:offset]...)
	}
	return out
}

func (v *Logos) Render() *vdom.VNode {
	n := v.ctrl.Len()

	return h.Section(vdom.Props{"class": "logos", "data-view": "logos"},
		h.P(vdom.Props{"class": "eyebrow"}, h.Text("Trusted by leading companies worldwide")),
		h.Div(vdom.Props{"class": "logo-strip", "data-hold": "hold", "data-release": "release"},
			h.Ul(vdom.Props{"class": "logo-track"},
				h.Map(v.Strip(), func(i int, logo content.Logo) *vdom.VNode {
					props := vdom.Props{"class": "logo bg-gradient " + logo.Color}
					if i >= n {
						props["aria-hidden"] = "true"
					}
					return h.Li(props, h.Text(logo.Name))
				})...,
			),
		),
	)
}
