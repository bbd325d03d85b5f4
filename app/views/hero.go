package views

import (
	"fmt"
	"time"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/rotation"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

const (
	heroStepInterval  = 2500 * time.Millisecond
	heroProgressStep  = 2
	heroProgressEvery = 100 * time.Millisecond
)

// Hero is the landing section with the simulated processing player. The
// caption cycles through the processing steps while a timeline fills.
type Hero struct {
	content content.Hero
	ctrl    *rotation.Controller[string]
	muted   *reactive.State[bool]
	bind    *binding
}

var _ live.View = (*Hero)(nil)

func NewHero(c content.Hero, opts Options) (*Hero, error) {
	opts = opts.withDefaults()
	v := &Hero{
		content: c,
		muted:   reactive.NewState(true, nil),
		bind:    &binding{view: "hero", recorder: opts.Recorder},
	}

	ctrl, err := rotation.New(c.Steps, heroStepInterval,
		rotation.WithClock(opts.Clock),
		rotation.WithProgress(heroProgressStep, heroProgressEvery),
		rotation.WithOnChange(v.bind.onChange),
		rotation.WithLogger(opts.Logger.With("view", "hero")),
	)
	if err != nil {
		return nil, fmt.Errorf("hero: %w", err)
	}
	v.ctrl = ctrl
	return v, nil
}

func (v *Hero) Name() string { return "hero" }

func (v *Hero) Mount(host live.Host) error {
	v.bind.bind(host)
	host.Attach(v.muted)
	v.ctrl.Start()
	return nil
}

func (v *Hero) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "toggle":
		v.ctrl.Toggle()
		if v.ctrl.State().AutoPlaying {
			v.toast(live.Toast{Title: "Video Playing", Description: "Processing your video..."})
		} else {
			v.toast(live.Toast{Title: "Video Paused", Description: "Click play to resume"})
		}
	case "mute":
		reactive.Toggle(v.muted)
	case "fullscreen":
		v.toast(live.Toast{Title: "Fullscreen Mode", Description: "Opening fullscreen preview..."})
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *Hero) toast(t live.Toast) {
	if host := v.bind.current(); host != nil {
		host.Toast(t)
	}
}

func (v *Hero) Close() { v.ctrl.Close() }

// State exposes the player state
func (v *Hero) State() rotation.State { return v.ctrl.State() }

// Muted reports the mute toggle
func (v *Hero) Muted() bool { return v.muted.Get() }

func (v *Hero) Render() *vdom.VNode {
	st := v.ctrl.State()
	steps := v.ctrl.Items()
	c := v.content

	playLabel, playIcon := "Pause", "❚❚"
	if !st.AutoPlaying {
		playLabel, playIcon = "Play", "▶"
	}
	muteLabel, muteIcon := "Mute", "🔊"
	if v.muted.Get() {
		muteLabel, muteIcon = "Unmute", "🔇"
	}

	return h.Section(vdom.Props{"class": "hero", "data-view": "hero"},
		h.Div(vdom.Props{"class": "hero-badge"},
			h.Span(nil, h.Text(c.Badge)),
			h.Span(vdom.Props{"class": "stars", "aria-hidden": "true"}, h.Text("★★★★★")),
			h.Span(nil, h.Textf("(%s)", c.Rating)),
		),
		h.H1(nil,
			h.Text(c.Headline+" "),
			h.Span(vdom.Props{"class": "highlight"}, h.Text(c.Highlight)),
		),
		h.P(vdom.Props{"class": "lead"}, h.Text(c.Subheading)),
		h.Div(vdom.Props{"class": "hero-ctas"},
			h.A(vdom.Props{"class": "btn btn-primary", "href": "/demo"}, h.Text("Start Free Trial")),
			h.A(vdom.Props{"class": "btn btn-outline", "href": "/demo"}, h.Text("▶ Watch Demo")),
		),

		h.Div(vdom.Props{"class": "player"},
			h.Div(vdom.Props{"class": "player-chrome"},
				h.Span(vdom.Props{"class": "player-url"}, h.Text("app.clueso.io/editor")),
				h.Button(vdom.Props{"type": "button", "data-action": "mute", "aria-label": muteLabel, "aria-pressed": v.muted.Get()},
					h.Text(muteIcon)),
				h.Button(vdom.Props{"type": "button", "data-action": "fullscreen", "aria-label": "Fullscreen"},
					h.Text("⤢")),
			),
			h.Div(vdom.Props{"class": "player-body"},
				h.Div(vdom.Props{"class": "player-panel"},
					h.Span(vdom.Props{"class": "panel-label"}, h.Text("Before")),
					h.Button(vdom.Props{
						"type":        "button",
						"class":       vdom.Classes("play", vdom.When(st.AutoPlaying, "playing")),
						"data-action": "toggle",
						"aria-label":  playLabel,
					}, h.Text(playIcon)),
					h.Div(vdom.Props{"class": "timeline", "role": "progressbar", "aria-valuemin": "0", "aria-valuemax": "100"},
						h.Div(vdom.Props{
							"class":         "timeline-fill",
							"data-progress": true,
							"aria-valuenow": st.Progress,
							"style":         fmt.Sprintf("width: %d%%", st.Progress),
						}),
					),
				),
				h.Div(vdom.Props{"class": "player-panel processing"},
					h.Span(vdom.Props{"class": "panel-label"}, h.Text("AI Processing")),
					h.P(vdom.Props{"class": "step-caption", "aria-live": "polite"}, h.Text(steps[st.Index])),
					h.Ol(vdom.Props{"class": "steps"},
						h.Map(steps, func(i int, step string) *vdom.VNode {
							return h.Li(vdom.Props{"class": vdom.Classes("step",
								vdom.When(i < st.Index, "done"),
								vdom.When(i == st.Index, "active"),
							)}, h.Text(step))
						})...,
					),
				),
			),
		),
	)
}
