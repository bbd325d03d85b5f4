package views

import (
	"context"
	"strings"
	"sync"

	"github.com/recera/clueso-site/internal/submit"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

// Signup is the call to action with the quick trial signup form. A
// submission runs in the background; the button stays disabled until the
// service answers.
type Signup struct {
	badges     []string
	service    *submit.Service
	email      *reactive.State[string]
	submitting *reactive.State[bool]
	bind       *binding

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	busy bool
}

var _ live.View = (*Signup)(nil)

func NewSignup(badges []string, opts Options) *Signup {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Signup{
		badges:     badges,
		service:    opts.Submit,
		email:      reactive.NewState("", nil),
		submitting: reactive.NewState(false, nil),
		bind:       &binding{view: "signup"},
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (v *Signup) Name() string { return "signup" }

func (v *Signup) Mount(host live.Host) error {
	v.bind.bind(host)
	host.Attach(v.email, v.submitting)
	return nil
}

// HandleEvent handles "signup" with the email as value, and "watch"
func (v *Signup) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "signup":
		v.signup(strings.TrimSpace(ev.Value))
	case "watch":
		v.toast(live.Toast{Title: "Loading Demo", Description: "Opening product demo video..."})
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *Signup) signup(email string) {
	req := submit.SignupRequest{Email: email}
	if err := req.Validate(); err != nil {
		// the service answers at once for invalid input
		toast, _ := v.service.Handle(v.ctx, req)
		v.toast(toast)
		return
	}

	// a second submit while one is in flight is dropped
	v.mu.Lock()
	if v.busy || v.ctx.Err() != nil {
		v.mu.Unlock()
		return
	}
	v.busy = true
	v.wg.Add(1)
	v.mu.Unlock()

	v.email.Set(email)
	v.submitting.Set(true)

	go func() {
		defer v.wg.Done()
		toast, err := v.service.Handle(v.ctx, req)

		v.mu.Lock()
		v.busy = false
		v.mu.Unlock()
		if v.ctx.Err() != nil {
			return
		}
		v.toast(toast)
		if err == nil {
			v.email.Set("")
		}
		v.submitting.Set(false)
	}()
}

func (v *Signup) toast(t live.Toast) {
	if host := v.bind.current(); host != nil {
		host.Toast(t)
	}
}

// Close abandons a submission in flight and waits for it to return
func (v *Signup) Close() {
	v.mu.Lock()
	v.cancel()
	v.mu.Unlock()
	v.wg.Wait()
}

func (v *Signup) Submitting() bool { return v.submitting.Get() }

func (v *Signup) Email() string { return v.email.Get() }

func (v *Signup) Render() *vdom.VNode {
	submitting := v.submitting.Get()

	label := "Start Free Trial"
	if submitting {
		label = "Signing up..."
	}

	return h.Section(vdom.Props{"class": "cta", "data-view": "signup"},
		h.Span(vdom.Props{"class": "eyebrow"}, h.Text("Start your free trial today")),
		h.H2(nil,
			h.Text("Ready to transform your "),
			h.Span(vdom.Props{"class": "highlight"}, h.Text("video content?")),
		),
		h.P(nil, h.Text("Join thousands of teams using Clueso to create professional videos and documentation in minutes, not hours.")),
		h.Form(vdom.Props{"class": "signup-form", "method": "post", "action": "/api/signup", "data-live": "signup"},
			h.Input(vdom.Props{
				"id":           "signup-email",
				"type":         "email",
				"name":         "email",
				"value":        v.email.Get(),
				"placeholder":  "Enter your work email",
				"aria-label":   "Work email",
				"autocomplete": "email",
				"disabled":     submitting,
			}),
			h.Button(vdom.Props{"type": "submit", "class": "btn btn-primary", "disabled": submitting, "aria-busy": submitting},
				h.Text(label)),
		),
		h.Span(vdom.Props{"class": "divider"}, h.Text("or")),
		h.Div(vdom.Props{"class": "cta-buttons"},
			h.Button(vdom.Props{"type": "button", "class": "btn btn-outline", "data-action": "watch"}, h.Text("▶ Watch 2-min Demo")),
			h.A(vdom.Props{"class": "btn btn-ghost", "href": "/demo"}, h.Text("Schedule a Call")),
		),
		h.Ul(vdom.Props{"class": "trust-badges"},
			h.Map(v.badges, func(_ int, b string) *vdom.VNode {
				return h.Li(nil, h.Span(vdom.Props{"aria-hidden": "true"}, h.Text("✓")), h.Text(" "+b))
			})...,
		),
	)
}
