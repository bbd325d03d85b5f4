package views

import (
	"fmt"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

// Pricing shows the plans with an annual/monthly billing switch
type Pricing struct {
	plans  []content.Plan
	annual *reactive.State[bool]
}

var _ live.View = (*Pricing)(nil)

func NewPricing(plans []content.Plan) *Pricing {
	return &Pricing{
		plans:  plans,
		annual: reactive.NewState(true, nil),
	}
}

func (v *Pricing) Name() string { return "pricing" }

func (v *Pricing) Mount(host live.Host) error {
	host.Attach(v.annual)
	return nil
}

// HandleEvent handles "billing". The value "annual" or "monthly" selects a
// cycle; an empty value flips it.
func (v *Pricing) HandleEvent(ev live.Event) error {
	if ev.Action != "billing" {
		return live.ErrUnknownAction
	}
	switch ev.Value {
	case "":
		reactive.Toggle(v.annual)
	case "annual":
		v.annual.Set(true)
	case "monthly":
		v.annual.Set(false)
	default:
		return fmt.Errorf("billing cycle %q: %w", ev.Value, live.ErrUnknownAction)
	}
	return nil
}

func (v *Pricing) Close() {}

func (v *Pricing) Annual() bool { return v.annual.Get() }

func (v *Pricing) Render() *vdom.VNode {
	annual := v.annual.Get()

	return h.Section(vdom.Props{"class": "pricing", "data-view": "pricing"},
		h.Div(vdom.Props{"class": "billing-switch", "role": "group", "aria-label": "Billing cycle"},
			h.Button(vdom.Props{
				"type":         "button",
				"class":        vdom.Classes("billing-option", vdom.When(!annual, "active")),
				"data-action":  "billing",
				"data-value":   "monthly",
				"aria-pressed": !annual,
			}, h.Text("Monthly")),
			h.Button(vdom.Props{
				"type":         "button",
				"class":        vdom.Classes("billing-option", vdom.When(annual, "active")),
				"data-action":  "billing",
				"data-value":   "annual",
				"aria-pressed": annual,
			}, h.Text("Annual"), h.Span(vdom.Props{"class": "save"}, h.Text("Save 20%"))),
		),
		h.Div(vdom.Props{"class": "plans"},
			h.Map(v.plans, func(_ int, p content.Plan) *vdom.VNode {
				return planCard(p, annual)
			})...,
		),
	)
}

func planCard(p content.Plan, annual bool) *vdom.VNode {
	price := h.Div(vdom.Props{"class": "price"}, h.Strong(nil, h.Text("Custom")))
	if amount, ok := p.Price(annual); ok {
		price = h.Div(vdom.Props{"class": "price"},
			h.Strong(nil, h.Textf("$%d", amount)),
			h.Small(nil, h.Text("/month")),
		)
	}

	href := "/demo"
	if p.CTA == "Contact Sales" {
		href = "/contact"
	}

	return h.Article(vdom.Props{"class": vdom.Classes("plan", vdom.When(p.Popular, "popular"))},
		h.If(p.Popular, h.Span(vdom.Props{"class": "plan-badge"}, h.Text("Most Popular"))),
		h.H3(nil, h.Text(p.Name)),
		h.P(nil, h.Text(p.Description)),
		price,
		h.Small(vdom.Props{"class": "period"}, h.Text(billingNote(p, annual))),
		h.A(vdom.Props{"class": vdom.Classes("btn", vdom.When(p.Popular, "btn-primary"), vdom.When(!p.Popular, "btn-outline")), "href": href},
			h.Text(p.CTA)),
		h.Ul(vdom.Props{"class": "plan-features"},
			h.Map(p.Features, func(_ int, f content.PlanFeature) *vdom.VNode {
				mark := "✓"
				if !f.Included {
					mark = "✕"
				}
				return h.Li(vdom.Props{"class": vdom.Classes("plan-feature", vdom.When(!f.Included, "excluded"))},
					h.Span(vdom.Props{"aria-hidden": "true"}, h.Text(mark)),
					h.Text(" "+f.Name),
				)
			})...,
		),
	)
}

func billingNote(p content.Plan, annual bool) string {
	if _, ok := p.Price(annual); !ok {
		return p.Period
	}
	if annual {
		return p.Period + ", billed annually"
	}
	return p.Period + ", billed monthly"
}
