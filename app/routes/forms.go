package routes

import (
	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

// Forms post to the API as JSON through the live client (data-submit) and
// fall back to a plain form post without it. Field names match the JSON and
// form tags of the submit requests.

func field(label, name, kind, placeholder string, required bool) *vdom.VNode {
	return h.Label(vdom.Props{"class": "field"},
		h.Span(nil, h.Text(label)),
		h.Input(vdom.Props{
			"type":        kind,
			"name":        name,
			"placeholder": placeholder,
			"required":    required,
		}),
	)
}

func textArea(label, name, placeholder string, required bool) *vdom.VNode {
	return h.Label(vdom.Props{"class": "field"},
		h.Span(nil, h.Text(label)),
		h.Textarea(vdom.Props{"name": name, "rows": 5, "placeholder": placeholder, "required": required}),
	)
}

func contactForm() *vdom.VNode {
	return h.Form(vdom.Props{"class": "form", "method": "post", "action": "/api/contact", "data-submit": true},
		h.H2(nil, h.Text("Send us a message")),
		h.Div(vdom.Props{"class": "field-row"},
			field("Name", "name", "text", "John Doe", true),
			field("Email", "email", "email", "john@company.com", true),
		),
		field("Subject", "subject", "text", "How can we help?", true),
		textArea("Message", "message", "Tell us more about your inquiry...", true),
		h.Button(vdom.Props{"type": "submit", "class": "btn btn-primary"}, h.Text("Send Message")),
	)
}

func demoForm(teamSizes []content.Option) *vdom.VNode {
	return h.Form(vdom.Props{"class": "form", "method": "post", "action": "/api/demo", "data-submit": true},
		h.H2(nil, h.Text("Schedule your demo")),
		h.Div(vdom.Props{"class": "field-row"},
			field("Full name", "name", "text", "John Doe", true),
			field("Work email", "email", "email", "john@company.com", true),
		),
		field("Company", "company", "text", "Acme Inc.", true),
		h.Label(vdom.Props{"class": "field"},
			h.Span(nil, h.Text("Team size")),
			h.Select(vdom.Props{"name": "teamSize", "required": true},
				h.Option(vdom.Props{"value": ""}, h.Text("Select team size")),
				h.Fragment(h.Map(teamSizes, func(_ int, o content.Option) *vdom.VNode {
					return h.Option(vdom.Props{"value": o.Value}, h.Text(o.Label))
				})...),
			),
		),
		textArea("What would you like to see? (optional)", "message", "Tell us about your use case...", false),
		h.Button(vdom.Props{"type": "submit", "class": "btn btn-primary"}, h.Text("Book Demo")),
	)
}
