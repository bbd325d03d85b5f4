package routes

import (
	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

func pageIntro(eyebrow, title, lead string) *vdom.VNode {
	return h.Section(vdom.Props{"class": "page-intro"},
		h.Span(vdom.Props{"class": "eyebrow"}, h.Text(eyebrow)),
		h.H1(nil, h.Text(title)),
		h.P(vdom.Props{"class": "lead"}, h.Text(lead)),
	)
}

func statsStrip(stats []content.Stat) *vdom.VNode {
	return h.Section(vdom.Props{"class": "stats-strip"},
		h.Ul(nil, h.Map(stats, statItem)...),
	)
}

func statsGrid(stats []content.Stat) *vdom.VNode {
	return h.Section(vdom.Props{"class": "stats-grid"},
		h.Ul(nil, h.Map(stats, statItem)...),
	)
}

func statItem(_ int, s content.Stat) *vdom.VNode {
	return h.Li(vdom.Props{"class": "stat"},
		h.Strong(nil, h.Text(s.Value)),
		h.Span(nil, h.Text(s.Label)),
	)
}

func featureGrid(class, title, lead string, items []content.Feature) *vdom.VNode {
	return h.Section(vdom.Props{"class": "cards " + class},
		h.H2(nil, h.Text(title)),
		h.If(lead != "", h.P(vdom.Props{"class": "lead"}, h.Text(lead))),
		h.Div(vdom.Props{"class": "card-grid"},
			h.Map(items, func(_ int, f content.Feature) *vdom.VNode {
				return h.Article(vdom.Props{"class": "card"},
					h.H3(nil, h.Text(f.Title)),
					h.P(nil, h.Text(f.Description)),
				)
			})...,
		),
	)
}

func howItWorks(steps []content.Feature) *vdom.VNode {
	return h.Section(vdom.Props{"class": "how-it-works"},
		h.H2(nil, h.Text("How it works")),
		h.Ol(vdom.Props{"class": "how-steps"},
			h.Map(steps, func(i int, s content.Feature) *vdom.VNode {
				return h.Li(nil,
					h.Span(vdom.Props{"class": "step-number"}, h.Textf("%02d", i+1)),
					h.H3(nil, h.Text(s.Title)),
					h.P(nil, h.Text(s.Description)),
				)
			})...,
		),
	)
}

var faqs = []struct{ q, a string }{
	{"Can I try Clueso for free?", "Yes. Every plan starts with a 14-day free trial, no credit card required."},
	{"Can I change plans later?", "You can upgrade or downgrade at any time. Changes apply from the next billing cycle."},
	{"What payment methods do you accept?", "All major credit cards. Enterprise customers can pay by invoice."},
	{"Is there a discount for annual billing?", "Annual billing saves 20% compared to paying monthly."},
}

func faq() *vdom.VNode {
	return h.Section(vdom.Props{"class": "faq"},
		h.H2(nil, h.Text("Frequently asked questions")),
		h.Fragment(h.Map(faqs, func(_ int, f struct{ q, a string }) *vdom.VNode {
			return h.El("details", nil,
				h.El("summary", nil, h.Text(f.q)),
				h.P(nil, h.Text(f.a)),
			)
		})...),
	)
}

func contactMethods(methods []content.ContactMethod) *vdom.VNode {
	return h.Section(vdom.Props{"class": "contact-methods"},
		h.Map(methods, func(_ int, m content.ContactMethod) *vdom.VNode {
			return h.Article(vdom.Props{"class": "card"},
				h.H3(nil, h.Text(m.Title)),
				h.P(nil, h.Text(m.Description)),
				h.Strong(nil, h.Text(m.Contact)),
			)
		})...,
	)
}

func offices(list []content.Office) *vdom.VNode {
	return h.Aside(vdom.Props{"class": "offices"},
		h.H2(nil, h.Text("Our offices")),
		h.Ul(nil, h.Map(list, func(_ int, o content.Office) *vdom.VNode {
			return h.Li(nil,
				h.Strong(nil, h.Text(o.City)),
				h.Span(nil, h.Text(o.Address)),
				h.Span(nil, h.Text(o.Region)),
			)
		})...),
	)
}

func demoBenefits(benefits []string) *vdom.VNode {
	return h.Aside(vdom.Props{"class": "demo-benefits"},
		h.H2(nil, h.Text("What you'll get")),
		h.Ul(nil, h.Map(benefits, func(_ int, b string) *vdom.VNode {
			return h.Li(nil, h.Span(vdom.Props{"aria-hidden": "true"}, h.Text("✓")), h.Text(" "+b))
		})...),
		h.P(vdom.Props{"class": "note"}, h.Text("30 minutes, tailored to your team. No commitment.")),
	)
}

func logoWall(names []string) *vdom.VNode {
	return h.Section(vdom.Props{"class": "logo-wall"},
		h.H2(nil, h.Text("Trusted by leading companies worldwide")),
		h.Ul(nil, h.Map(names, func(_ int, n string) *vdom.VNode {
			return h.Li(vdom.Props{"class": "logo-name"}, h.Text(n))
		})...),
	)
}

func stories(list []content.Story) *vdom.VNode {
	return h.Section(vdom.Props{"class": "stories"},
		h.H2(nil, h.Text("Customer Success Stories")),
		h.Div(vdom.Props{"class": "card-grid"},
			h.Map(list, func(_ int, s content.Story) *vdom.VNode {
				return h.Article(vdom.Props{"class": "card story"},
					h.Div(vdom.Props{"class": "story-company"},
						h.Strong(nil, h.Text(s.Company)),
						h.Small(nil, h.Text(s.Industry)),
					),
					h.Blockquote(nil, h.Textf("“%s”", s.Quote)),
					h.Div(vdom.Props{"class": "author"},
						h.Span(vdom.Props{"class": "avatar"}, h.Text(s.Avatar)),
						h.Div(nil,
							h.Strong(nil, h.Text(s.Author)),
							h.Small(nil, h.Text(s.Role)),
						),
					),
					h.Ul(vdom.Props{"class": "story-results"},
						h.Map(s.Results, func(_ int, r string) *vdom.VNode {
							return h.Li(nil, h.Text(r))
						})...,
					),
				)
			})...,
		),
	)
}

func articles(list []content.Article) *vdom.VNode {
	return h.Section(vdom.Props{"class": "articles"},
		h.H2(nil, h.Text("Featured Articles")),
		h.Div(vdom.Props{"class": "card-grid"},
			h.Map(list, func(_ int, a content.Article) *vdom.VNode {
				return h.Article(vdom.Props{"class": "card"},
					h.Span(vdom.Props{"class": "eyebrow"}, h.Text(a.Category)),
					h.H3(nil, h.Text(a.Title)),
					h.P(nil, h.Text(a.Description)),
					h.Small(nil, h.Text(a.ReadTime)),
				)
			})...,
		),
	)
}

func webinars(list []content.Webinar) *vdom.VNode {
	return h.Div(vdom.Props{"class": "webinars"},
		h.H2(nil, h.Text("Upcoming Webinars")),
		h.Ul(nil, h.Map(list, func(_ int, w content.Webinar) *vdom.VNode {
			return h.Li(nil,
				h.Strong(nil, h.Text(w.Title)),
				h.Span(nil, h.Textf("%s · %s", w.Speaker, w.Role)),
				h.Small(nil, h.Textf("%s at %s", w.Date, w.Time)),
			)
		})...),
	)
}

func templates(list []content.Template) *vdom.VNode {
	return h.Div(vdom.Props{"class": "templates"},
		h.H2(nil, h.Text("Popular Templates")),
		h.Ul(nil, h.Map(list, func(_ int, t content.Template) *vdom.VNode {
			return h.Li(nil,
				h.Strong(nil, h.Text(t.Name)),
				h.Small(nil, h.Textf("%s downloads", t.Downloads)),
			)
		})...),
	)
}

func supportCTA() *vdom.VNode {
	return h.Section(vdom.Props{"class": "cta"},
		h.H2(nil, h.Text("Can't find what you're looking for?")),
		h.P(nil, h.Text("Our support team is here to help. Reach out anytime.")),
		h.Div(vdom.Props{"class": "cta-buttons"},
			h.A(vdom.Props{"class": "btn btn-primary", "href": "/contact"}, h.Text("Contact Support")),
			h.A(vdom.Props{"class": "btn btn-outline", "href": "/contact"}, h.Text("Join Community")),
		),
	)
}
