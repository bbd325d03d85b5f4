package routes

import (
	_ "embed"
	"time"

	"github.com/recera/clueso-site/pkg/server"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

//go:embed site.css
var siteCSS string

// documentLayout is the shell around every page: head, footer, the toast
// container and the live client bound to the page's views.
func documentLayout(ctx server.Ctx, child *vdom.VNode) *vdom.VNode {
	info := pageFor(ctx.Path())

	doc := h.Html(vdom.Props{"lang": "en"},
		h.Head(nil,
			h.Meta(vdom.Props{"charset": "utf-8"}),
			h.Meta(vdom.Props{"name": "viewport", "content": "width=device-width, initial-scale=1"}),
			h.Meta(vdom.Props{"name": "description", "content": "Clueso turns raw screen recordings into polished product videos and documentation with AI."}),
			h.Title(nil, h.Text(info.title)),
			h.Style(nil, h.Text(siteCSS)),
		),
		h.Body(nil,
			h.Main(vdom.Props{"id": "main"}, child),
			footer(),
			h.Div(vdom.Props{"id": "toasts", "class": "toasts", "aria-live": "polite"}),
		),
	)
	return server.InjectLiveClient(doc, info.name)
}

type footerColumn struct {
	title string
	links []navItem
}

var footerColumns = []footerColumn{
	{"Product", []navItem{{"Features", "/features"}, {"Pricing", "/pricing"}, {"Book a Demo", "/demo"}}},
	{"Company", []navItem{{"Customers", "/customers"}, {"Contact", "/contact"}}},
	{"Learn", []navItem{{"Resources", "/resources"}, {"Dashboard", "/dashboard"}}},
}

type navItem struct {
	label string
	href  string
}

func footer() *vdom.VNode {
	return h.Footer(vdom.Props{"class": "site-footer"},
		h.Div(vdom.Props{"class": "footer-brand"},
			h.Strong(nil, h.Text("Clueso")),
			h.P(nil, h.Text("Create stunning product videos and documentation in minutes with AI.")),
		),
		h.Fragment(h.Map(footerColumns, func(_ int, col footerColumn) *vdom.VNode {
			return h.Nav(vdom.Props{"class": "footer-column", "aria-label": col.title},
				h.H4(nil, h.Text(col.title)),
				h.Ul(nil, h.Map(col.links, func(_ int, l navItem) *vdom.VNode {
					return h.Li(nil, h.A(vdom.Props{"href": l.href}, h.Text(l.label)))
				})...),
			)
		})...),
		h.Small(vdom.Props{"class": "copyright"}, h.Textf("© %d Clueso. All rights reserved.", time.Now().Year())),
	)
}
