package views

import (
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

type navLink struct {
	page  string
	label string
	href  string
}

var navLinks = []navLink{
	{"features", "Features", "/features"},
	{"customers", "Customers", "/customers"},
	{"resources", "Resources", "/resources"},
	{"pricing", "Pricing", "/pricing"},
	{"demo", "Demo", "/demo"},
	{"contact", "Contact", "/contact"},
}

// Header is the site navigation with its mobile menu
type Header struct {
	page     string
	menuOpen *reactive.State[bool]
}

var _ live.View = (*Header)(nil)

// NewHeader creates the header for page; the matching link is marked current
func NewHeader(page string) *Header {
	return &Header{page: page, menuOpen: reactive.NewState(false, nil)}
}

func (v *Header) Name() string { return "header" }

func (v *Header) Mount(host live.Host) error {
	host.Attach(v.menuOpen)
	return nil
}

func (v *Header) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "menu":
		reactive.Toggle(v.menuOpen)
	case "close":
		v.menuOpen.Set(false)
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *Header) Close() {}

func (v *Header) MenuOpen() bool { return v.menuOpen.Get() }

func (v *Header) Render() *vdom.VNode {
	open := v.menuOpen.Get()

	links := func() []*vdom.VNode {
		return h.Map(navLinks, func(_ int, l navLink) *vdom.VNode {
			props := vdom.Props{"href": l.href, "class": vdom.Classes("nav-link", vdom.When(l.page == v.page, "current"))}
			if l.page == v.page {
				props["aria-current"] = "page"
			}
			return h.A(props, h.Text(l.label))
		})
	}

	return h.Header(vdom.Props{"class": vdom.Classes("site-header", vdom.When(open, "menu-open")), "data-view": "header"},
		h.A(vdom.Props{"class": "brand", "href": "/"}, h.Text("Clueso")),
		h.Nav(vdom.Props{"class": "nav", "aria-label": "Main"}, links()...),
		h.Div(vdom.Props{"class": "header-ctas"},
			h.A(vdom.Props{"class": "btn btn-ghost", "href": "/dashboard"}, h.Text("Sign in")),
			h.A(vdom.Props{"class": "btn btn-primary", "href": "/demo"}, h.Text("Get Started")),
		),
		h.Button(vdom.Props{
			"type":          "button",
			"class":         "menu-toggle",
			"data-action":   "menu",
			"aria-expanded": open,
			"aria-label":    "Toggle menu",
		}, h.Text("☰")),
		h.If(open, h.Nav(vdom.Props{"class": "mobile-nav", "aria-label": "Mobile"},
			h.Fragment(links()...),
			h.A(vdom.Props{"class": "btn btn-primary", "href": "/demo"}, h.Text("Get Started")),
		)),
	)
}
