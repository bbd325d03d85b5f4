package views

import (
	"fmt"
	"strings"

	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/reactive"
	"github.com/recera/clueso-site/pkg/vdom"
	"github.com/recera/clueso-site/pkg/vdom/h"
)

// Dashboard is the sample project workspace
type Dashboard struct {
	content  content.Dashboard
	list     *reactive.State[bool]
	query    *reactive.State[string]
	menuOpen *reactive.State[bool]
	bind     *binding
}

var _ live.View = (*Dashboard)(nil)

func NewDashboard(c content.Dashboard) *Dashboard {
	return &Dashboard{
		content:  c,
		list:     reactive.NewState(false, nil),
		query:    reactive.NewState("", nil),
		menuOpen: reactive.NewState(false, nil),
		bind:     &binding{view: "dashboard"},
	}
}

func (v *Dashboard) Name() string { return "dashboard" }

func (v *Dashboard) Mount(host live.Host) error {
	v.bind.bind(host)
	host.Attach(v.list, v.query, v.menuOpen)
	return nil
}

// HandleEvent handles "view" (grid or list, empty flips), "search", "menu",
// "new" and "logout".
func (v *Dashboard) HandleEvent(ev live.Event) error {
	switch ev.Action {
	case "view":
		switch ev.Value {
		case "":
			reactive.Toggle(v.list)
		case "grid":
			v.list.Set(false)
		case "list":
			v.list.Set(true)
		default:
			return fmt.Errorf("view mode %q: %w", ev.Value, live.ErrUnknownAction)
		}
	case "search":
		v.query.Set(strings.TrimSpace(ev.Value))
	case "menu":
		reactive.Toggle(v.menuOpen)
	case "new":
		v.toast(live.Toast{Title: "Creating new project...", Description: "Opening the recording interface."})
	case "logout":
		v.menuOpen.Set(false)
		v.toast(live.Toast{Title: "Logged out", Description: "You have been successfully logged out."})
	default:
		return live.ErrUnknownAction
	}
	return nil
}

func (v *Dashboard) toast(t live.Toast) {
	if host := v.bind.current(); host != nil {
		host.Toast(t)
	}
}

func (v *Dashboard) Close() {}

// Mode returns "grid" or "list"
func (v *Dashboard) Mode() string {
	if v.list.Get() {
		return "list"
	}
	return "grid"
}

// Visible returns the projects whose title contains the search query,
// ignoring case. An empty query matches every project.
func (v *Dashboard) Visible() []content.Project {
	q := strings.ToLower(v.query.Get())
	if q == "" {
		return v.content.Projects
	}
	var out []content.Project
	for _, p := range v.content.Projects {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

func (v *Dashboard) Render() *vdom.VNode {
	list := v.list.Get()
	query := v.query.Get()
	open := v.menuOpen.Get()
	user := v.content.User
	projects := v.Visible()

	var body *vdom.VNode
	switch {
	case len(projects) == 0:
		body = h.P(vdom.Props{"class": "empty"}, h.Textf("No projects match “%s”.", query))
	case list:
		body = projectTable(projects)
	default:
		body = h.Div(vdom.Props{"class": "project-grid"}, h.Map(projects, projectCard)...)
	}

	return h.Div(vdom.Props{"class": "dashboard", "data-view": "dashboard"},
		h.Header(vdom.Props{"class": "dashboard-bar"},
			h.A(vdom.Props{"class": "brand", "href": "/"}, h.Text("Clueso")),
			h.Input(vdom.Props{
				"id":          "project-search",
				"type":        "search",
				"class":       "search",
				"placeholder": "Search projects...",
				"aria-label":  "Search projects",
				"value":       query,
				"data-input":  "search",
			}),
			h.Button(vdom.Props{"type": "button", "class": "btn btn-primary", "data-action": "new"}, h.Text("+ New Project")),
			h.Div(vdom.Props{"class": vdom.Classes("user-menu", vdom.When(open, "open"))},
				h.Button(vdom.Props{"type": "button", "class": "avatar", "data-action": "menu", "aria-expanded": open, "aria-label": "Account"},
					h.Text(user.Initials)),
				h.If(open, h.Div(vdom.Props{"class": "user-dropdown", "role": "menu"},
					h.Strong(nil, h.Text(user.Name)),
					h.Small(nil, h.Text(user.Email)),
					h.A(vdom.Props{"role": "menuitem", "href": "/dashboard"}, h.Text("Profile")),
					h.A(vdom.Props{"role": "menuitem", "href": "/dashboard"}, h.Text("Settings")),
					h.Button(vdom.Props{"type": "button", "role": "menuitem", "class": "danger", "data-action": "logout"}, h.Text("Log out")),
				)),
			),
		),
		h.Div(vdom.Props{"class": "dashboard-main"},
			h.Div(vdom.Props{"class": "dashboard-title"},
				h.Div(nil,
					h.H1(nil, h.Text("My Projects")),
					h.P(nil, h.Text("Manage and edit your video projects")),
				),
				h.Div(vdom.Props{"class": "view-switch", "role": "group", "aria-label": "View"},
					h.Button(vdom.Props{"type": "button", "class": vdom.Classes("view-option", vdom.When(!list, "active")), "data-action": "view", "data-value": "grid", "aria-pressed": !list},
						h.Text("Grid")),
					h.Button(vdom.Props{"type": "button", "class": vdom.Classes("view-option", vdom.When(list, "active")), "data-action": "view", "data-value": "list", "aria-pressed": list},
						h.Text("List")),
				),
			),
			h.Ul(vdom.Props{"class": "stats-grid"},
				h.Map(v.content.Stats, func(_ int, s content.Stat) *vdom.VNode {
					return h.Li(vdom.Props{"class": "stat"},
						h.Strong(nil, h.Text(s.Value)),
						h.Span(nil, h.Text(s.Label)),
					)
				})...,
			),
			body,
		),
	)
}

func projectCard(_ int, p content.Project) *vdom.VNode {
	return h.Article(vdom.Props{"class": "project status-" + p.Status},
		h.Div(vdom.Props{"class": "thumbnail"},
			h.Span(vdom.Props{"class": "duration"}, h.Text(p.Duration)),
			statusBadge(p.Status),
		),
		h.H3(nil, h.Text(p.Title)),
		h.Div(vdom.Props{"class": "project-meta"},
			h.Span(nil, h.Textf("%d views", p.Views)),
			h.Span(nil, h.Text(p.Updated)),
		),
	)
}

func projectTable(projects []content.Project) *vdom.VNode {
	return h.Table(vdom.Props{"class": "project-table"},
		h.Thead(nil, h.Tr(nil,
			h.Th(nil, h.Text("Title")),
			h.Th(nil, h.Text("Duration")),
			h.Th(nil, h.Text("Views")),
			h.Th(nil, h.Text("Status")),
			h.Th(nil, h.Text("Updated")),
		)),
		h.Tbody(nil, h.Map(projects, func(_ int, p content.Project) *vdom.VNode {
			return h.Tr(nil,
				h.Td(nil, h.Text(p.Title)),
				h.Td(nil, h.Text(p.Duration)),
				h.Td(nil, h.Textf("%d", p.Views)),
				h.Td(nil, h.Span(vdom.Props{"class": "status status-" + p.Status}, h.Text(statusLabel(p.Status)))),
				h.Td(nil, h.Text(p.Updated)),
			)
		})...),
	)
}

func statusBadge(status string) *vdom.VNode {
	if status == "completed" {
		return nil
	}
	return h.Span(vdom.Props{"class": "status status-" + status}, h.Text(statusLabel(status)))
}

func statusLabel(status string) string {
	switch status {
	case "processing":
		return "Processing"
	case "draft":
		return "Draft"
	default:
		return "Completed"
	}
}
