// Package routes wires the site's pages and form endpoints onto the router.
//
// Pages are rendered on the server in full, live views included, so the site
// works before the live client connects. Once connected, the client replaces
// each [data-view] element as the session re-renders it.
package routes

import (
	"log/slog"
	"net/http"

	"github.com/recera/clueso-site/app/views"
	"github.com/recera/clueso-site/internal/content"
	"github.com/recera/clueso-site/internal/submit"
	"github.com/recera/clueso-site/pkg/server"
	"github.com/recera/clueso-site/pkg/vdom"
)

// Deps are the services the routes need
type Deps struct {
	Content *content.Store
	Views   *views.Factory
	Submit  *submit.Service
	Logger  *slog.Logger
}

// pageInfo maps a path to its page name and document title
type pageInfo struct {
	name  string
	title string
}

var pages = map[string]pageInfo{
	"/":          {"home", "Clueso - Turn Raw Recordings into Polished Videos"},
	"/features":  {"features", "Features - Clueso"},
	"/pricing":   {"pricing", "Pricing - Clueso"},
	"/contact":   {"contact", "Contact - Clueso"},
	"/demo":      {"demo", "Book a Demo - Clueso"},
	"/customers": {"customers", "Customers - Clueso"},
	"/resources": {"resources", "Resources - Clueso"},
	"/dashboard": {"dashboard", "Dashboard - Clueso"},
}

var notFoundPage = pageInfo{"notfound", "Page not found - Clueso"}

func pageFor(path string) pageInfo {
	if p, ok := pages[path]; ok {
		return p
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		if p, ok := pages[path[:len(path)-1]]; ok {
			return p
		}
	}
	return notFoundPage
}

// NewRouter registers every page, the form API and the health check
func NewRouter(d Deps) *server.Router {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	r := server.NewRouter()
	r.SetLogger(d.Logger)

	layouts := server.NewLayoutRegistry()
	layouts.RegisterFunc("/", documentLayout)

	p := &pageHandlers{content: d.Content, views: d.Views}
	r.AddRoute("/", layouts.Wrap(p.home))
	r.AddRoute("/features", layouts.Wrap(p.features))
	r.AddRoute("/pricing", layouts.Wrap(p.pricing))
	r.AddRoute("/contact", layouts.Wrap(p.contact))
	r.AddRoute("/demo", layouts.Wrap(p.demo))
	r.AddRoute("/customers", layouts.Wrap(p.customers))
	r.AddRoute("/resources", layouts.Wrap(p.resources))
	r.AddRoute("/dashboard", layouts.Wrap(p.dashboard))
	r.SetNotFound(layouts.Wrap(p.notFound))
	r.SetErrorPage(func(ctx server.Ctx, err error) (*vdom.VNode, error) {
		return layouts.ApplyLayout(ctx, errorPage()), nil
	})

	a := &apiHandlers{service: d.Submit}
	r.AddAPIRoute("/api/contact", a.contact)
	r.AddAPIRoute("/api/demo", a.demo)
	r.AddAPIRoute("/api/signup", a.signup)

	r.Handle("/healthz", http.HandlerFunc(healthz))
	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
