package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/clueso-site/pkg/vdom"
)

func page(text string) HandlerFunc {
	return func(ctx Ctx) (*vdom.VNode, error) {
		return vdom.NewElement("div", nil, vdom.NewText(text)), nil
	}
}

func serve(r http.Handler, method, path string, body string, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Match(t *testing.T) {
	router := NewRouter()
	router.AddRoute("/", page("home"))
	router.AddRoute("/pricing", page("pricing"))
	router.AddRoute("/blog/[slug]", page("blog"))
	router.AddRoute("/user/[id:int]/posts", page("posts"))
	router.AddRoute("/docs/[...rest]", page("docs"))

	tests := []struct {
		path       string
		wantMatch  bool
		wantParams map[string]string
	}{
		{"/", true, map[string]string{}},
		{"/pricing", true, map[string]string{}},
		{"/pricing/", true, map[string]string{}},
		{"/blog/hello-world", true, map[string]string{"slug": "hello-world"}},
		{"/user/123/posts", true, map[string]string{"id": "123"}},
		{"/user/abc/posts", false, nil},
		{"/docs/a/b/c", true, map[string]string{"rest": "a/b/c"}},
		{"/notfound", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			handler, params, _ := router.Match(tt.path)
			if !tt.wantMatch {
				assert.Nil(t, handler, "no not-found handler is registered")
				assert.Empty(t, params)
				return
			}
			require.NotNil(t, handler)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestRouter_ServeHTTP(t *testing.T) {
	router := NewRouter()
	router.AddRoute("/test", page("Test Page"))

	w := serve(router, http.MethodGet, "/test", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<!DOCTYPE html><div>Test Page</div>", w.Body.String())
}

func TestRouter_NotFound(t *testing.T) {
	router := NewRouter()

	w := serve(router, http.MethodGet, "/notfound", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	router.SetNotFound(page("Nothing here"))
	w = serve(router, http.MethodGet, "/notfound", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Nothing here")
}

func TestRouter_ErrorPage(t *testing.T) {
	router := NewRouter()
	router.AddRoute("/boom", func(ctx Ctx) (*vdom.VNode, error) {
		return nil, errors.New("database on fire")
	})
	router.AddRoute("/panic", func(ctx Ctx) (*vdom.VNode, error) {
		panic("oops")
	})
	router.SetErrorPage(func(ctx Ctx, err error) (*vdom.VNode, error) {
		return vdom.NewElement("h1", nil, vdom.NewText("Something broke")), nil
	})

	for _, path := range []string{"/boom", "/panic"} {
		w := serve(router, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Contains(t, w.Body.String(), "Something broke", path)
		assert.NotContains(t, w.Body.String(), "database on fire", path)
	}
}

type contactForm struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email"`
}

func TestRouter_APIRoute(t *testing.T) {
	router := NewRouter()
	router.AddAPIRoute("/api/echo", func(ctx Ctx) (any, error) {
		if ctx.Method() != http.MethodPost {
			return nil, MethodNotAllowed(ctx.Method())
		}
		var form contactForm
		if err := ctx.Bind(&form); err != nil {
			return nil, err
		}
		return form, nil
	})

	t.Run("json body", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/echo", `{"name":"Ada","email":"ada@example.com"}`, "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"Ada","email":"ada@example.com"}`, w.Body.String())
	})

	t.Run("form body", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/echo", "name=Ada&email=ada%40example.com", "application/x-www-form-urlencoded")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"Ada","email":"ada@example.com"}`, w.Body.String())
	})

	t.Run("bad json", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/echo", `{"name":`, "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"error"`)
	})

	t.Run("unsupported media type", func(t *testing.T) {
		w := serve(router, http.MethodPost, "/api/echo", "<xml/>", "application/xml")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		w := serve(router, http.MethodGet, "/api/echo", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestRouter_Handle(t *testing.T) {
	router := NewRouter()
	router.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := serve(router, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
}

type recordingMiddleware struct {
	calls []string
	stop  bool
}

func (m *recordingMiddleware) Before(ctx Ctx) error {
	m.calls = append(m.calls, "before")
	if m.stop {
		_ = ctx.Text(http.StatusUnauthorized, "stopped")
		return Stop()
	}
	return nil
}

func (m *recordingMiddleware) After(ctx Ctx) error {
	m.calls = append(m.calls, "after")
	return nil
}

func TestRouter_Middleware(t *testing.T) {
	global := &recordingMiddleware{}
	router := NewRouter()
	router.Use(global)
	router.AddRoute("/ok", page("ok"))

	stopper := &recordingMiddleware{stop: true}
	router.AddRoute("/stopped", page("never"), stopper)

	w := serve(router, http.MethodGet, "/ok", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"before", "after"}, global.calls)

	w = serve(router, http.MethodGet, "/stopped", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "stopped", w.Body.String())
	assert.Equal(t, []string{"before"}, stopper.calls)
}

func TestRouter_Routes(t *testing.T) {
	router := NewRouter()
	router.AddRoute("/", page("home"))
	router.AddRoute("/pricing", page("pricing"))
	router.AddAPIRoute("/api/contact", func(ctx Ctx) (any, error) { return nil, nil })
	router.Handle("/live", http.NotFoundHandler())

	assert.Equal(t, []RouteEntry{
		{Path: "/", Kind: "page"},
		{Path: "/pricing", Kind: "page"},
		{Path: "/api/contact", Kind: "api"},
		{Path: "/live", Kind: "handler"},
	}, router.Routes())
}

func TestLayoutRegistry(t *testing.T) {
	wrapWith := func(name string) LayoutFunc {
		return func(ctx Ctx, child *vdom.VNode) *vdom.VNode {
			return vdom.NewElement("main", vdom.Props{"data-layout": name}, child)
		}
	}

	reg := NewLayoutRegistry()
	reg.Register("/", wrapWith("root"))
	reg.Register("/docs/*", wrapWith("docs"))
	reg.Register("/docs/api/*", wrapWith("api"))
	reg.Register("/pricing", wrapWith("pricing"))

	tests := map[string]string{
		"/":                "root",
		"/pricing":         "pricing",
		"/contact":         "root",
		"/docs/intro":      "docs",
		"/docs/api/submit": "api",
	}
	for path, want := range tests {
		ctx := NewContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		node := reg.ApplyLayout(ctx, vdom.NewText("x"))
		assert.Equal(t, want, node.Attr("data-layout"), path)
	}
}

func TestInjectLiveClient(t *testing.T) {
	doc := vdom.NewElement("html", vdom.Props{"lang": "en"},
		vdom.NewElement("head", nil),
		vdom.NewElement("body", nil, vdom.NewText("content")),
	)

	out := InjectLiveClient(doc, "pricing")

	assert.Equal(t, "pricing", out.Attr("data-page"))
	assert.Equal(t, "en", out.Attr("lang"))
	script := out.Find(func(n *vdom.VNode) bool { return n.Tag == "script" })
	require.NotNil(t, script)
	assert.Contains(t, script.TextContent(), "/live?page=")

	assert.Empty(t, doc.Attr("data-page"), "input document is not modified")
	assert.Len(t, doc.Kids[1].Kids, 1)

	text := vdom.NewText("x")
	assert.Same(t, text, InjectLiveClient(text, "home"))
}
