package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/recera/clueso-site/pkg/renderer/html"
	"github.com/recera/clueso-site/pkg/vdom"
)

// HandlerFunc is the signature for page handlers
type HandlerFunc func(ctx Ctx) (*vdom.VNode, error)

// APIHandlerFunc is the signature for API handlers. The result is written as
// JSON with status 200 unless the handler already wrote a response.
type APIHandlerFunc func(ctx Ctx) (any, error)

// Middleware interface for before/after hooks
type Middleware interface {
	Before(ctx Ctx) error // return Stop() to abort chain
	After(ctx Ctx) error  // always called if Before succeeded
}

// RouteNode represents a node in the radix tree
type RouteNode struct {
	segment    string
	param      bool
	catchAll   bool
	paramName  string
	paramType  string // "string", "int", "uuid"
	handler    HandlerFunc
	apiHandler APIHandlerFunc
	raw        http.Handler
	children   []*RouteNode
	middleware []Middleware
}

// Router manages all routes and middleware
type Router struct {
	root       *RouteNode
	notFound   HandlerFunc
	errorPage  func(ctx Ctx, err error) (*vdom.VNode, error)
	middleware []Middleware
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewRouter creates a new router instance
func NewRouter() *Router {
	return &Router{
		root:   &RouteNode{},
		logger: slog.Default(),
	}
}

// SetLogger sets the base logger for request contexts
func (r *Router) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// AddRoute registers a page handler for a path
func (r *Router) AddRoute(path string, handler HandlerFunc, middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.insert(path)
	node.handler = handler
	node.middleware = middleware
}

// AddAPIRoute registers an API handler for a path
func (r *Router) AddAPIRoute(path string, handler APIHandlerFunc, middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.insert(path)
	node.apiHandler = handler
	node.middleware = middleware
}

// Handle mounts a plain http.Handler at an exact path. Router middleware is
// not applied to it.
func (r *Router) Handle(path string, h http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.insert(path).raw = h
}

// Use adds global middleware
func (r *Router) Use(middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// SetNotFound sets the 404 handler
func (r *Router) SetNotFound(handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = handler
}

// SetErrorPage sets the handler rendering 5xx pages
func (r *Router) SetErrorPage(handler func(ctx Ctx, err error) (*vdom.VNode, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorPage = handler
}

func (r *Router) insert(path string) *RouteNode {
	node := r.root
	for _, segment := range splitPath(path) {
		node = r.findOrCreateChild(node, segment)
	}
	return node
}

// route is the result of a successful match
type route struct {
	handler    HandlerFunc
	api        bool
	raw        http.Handler
	params     map[string]string
	middleware []Middleware
}

// Match finds a handler for the given path. A path that matches nothing
// returns the not-found handler (which may be nil).
func (r *Router) Match(path string) (HandlerFunc, map[string]string, []Middleware) {
	rt, ok := r.match(path)
	if !ok {
		return r.notFound, map[string]string{}, r.middleware
	}
	return rt.handler, rt.params, rt.middleware
}

func (r *Router) match(path string) (route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	params := make(map[string]string)
	node, matched := r.matchNode(r.root, splitPath(path), params)
	if !matched || (node.handler == nil && node.apiHandler == nil && node.raw == nil) {
		return route{}, false
	}

	rt := route{
		params:     params,
		raw:        node.raw,
		middleware: slices.Concat(r.middleware, node.middleware),
	}
	if node.apiHandler != nil {
		rt.handler = wrapAPIHandler(node.apiHandler)
		rt.api = true
	} else {
		rt.handler = node.handler
	}
	return rt, true
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rt, ok := r.match(req.URL.Path)
	if ok && rt.raw != nil {
		rt.raw.ServeHTTP(w, req)
		return
	}

	r.mu.RLock()
	ctx := newContext(w, req, r.logger)
	r.mu.RUnlock()

	defer func() {
		if rec := recover(); rec != nil {
			ctx.Logger().Error("panic in handler", "error", rec)
			r.handleError(ctx, rt.api, fmt.Errorf("internal server error: %v", rec))
		}
	}()

	if !ok {
		r.serveNotFound(ctx)
		return
	}
	WithParams(ctx, rt.params)

	vnode, err := chain(rt.handler, rt.middleware)(ctx)
	if err != nil {
		r.handleError(ctx, rt.api, err)
		return
	}

	// nil means the handler or a middleware wrote the response
	if vnode == nil {
		return
	}
	r.writePage(ctx, vnode)
}

// chain wraps handler in middleware, outermost first
func chain(handler HandlerFunc, middleware []Middleware) HandlerFunc {
	final := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := final
		final = func(c Ctx) (*vdom.VNode, error) {
			if err := mw.Before(c); err != nil {
				if errors.Is(err, ErrStop) {
					return nil, nil
				}
				return nil, err
			}

			result, err := next(c)

			if afterErr := mw.After(c); afterErr != nil {
				c.Logger().Error("error in After middleware", "error", afterErr)
			}
			return result, err
		}
	}
	return final
}

func (r *Router) writePage(ctx *ctxImpl, vnode *vdom.VNode) {
	var buf strings.Builder
	if err := html.NewRenderer(&buf).RenderDocument(vnode); err != nil {
		r.handleError(ctx, false, fmt.Errorf("render page: %w", err))
		return
	}
	if err := ctx.writeHTML([]byte(buf.String())); err != nil {
		ctx.Logger().Debug("write response", "error", err)
	}
}

func (r *Router) serveNotFound(ctx *ctxImpl) {
	ctx.Status(http.StatusNotFound)

	r.mu.RLock()
	notFound := r.notFound
	r.mu.RUnlock()

	if notFound != nil {
		if vnode, err := notFound(ctx); err == nil && vnode != nil {
			r.writePage(ctx, vnode)
			return
		}
	}
	_ = ctx.Text(http.StatusNotFound, "Not Found")
}

// handleError writes the error response. API routes get a JSON body; pages
// get the error page for 5xx and plain text otherwise.
func (r *Router) handleError(ctx *ctxImpl, api bool, err error) {
	if ctx.Written() {
		ctx.Logger().Error("handler error after response written", "error", err)
		return
	}

	code := statusOf(err)
	if code >= http.StatusInternalServerError {
		ctx.Logger().Error("handler error", "error", err)
	} else {
		ctx.Logger().Debug("request rejected", "status", code, "error", err)
	}

	msg := http.StatusText(code)
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		msg = he.Message
	}

	if api {
		_ = ctx.JSON(code, map[string]string{"error": msg})
		return
	}

	ctx.Status(code)
	r.mu.RLock()
	errorPage := r.errorPage
	r.mu.RUnlock()

	if errorPage != nil && code >= http.StatusInternalServerError {
		if vnode, pageErr := errorPage(ctx, err); pageErr == nil && vnode != nil {
			r.writePage(ctx, vnode)
			return
		}
	}
	_ = ctx.Text(code, msg)
}

// findOrCreateChild finds or creates a child node
func (r *Router) findOrCreateChild(parent *RouteNode, segment string) *RouteNode {
	if strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]") {
		paramDef := segment[1 : len(segment)-1]

		if name, ok := strings.CutPrefix(paramDef, "..."); ok {
			for _, child := range parent.children {
				if child.catchAll && child.paramName == name {
					return child
				}
			}
			node := &RouteNode{
				segment:   segment,
				catchAll:  true,
				paramName: name,
				paramType: "string",
			}
			parent.children = append(parent.children, node)
			return node
		}

		paramName, paramType := parseParamDef(paramDef)
		for _, child := range parent.children {
			if child.param && child.paramName == paramName {
				return child
			}
		}

		node := &RouteNode{
			segment:   segment,
			param:     true,
			paramName: paramName,
			paramType: paramType,
		}
		parent.children = append(parent.children, node)
		return node
	}

	for _, child := range parent.children {
		if !child.param && !child.catchAll && child.segment == segment {
			return child
		}
	}

	node := &RouteNode{segment: segment}
	parent.children = append(parent.children, node)
	return node
}

// matchNode matches static segments first, then params, then catch-alls
func (r *Router) matchNode(node *RouteNode, segments []string, params map[string]string) (*RouteNode, bool) {
	if len(segments) == 0 {
		return node, true
	}

	segment := segments[0]
	remaining := segments[1:]

	for _, child := range node.children {
		if !child.param && !child.catchAll && child.segment == segment {
			if result, ok := r.matchNode(child, remaining, params); ok {
				return result, true
			}
		}
	}

	for _, child := range node.children {
		if child.param && validateParam(segment, child.paramType) {
			params[child.paramName] = segment
			if result, ok := r.matchNode(child, remaining, params); ok {
				return result, true
			}
			delete(params, child.paramName)
		}
	}

	for _, child := range node.children {
		if child.catchAll {
			params[child.paramName] = strings.Join(segments, "/")
			return child, true
		}
	}

	return nil, false
}

// Helper functions

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

func parseParamDef(def string) (name, paramType string) {
	name, paramType, found := strings.Cut(def, ":")
	if !found {
		paramType = "string"
	}
	return name, paramType
}

func validateParam(value, paramType string) bool {
	switch paramType {
	case "int":
		_, err := strconv.Atoi(value)
		return err == nil
	case "uuid":
		_, err := uuid.Parse(value)
		return err == nil && len(value) == 36
	default:
		return len(value) > 0
	}
}

func wrapAPIHandler(handler APIHandlerFunc) HandlerFunc {
	return func(ctx Ctx) (*vdom.VNode, error) {
		result, err := handler(ctx)
		if err != nil {
			return nil, err
		}
		if ctx.Written() {
			return nil, nil
		}
		if err := ctx.JSON(http.StatusOK, result); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// RouteEntry describes one registered route
type RouteEntry struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // "page", "api" or "handler"
}

// Routes lists the registered routes in registration order
func (r *Router) Routes() []RouteEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []RouteEntry
	r.collectRoutes(r.root, "", &out)
	return out
}

func (r *Router) collectRoutes(node *RouteNode, path string, out *[]RouteEntry) {
	current := path
	if node.segment != "" {
		current = path + "/" + node.segment
	}

	display := current
	if display == "" {
		display = "/"
	}
	switch {
	case node.handler != nil:
		*out = append(*out, RouteEntry{Path: display, Kind: "page"})
	case node.apiHandler != nil:
		*out = append(*out, RouteEntry{Path: display, Kind: "api"})
	case node.raw != nil:
		*out = append(*out, RouteEntry{Path: display, Kind: "handler"})
	}

	for _, child := range node.children {
		r.collectRoutes(child, current, out)
	}
}
