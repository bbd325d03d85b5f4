package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
)

var (
	// ErrStop is a sentinel error used by middleware to stop the chain
	ErrStop = errors.New("server: stop middleware chain")

	// ErrUnsupportedMediaType is returned by Bind for bodies it cannot decode
	ErrUnsupportedMediaType = errors.New("server: unsupported media type")
)

// Stop returns the sentinel error to halt middleware chain execution
func Stop() error {
	return ErrStop
}

// Ctx is the canonical interface passed through routing, middleware, and handlers
type Ctx interface {
	// === Request ===
	Request() *http.Request   // raw request pointer (read-only)
	Context() context.Context // request context, cancelled when the client goes away
	Path() string             // path without query string
	Method() string           // GET, POST, etc.
	Query() url.Values        // parsed query params
	Param(key string) string  // route param, panics if missing
	Bind(v any) error         // decode a JSON or form body into v

	// === Response ===
	Status(code int)                 // set HTTP status (default 200)
	StatusCode() int                 // current status
	Header() http.Header             // writeable headers
	SetHeader(key, val string)       // convenience
	Redirect(url string, code int)   // sets 30x + Location header
	JSON(code int, v any) error      // serialise & write JSON
	Text(code int, msg string) error // write text/plain
	Written() bool                   // whether the response has been written

	Logger() *slog.Logger // structured logger
}

// ctxImpl is the internal implementation of Ctx
type ctxImpl struct {
	req           *http.Request
	w             http.ResponseWriter
	params        map[string]string
	statusCode    int
	logger        *slog.Logger
	headerWritten bool
	mu            sync.RWMutex
}

// NewContext creates a new context for handling a request
func NewContext(w http.ResponseWriter, r *http.Request) Ctx {
	return newContext(w, r, slog.Default())
}

func newContext(w http.ResponseWriter, r *http.Request, base *slog.Logger) *ctxImpl {
	return &ctxImpl{
		req:        r,
		w:          w,
		params:     make(map[string]string),
		statusCode: http.StatusOK,
		logger:     base.With("path", r.URL.Path, "method", r.Method),
	}
}

// WithParams returns a new context with route parameters set
func WithParams(ctx Ctx, params map[string]string) Ctx {
	if impl, ok := ctx.(*ctxImpl); ok {
		impl.mu.Lock()
		impl.params = params
		impl.mu.Unlock()
	}
	return ctx
}

// === Request Methods ===

func (c *ctxImpl) Request() *http.Request {
	return c.req
}

func (c *ctxImpl) Context() context.Context {
	return c.req.Context()
}

func (c *ctxImpl) Path() string {
	return c.req.URL.Path
}

func (c *ctxImpl) Method() string {
	return c.req.Method
}

func (c *ctxImpl) Query() url.Values {
	return c.req.URL.Query()
}

func (c *ctxImpl) Param(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	val, ok := c.params[key]
	if !ok {
		panic("server: route parameter '" + key + "' not found")
	}
	return val
}

// Bind decodes application/json bodies with encoding/json and url-encoded or
// multipart forms by matching each field's `form` tag (or lowercased name).
// Only string fields are filled from forms.
func (c *ctxImpl) Bind(v any) error {
	mediaType, _, _ := mime.ParseMediaType(c.req.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json", "":
		dec := json.NewDecoder(http.MaxBytesReader(c.w, c.req.Body, 1<<20))
		if err := dec.Decode(v); err != nil {
			return BadRequest(fmt.Sprintf("invalid JSON body: %v", err))
		}
		return nil

	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := c.req.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return BadRequest(fmt.Sprintf("invalid form body: %v", err))
		}
		return bindForm(c.req.Form, v)

	default:
		return &HTTPError{Code: http.StatusUnsupportedMediaType, Message: mediaType, Err: ErrUnsupportedMediaType}
	}
}

func bindForm(form url.Values, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("server: Bind target must be a struct pointer, got %T", v)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() || field.Type.Kind() != reflect.String {
			continue
		}
		name := field.Tag.Get("form")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		if vals, ok := form[name]; ok && len(vals) > 0 {
			rv.Field(i).SetString(vals[0])
		}
	}
	return nil
}

// === Response Methods ===

func (c *ctxImpl) Status(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.headerWritten {
		c.logger.Warn("attempted to set status after headers written", "code", code)
		return
	}
	c.statusCode = code
}

func (c *ctxImpl) StatusCode() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusCode
}

func (c *ctxImpl) Header() http.Header {
	return c.w.Header()
}

func (c *ctxImpl) SetHeader(key, val string) {
	c.w.Header().Set(key, val)
}

func (c *ctxImpl) Redirect(url string, code int) {
	c.markWritten(code)
	http.Redirect(c.w, c.req, url, code)
}

func (c *ctxImpl) JSON(code int, v any) error {
	c.markWritten(code)

	c.w.Header().Set("Content-Type", "application/json")
	c.w.WriteHeader(code)
	return json.NewEncoder(c.w).Encode(v)
}

func (c *ctxImpl) Text(code int, msg string) error {
	c.markWritten(code)

	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(code)
	_, err := c.w.Write([]byte(msg))
	return err
}

// writeHTML writes a rendered page with the current status
func (c *ctxImpl) writeHTML(body []byte) error {
	code := c.StatusCode()
	c.markWritten(code)

	c.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.w.WriteHeader(code)
	_, err := c.w.Write(body)
	return err
}

func (c *ctxImpl) Written() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headerWritten
}

func (c *ctxImpl) markWritten(code int) {
	c.mu.Lock()
	c.statusCode = code
	c.headerWritten = true
	c.mu.Unlock()
}

func (c *ctxImpl) Logger() *slog.Logger {
	return c.logger
}

// HTTPError carries a status code through handler error returns
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// BadRequest returns a 400 HTTPError
func BadRequest(msg string) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Message: msg}
}

// MethodNotAllowed returns a 405 HTTPError
func MethodNotAllowed(method string) *HTTPError {
	return &HTTPError{Code: http.StatusMethodNotAllowed, Message: "method " + method + " not allowed"}
}

// statusOf maps an error to the HTTP status it should produce
func statusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
