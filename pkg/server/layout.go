package server

import (
	"strings"

	"github.com/recera/clueso-site/pkg/vdom"
)

// Layout wraps page content in a document shell
type Layout interface {
	Wrap(ctx Ctx, child *vdom.VNode) *vdom.VNode
}

// LayoutFunc is a function type that implements the Layout interface
type LayoutFunc func(ctx Ctx, child *vdom.VNode) *vdom.VNode

// Wrap implements the Layout interface for LayoutFunc
func (f LayoutFunc) Wrap(ctx Ctx, child *vdom.VNode) *vdom.VNode {
	return f(ctx, child)
}

type layoutEntry struct {
	pattern string
	layout  Layout
}

// LayoutRegistry picks a layout by path pattern. Patterns are exact paths
// ("/pricing"), prefixes ending in '*' ("/docs/*"), or "/" as the fallback.
type LayoutRegistry struct {
	entries []layoutEntry
}

// NewLayoutRegistry creates a new layout registry
func NewLayoutRegistry() *LayoutRegistry {
	return &LayoutRegistry{}
}

// Register registers a layout for a path pattern, replacing any earlier one
func (r *LayoutRegistry) Register(pattern string, layout Layout) {
	for i := range r.entries {
		if r.entries[i].pattern == pattern {
			r.entries[i].layout = layout
			return
		}
	}
	r.entries = append(r.entries, layoutEntry{pattern: pattern, layout: layout})
}

// RegisterFunc registers a layout function for a path pattern
func (r *LayoutRegistry) RegisterFunc(pattern string, fn func(ctx Ctx, child *vdom.VNode) *vdom.VNode) {
	r.Register(pattern, LayoutFunc(fn))
}

// GetLayout returns the layout for path: an exact match first, then the
// longest matching prefix, then the root layout.
func (r *LayoutRegistry) GetLayout(path string) Layout {
	var best Layout
	bestLen := -1
	var root Layout

	for _, e := range r.entries {
		switch {
		case e.pattern == path:
			return e.layout
		case e.pattern == "/":
			root = e.layout
		case strings.HasSuffix(e.pattern, "*"):
			prefix := strings.TrimSuffix(e.pattern, "*")
			if strings.HasPrefix(path, prefix) && len(prefix) > bestLen {
				best, bestLen = e.layout, len(prefix)
			}
		}
	}

	if best != nil {
		return best
	}
	return root
}

// Wrap returns a handler whose result is wrapped by the layout for its path
func (r *LayoutRegistry) Wrap(handler HandlerFunc) HandlerFunc {
	return func(ctx Ctx) (*vdom.VNode, error) {
		content, err := handler(ctx)
		if err != nil || content == nil {
			return content, err
		}
		return r.ApplyLayout(ctx, content), nil
	}
}

// ApplyLayout applies the appropriate layout to a VNode
func (r *LayoutRegistry) ApplyLayout(ctx Ctx, content *vdom.VNode) *vdom.VNode {
	if layout := r.GetLayout(ctx.Path()); layout != nil {
		return layout.Wrap(ctx, content)
	}
	return content
}
