package html

import (
	"fmt"
	"html"
	"io"
	"slices"
	"strings"

	"github.com/recera/clueso-site/pkg/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttributes are HTML attributes that are boolean flags
var booleanAttributes = map[string]bool{
	"checked":   true,
	"disabled":  true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
	"defer":     true,
	"async":     true,
	"multiple":  true,
	"autofocus": true,
	"hidden":    true,
	"muted":     true,
}

// urlAttributes are checked for javascript: URLs
var urlAttributes = map[string]bool{
	"href":   true,
	"src":    true,
	"action": true,
}

// Renderer writes VNode trees as HTML. Attributes are emitted in sorted
// order so the same tree always produces the same bytes.
type Renderer struct {
	w   io.Writer
	err error
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes node and returns the first write error
func (r *Renderer) Render(node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	r.renderNode(node)
	return r.err
}

// RenderDocument writes the HTML5 doctype followed by node
func (r *Renderer) RenderDocument(node *vdom.VNode) error {
	r.write("<!DOCTYPE html>")
	return r.Render(node)
}

// write helper that tracks errors
func (r *Renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *Renderer) renderNode(node *vdom.VNode) {
	if node == nil || r.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		r.write(html.EscapeString(node.Text))

	case vdom.KindElement:
		r.renderElement(node)

	case vdom.KindFragment:
		for i := range node.Kids {
			r.renderNode(&node.Kids[i])
		}
	}
}

func (r *Renderer) renderElement(node *vdom.VNode) {
	r.write("<")
	r.write(node.Tag)
	r.renderAttributes(node.Props)
	r.write(">")

	if voidElements[node.Tag] {
		return
	}

	// script and style content is written unescaped
	raw := node.Tag == "script" || node.Tag == "style"
	for i := range node.Kids {
		if raw {
			r.renderRawNode(&node.Kids[i])
		} else {
			r.renderNode(&node.Kids[i])
		}
	}

	r.write("</")
	r.write(node.Tag)
	r.write(">")
}

func (r *Renderer) renderAttributes(props vdom.Props) {
	if len(props) == 0 {
		return
	}

	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		value := props[key]
		if key == "key" || value == nil {
			continue
		}

		if booleanAttributes[key] {
			if v, ok := value.(bool); ok && v {
				r.write(" ")
				r.write(key)
			}
			continue
		}

		// functions and other non-printable values never reach the markup
		switch value.(type) {
		case func(), func(string):
			continue
		}

		valueStr := fmt.Sprint(value)
		if urlAttributes[key] && strings.HasPrefix(strings.ToLower(strings.TrimSpace(valueStr)), "javascript:") {
			valueStr = "#"
		}

		r.write(" ")
		r.write(key)
		r.write(`="`)
		r.write(html.EscapeString(valueStr))
		r.write(`"`)
	}
}

// renderRawNode renders a node without HTML escaping (for script/style content)
func (r *Renderer) renderRawNode(node *vdom.VNode) {
	if node == nil || r.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		r.write(node.Text)
	case vdom.KindElement:
		r.renderElement(node)
	case vdom.KindFragment:
		for i := range node.Kids {
			r.renderRawNode(&node.Kids[i])
		}
	}
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewRenderer(&buf).Render(node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
