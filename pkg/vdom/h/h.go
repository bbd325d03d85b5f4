// Package h holds short element constructors for building vdom trees in Go.
//
//	h.Section(vdom.Props{"class": "hero"},
//		h.H1(nil, h.Text(title)),
//		h.Ul(nil, h.Map(items, func(i int, it Item) *vdom.VNode { ... })...),
//	)
package h

import (
	"fmt"

	"github.com/recera/clueso-site/pkg/vdom"
)

// Text creates a text node
func Text(s string) *vdom.VNode {
	return vdom.NewText(s)
}

// Textf creates a formatted text node
func Textf(format string, args ...any) *vdom.VNode {
	return vdom.NewText(fmt.Sprintf(format, args...))
}

// Fragment groups siblings without a wrapping element
func Fragment(kids ...*vdom.VNode) *vdom.VNode {
	return vdom.NewFragment(kids...)
}

// If returns node when cond is true and nil otherwise. Nil children are
// dropped by every constructor.
func If(cond bool, node *vdom.VNode) *vdom.VNode {
	if !cond {
		return nil
	}
	return node
}

// Map renders one node per item, in order.
func Map[T any](items []T, render func(i int, item T) *vdom.VNode) []*vdom.VNode {
	out := make([]*vdom.VNode, 0, len(items))
	for i, item := range items {
		out = append(out, render(i, item))
	}
	return out
}

// El creates an element with an arbitrary tag
func El(tag string, props vdom.Props, kids ...*vdom.VNode) *vdom.VNode {
	return vdom.NewElement(tag, props, kids...)
}

func tag(name string) func(vdom.Props, ...*vdom.VNode) *vdom.VNode {
	return func(props vdom.Props, kids ...*vdom.VNode) *vdom.VNode {
		return vdom.NewElement(name, props, kids...)
	}
}

// Document structure
var (
	Html  = tag("html")
	Head  = tag("head")
	Body  = tag("body")
	Title = tag("title")
	Meta  = tag("meta")
	Link  = tag("link")
	Style = tag("style")

	Script = tag("script")
)

// Sectioning
var (
	Header  = tag("header")
	Footer  = tag("footer")
	Main    = tag("main")
	Nav     = tag("nav")
	Section = tag("section")
	Article = tag("article")
	Aside   = tag("aside")
	Div     = tag("div")
)

// Text content
var (
	H1         = tag("h1")
	H2         = tag("h2")
	H3         = tag("h3")
	H4         = tag("h4")
	P          = tag("p")
	Span       = tag("span")
	Strong     = tag("strong")
	Small      = tag("small")
	Blockquote = tag("blockquote")
	Ul         = tag("ul")
	Ol         = tag("ol")
	Li         = tag("li")
	A          = tag("a")
	Img        = tag("img")
	Br         = tag("br")
)

// Forms
var (
	Form     = tag("form")
	Label    = tag("label")
	Input    = tag("input")
	Textarea = tag("textarea")
	Select   = tag("select")
	Option   = tag("option")
	Button   = tag("button")
)

// Tables
var (
	Table = tag("table")
	Thead = tag("thead")
	Tbody = tag("tbody")
	Tr    = tag("tr")
	Th    = tag("th")
	Td    = tag("td")
)
