package vdom

import "strings"

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents an HTML element
	KindElement VKind = iota
	// KindText represents a text node
	KindText
	// KindFragment represents a list of siblings without a parent element
	KindFragment
)

// Props holds the attributes of an element node
type Props map[string]any

// VNode is an immutable virtual node. Views build a fresh tree on every
// render; nothing mutates a tree after it has been handed to a renderer.
type VNode struct {
	Kind VKind

	// Tag is the element name (only for KindElement)
	Tag string

	Props Props

	Kids []VNode

	// Text content (only for KindText)
	Text string
}

// NewElement creates an element node. Nil children are skipped.
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  collect(children),
	}
}

// NewText creates a text node
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewFragment creates a fragment node. Nil children are skipped.
func NewFragment(children ...*VNode) *VNode {
	return &VNode{
		Kind: KindFragment,
		Kids: collect(children),
	}
}

func collect(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// IsFragment returns true if this is a fragment node
func (v VNode) IsFragment() bool {
	return v.Kind == KindFragment
}

// Attr returns the string form of an attribute, or "" if it is absent.
func (v VNode) Attr(name string) string {
	if v.Props == nil {
		return ""
	}
	switch val := v.Props[name].(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return name
		}
		return ""
	default:
		return strings.TrimSpace(toString(val))
	}
}

// TextContent concatenates every text node under v in document order.
func (v VNode) TextContent() string {
	var b strings.Builder
	v.appendText(&b)
	return b.String()
}

func (v VNode) appendText(b *strings.Builder) {
	if v.Kind == KindText {
		b.WriteString(v.Text)
		return
	}
	for i := range v.Kids {
		v.Kids[i].appendText(b)
	}
}

// Find returns the first node, depth first, for which match returns true.
func (v *VNode) Find(match func(*VNode) bool) *VNode {
	if v == nil {
		return nil
	}
	if match(v) {
		return v
	}
	for i := range v.Kids {
		if found := v.Kids[i].Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node, depth first, for which match returns true.
func (v *VNode) FindAll(match func(*VNode) bool) []*VNode {
	var out []*VNode
	v.walk(func(n *VNode) {
		if match(n) {
			out = append(out, n)
		}
	})
	return out
}

func (v *VNode) walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for i := range v.Kids {
		v.Kids[i].walk(fn)
	}
}

// ByAttr matches element nodes whose attribute name equals value.
func ByAttr(name, value string) func(*VNode) bool {
	return func(n *VNode) bool {
		return n.Kind == KindElement && n.Attr(name) == value
	}
}
