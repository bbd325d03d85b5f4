package html

import (
	"errors"
	"strings"
	"testing"

	"github.com/recera/clueso-site/pkg/vdom"
)

func TestRenderToString_TextNodes(t *testing.T) {
	tests := []struct {
		name     string
		node     *vdom.VNode
		expected string
	}{
		{
			name:     "simple text",
			node:     vdom.NewText("Hello World"),
			expected: "Hello World",
		},
		{
			name:     "text with HTML entities",
			node:     vdom.NewText("<script>alert('xss')</script>"),
			expected: "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;",
		},
		{
			name:     "text with quotes",
			node:     vdom.NewText(`"Hello" & 'World'`),
			expected: "&#34;Hello&#34; &amp; &#39;World&#39;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("RenderToString() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRenderToString_Elements(t *testing.T) {
	tests := []struct {
		name     string
		node     *vdom.VNode
		expected string
	}{
		{
			name:     "empty div",
			node:     vdom.NewElement("div", nil),
			expected: "<div></div>",
		},
		{
			name:     "div with text",
			node:     vdom.NewElement("div", nil, vdom.NewText("Hello")),
			expected: "<div>Hello</div>",
		},
		{
			name: "attributes are sorted",
			node: vdom.NewElement("div", vdom.Props{
				"id":        "main",
				"class":     "container",
				"data-view": "hero",
			}),
			expected: `<div class="container" data-view="hero" id="main"></div>`,
		},
		{
			name: "nested elements",
			node: vdom.NewElement("div", nil,
				vdom.NewElement("p", nil, vdom.NewText("Paragraph 1")),
				vdom.NewElement("p", nil, vdom.NewText("Paragraph 2")),
			),
			expected: "<div><p>Paragraph 1</p><p>Paragraph 2</p></div>",
		},
		{
			name: "void element",
			node: vdom.NewElement("img", vdom.Props{
				"src": "image.jpg",
				"alt": "Test Image",
			}),
			expected: `<img alt="Test Image" src="image.jpg">`,
		},
		{
			name: "boolean attributes",
			node: vdom.NewElement("input", vdom.Props{
				"type":     "checkbox",
				"checked":  true,
				"disabled": false,
			}),
			expected: `<input checked type="checkbox">`,
		},
		{
			name: "key and nil props are skipped",
			node: vdom.NewElement("li", vdom.Props{
				"key":   "a",
				"title": nil,
				"value": 3,
			}),
			expected: `<li value="3"></li>`,
		},
		{
			name: "style content is not escaped",
			node: vdom.NewElement("style", nil,
				vdom.NewText(".a > .b { color: red }"),
			),
			expected: "<style>.a > .b { color: red }</style>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("RenderToString() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestRenderToString_Fragments(t *testing.T) {
	node := vdom.NewFragment(
		vdom.NewElement("h1", nil, vdom.NewText("Title")),
		vdom.NewElement("p", nil, vdom.NewText("Content")),
	)

	expected := "<h1>Title</h1><p>Content</p>"
	result, err := RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("RenderToString() = %q, want %q", result, expected)
	}
}

func TestRenderToString_XSSPrevention(t *testing.T) {
	tests := []struct {
		name    string
		node    *vdom.VNode
		notWant string
	}{
		{
			name: "script in text",
			node: vdom.NewElement("div", nil,
				vdom.NewText("<script>alert('xss')</script>"),
			),
			notWant: "<script>",
		},
		{
			name: "script in attribute",
			node: vdom.NewElement("div", vdom.Props{
				"title": `<script>alert('xss')</script>`,
			}),
			notWant: "<script>",
		},
		{
			name: "javascript URL",
			node: vdom.NewElement("a", vdom.Props{
				"href": " JavaScript:alert('xss')",
			}, vdom.NewText("Link")),
			notWant: "avaScript:",
		},
		{
			name: "javascript form action",
			node: vdom.NewElement("form", vdom.Props{
				"action": "javascript:void(0)",
			}),
			notWant: "javascript:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RenderToString(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(result, tt.notWant) {
				t.Errorf("Result should not contain %q, got: %q", tt.notWant, result)
			}
		})
	}
}

func TestRenderDocument(t *testing.T) {
	node := vdom.NewElement("html", vdom.Props{"lang": "en"},
		vdom.NewElement("head", nil,
			vdom.NewElement("title", nil, vdom.NewText("Clueso")),
			vdom.NewElement("meta", vdom.Props{"charset": "utf-8"}),
		),
		vdom.NewElement("body", nil),
	)

	var buf strings.Builder
	if err := NewRenderer(&buf).RenderDocument(node); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `<!DOCTYPE html><html lang="en"><head><title>Clueso</title><meta charset="utf-8"></head><body></body></html>`
	if buf.String() != expected {
		t.Errorf("RenderDocument() = %q, want %q", buf.String(), expected)
	}
}

func TestRenderToString_Deterministic(t *testing.T) {
	props := vdom.Props{}
	for _, k := range []string{"z", "y", "x", "w", "v", "u", "t", "s"} {
		props["data-"+k] = k
	}
	node := vdom.NewElement("div", props)

	first, err := RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := RenderToString(node)
		if again != first {
			t.Fatalf("render %d differs: %q vs %q", i, again, first)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_ReportsWriteError(t *testing.T) {
	err := NewRenderer(failingWriter{}).Render(vdom.NewElement("div", nil, vdom.NewText("x")))
	if err == nil {
		t.Fatal("expected write error")
	}
}
