package server

import (
	_ "embed"

	"github.com/recera/clueso-site/pkg/vdom"
)

//go:embed live_client.js
var liveClientScript string

// LiveClientScript returns the browser side of the live protocol
func LiveClientScript() string {
	return liveClientScript
}

// InjectLiveClient marks the document with the page name and appends the
// live client script to its body. Documents that are not an <html> element
// are returned unchanged.
func InjectLiveClient(doc *vdom.VNode, page string) *vdom.VNode {
	if doc == nil || doc.Kind != vdom.KindElement || doc.Tag != "html" {
		return doc
	}

	out := *doc
	out.Props = make(vdom.Props, len(doc.Props)+1)
	for k, v := range doc.Props {
		out.Props[k] = v
	}
	out.Props["data-page"] = page

	script := vdom.NewElement("script", nil, vdom.NewText(liveClientScript))

	out.Kids = make([]vdom.VNode, len(doc.Kids))
	copy(out.Kids, doc.Kids)
	for i := range out.Kids {
		if out.Kids[i].Tag != "body" {
			continue
		}
		body := out.Kids[i]
		body.Kids = append(append([]vdom.VNode(nil), body.Kids...), *script)
		out.Kids[i] = body
	}
	return &out
}
