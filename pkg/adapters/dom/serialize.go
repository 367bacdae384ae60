package dom

import (
	"bytes"
	"fmt"

	"github.com/aretw0/arbor/pkg/ports"
	"golang.org/x/net/html"
)

// Serialize renders the children of n as HTML (its inner HTML).
func Serialize(n ports.Node) (string, error) {
	h, ok := n.(*html.Node)
	if !ok || h == nil {
		return "", fmt.Errorf("dom: cannot serialize %T", n)
	}
	var buf bytes.Buffer
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("failed to render html: %w", err)
		}
	}
	return buf.String(), nil
}

// Inspector implements ports.Inspector over html nodes.
type Inspector struct{}

var _ ports.Inspector = Inspector{}

func (Inspector) ChildTags(parent ports.Node) []string {
	var tags []string
	for c := asNode(parent, "ChildTags").FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			tags = append(tags, "#text")
			continue
		}
		tags = append(tags, c.Data)
	}
	return tags
}

func (Inspector) TextOf(node ports.Node) string {
	return asNode(node, "TextOf").Data
}

func (Inspector) AttributeOf(el ports.Node, name string) (string, bool) {
	for _, a := range asNode(el, "AttributeOf").Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
