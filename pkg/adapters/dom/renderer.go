package dom

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"golang.org/x/net/html"
)

// Renderer mutates html nodes for one encapsulation boundary.
type Renderer struct {
	factory *Factory
	typ     *domain.RendererType
	host    *html.Node
	// shadow receives the children of host for shadow_dom boundaries.
	shadow      *html.Node
	contentAttr string
	destroyed   bool
}

var _ ports.Renderer = (*Renderer)(nil)

func (r *Renderer) check(op string) {
	if r.destroyed {
		panic(fmt.Errorf("dom: %s on a destroyed renderer", op))
	}
}

// target redirects children of a shadow host into its shadow root.
func (r *Renderer) target(parent *html.Node) *html.Node {
	if r.shadow != nil && parent == r.host {
		return r.shadow
	}
	return parent
}

func (r *Renderer) CreateElement(tag string) ports.Node {
	r.check("CreateElement")
	n := newElement(tag)
	if r.contentAttr != "" {
		setAttr(n, r.contentAttr, "")
	}
	return r.factory.track(n)
}

func (r *Renderer) CreateText(value string) ports.Node {
	r.check("CreateText")
	return r.factory.track(&html.Node{Type: html.TextNode, Data: value})
}

func (r *Renderer) AppendChild(parent, child ports.Node) {
	r.check("AppendChild")
	r.target(asNode(parent, "AppendChild")).AppendChild(asNode(child, "AppendChild"))
}

func (r *Renderer) InsertBefore(parent, child, ref ports.Node) {
	r.check("InsertBefore")
	p := r.target(asNode(parent, "InsertBefore"))
	c := asNode(child, "InsertBefore")
	if ref == nil {
		p.AppendChild(c)
		return
	}
	p.InsertBefore(c, asNode(ref, "InsertBefore"))
}

func (r *Renderer) RemoveChild(parent, child ports.Node) {
	r.check("RemoveChild")
	r.target(asNode(parent, "RemoveChild")).RemoveChild(asNode(child, "RemoveChild"))
}

func (r *Renderer) SetAttribute(el ports.Node, name, value string) {
	r.check("SetAttribute")
	setAttr(asNode(el, "SetAttribute"), name, value)
}

func (r *Renderer) SetText(node ports.Node, value string) {
	r.check("SetText")
	asNode(node, "SetText").Data = value
}

func (r *Renderer) DestroyNode(node ports.Node) {
	r.check("DestroyNode")
	r.factory.release(asNode(node, "DestroyNode"))
}

// Destroy marks the renderer unusable. A component host is never passed to
// DestroyNode, so its boundary renderer releases it here.
func (r *Renderer) Destroy() {
	r.check("Destroy")
	r.destroyed = true
	if r.typ != nil {
		delete(r.factory.live, r.host)
	}
}

// Type returns the boundary description the renderer was created for.
func (r *Renderer) Type() *domain.RendererType { return r.typ }
