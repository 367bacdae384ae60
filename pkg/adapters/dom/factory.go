// Package dom renders views into golang.org/x/net/html node trees.
package dom

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Factory creates Renderers over a shared html node space. It tracks which nodes
// are still live so leaks show up in tests.
type Factory struct {
	logger *slog.Logger

	live      map[*html.Node]struct{}
	scopes    map[string]string
	renderers int
	depth     int
	passes    int
}

var (
	_ ports.RendererFactory = (*Factory)(nil)
	_ ports.PassBracketer   = (*Factory)(nil)
)

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// NewFactory creates an html renderer factory.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		live:   make(map[*html.Node]struct{}),
		scopes: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewHost returns a detached element to mount a root view into.
func (f *Factory) NewHost(tag string) *html.Node {
	return newElement(tag)
}

// CreateRenderer implements ports.RendererFactory.
func (f *Factory) CreateRenderer(host ports.Node, typ *domain.RendererType) ports.Renderer {
	h := asNode(host, "CreateRenderer")
	f.renderers++
	r := &Renderer{factory: f, host: h, typ: typ}
	if typ == nil {
		return r
	}

	switch typ.Encapsulation {
	case domain.EncapsulationEmulated:
		scope := f.scope(typ.ID)
		r.contentAttr = "_acontent-" + scope
		setAttr(h, "_ahost-"+scope, "")
	case domain.EncapsulationShadowDom:
		r.shadow = newElement("template")
		setAttr(r.shadow, "shadowrootmode", "open")
		h.AppendChild(r.shadow)
		if len(typ.Styles) > 0 {
			style := newElement("style")
			for _, s := range typ.Styles {
				style.AppendChild(&html.Node{Type: html.TextNode, Data: s})
			}
			r.shadow.AppendChild(style)
		}
	}
	f.logger.Debug("Renderer created", "type", typ.ID, "encapsulation", typ.Encapsulation)
	return r
}

// scope assigns a short, stable scope id per renderer type.
func (f *Factory) scope(typeID string) string {
	if s, ok := f.scopes[typeID]; ok {
		return s
	}
	s := "c" + strconv.Itoa(len(f.scopes))
	f.scopes[typeID] = s
	return s
}

// Begin implements ports.PassBracketer.
func (f *Factory) Begin() {
	f.depth++
	f.passes++
	f.logger.Debug("Render pass begin", "pass", f.passes)
}

// End implements ports.PassBracketer.
func (f *Factory) End() {
	f.depth--
	f.logger.Debug("Render pass end", "pass", f.passes)
}

// InPass reports whether a refresh pass is currently bracketed.
func (f *Factory) InPass() bool { return f.depth > 0 }

// Passes returns the number of bracketed refresh passes.
func (f *Factory) Passes() int { return f.passes }

// Renderers returns the number of renderers handed out.
func (f *Factory) Renderers() int { return f.renderers }

// Live returns the number of nodes created and not yet destroyed.
func (f *Factory) Live() int { return len(f.live) }

// Abandon stops tracking every node below host and returns how many were released.
// It is meant for roots whose creation failed, which are never destroyed.
func (f *Factory) Abandon(host *html.Node) int {
	n := 0
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if _, ok := f.live[c]; ok {
				delete(f.live, c)
				n++
			}
			walk(c)
		}
	}
	walk(host)
	return n
}

func (f *Factory) track(n *html.Node) *html.Node {
	f.live[n] = struct{}{}
	return n
}

func (f *Factory) release(n *html.Node) {
	if _, ok := f.live[n]; !ok {
		panic(fmt.Errorf("dom: node %s destroyed twice or never created here", describe(n)))
	}
	delete(f.live, n)
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func asNode(n ports.Node, op string) *html.Node {
	h, ok := n.(*html.Node)
	if !ok || h == nil {
		panic(fmt.Errorf("dom: %s given foreign node %T", op, n))
	}
	return h
}

func describe(n *html.Node) string {
	if n.Type == html.TextNode {
		return strconv.Quote(n.Data)
	}
	return "<" + n.Data + ">"
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name && n.Attr[i].Namespace == "" {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}
