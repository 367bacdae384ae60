package ports

import "github.com/aretw0/arbor/pkg/domain"

// Node is an opaque handle to a rendered node. Only the Renderer that produced it
// knows its concrete type.
type Node any

// Renderer performs primitive mutations against one rendering target.
//
// A Renderer signals failure by panicking; the engine recovers the panic at the
// pass boundary and reports it as an error.
type Renderer interface {
	CreateElement(tag string) Node
	CreateText(value string) Node
	AppendChild(parent, child Node)
	// InsertBefore inserts child before ref. A nil ref appends.
	InsertBefore(parent, child, ref Node)
	RemoveChild(parent, child Node)
	SetAttribute(el Node, name, value string)
	SetText(node Node, value string)
	// DestroyNode releases a node that has been detached for good.
	DestroyNode(node Node)
	// Destroy releases the renderer. It is called once, when its boundary is torn down.
	Destroy()
}

// RendererFactory produces a Renderer per encapsulation boundary.
// typ is nil for the root boundary.
//
// A factory may also implement PassBracketer. If it does, Begin and End bracket every
// root-level refresh.
type RendererFactory interface {
	CreateRenderer(host Node, typ *domain.RendererType) Renderer
}

// PassBracketer is implemented by factories that want to observe refresh passes.
type PassBracketer interface {
	Begin()
	End()
}

// RendererFactoryFunc adapts a function to RendererFactory.
type RendererFactoryFunc func(host Node, typ *domain.RendererType) Renderer

func (f RendererFactoryFunc) CreateRenderer(host Node, typ *domain.RendererType) Renderer {
	return f(host, typ)
}
