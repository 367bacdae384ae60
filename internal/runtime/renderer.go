package runtime

import "github.com/aretw0/arbor/pkg/ports"

// trackedRenderer counts every primitive after the wrapped call returns, so a
// renderer that panics mid-call never shows up in the counters.
type trackedRenderer struct {
	inner     ports.Renderer
	stats     *counters
	destroyed bool
}

func (r *trackedRenderer) CreateElement(tag string) ports.Node {
	n := r.inner.CreateElement(tag)
	r.stats.createElement.Add(1)
	return n
}

func (r *trackedRenderer) CreateText(value string) ports.Node {
	n := r.inner.CreateText(value)
	r.stats.createText.Add(1)
	return n
}

func (r *trackedRenderer) AppendChild(parent, child ports.Node) {
	r.inner.AppendChild(parent, child)
	r.stats.appendChild.Add(1)
}

func (r *trackedRenderer) InsertBefore(parent, child, ref ports.Node) {
	r.inner.InsertBefore(parent, child, ref)
	r.stats.insertBefore.Add(1)
}

func (r *trackedRenderer) RemoveChild(parent, child ports.Node) {
	r.inner.RemoveChild(parent, child)
	r.stats.removeChild.Add(1)
}

func (r *trackedRenderer) SetAttribute(el ports.Node, name, value string) {
	r.inner.SetAttribute(el, name, value)
	r.stats.setAttribute.Add(1)
}

func (r *trackedRenderer) SetText(node ports.Node, value string) {
	r.inner.SetText(node, value)
	r.stats.setText.Add(1)
}

func (r *trackedRenderer) DestroyNode(node ports.Node) {
	r.inner.DestroyNode(node)
	r.stats.rendererDestroyNode.Add(1)
}

// destroy releases the wrapped renderer at most once and reports whether it did.
func (r *trackedRenderer) destroy() bool {
	if r.destroyed {
		return false
	}
	r.destroyed = true
	r.inner.Destroy()
	r.stats.rendererDestroy.Add(1)
	return true
}
