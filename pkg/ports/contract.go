package ports

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Inspector lets the contract suite observe a backend's tree.
// ChildTags lists the element tags (or "#text") of parent's children in order.
type Inspector interface {
	ChildTags(parent Node) []string
	TextOf(node Node) string
	AttributeOf(el Node, name string) (string, bool)
}

// RunRendererContract runs a suite of tests to verify that a RendererFactory and its
// Renderers adhere to the interface contract. newHost returns a fresh detached host node.
func RunRendererContract(t *testing.T, factory RendererFactory, newHost func() Node, inspect Inspector) {
	typ := &domain.RendererType{ID: "contract", Encapsulation: domain.EncapsulationNone}

	t.Run("Append and Insert", func(t *testing.T) {
		host := newHost()
		r := factory.CreateRenderer(host, nil)
		require.NotNil(t, r, "CreateRenderer should return a renderer")

		a := r.CreateElement("a")
		c := r.CreateElement("c")
		r.AppendChild(host, a)
		r.AppendChild(host, c)

		b := r.CreateElement("b")
		r.InsertBefore(host, b, c)
		assert.Equal(t, []string{"a", "b", "c"}, inspect.ChildTags(host))

		d := r.CreateElement("d")
		r.InsertBefore(host, d, nil)
		assert.Equal(t, []string{"a", "b", "c", "d"}, inspect.ChildTags(host), "nil ref should append")
	})

	t.Run("Remove", func(t *testing.T) {
		host := newHost()
		r := factory.CreateRenderer(host, nil)
		a := r.CreateElement("a")
		b := r.CreateElement("b")
		r.AppendChild(host, a)
		r.AppendChild(host, b)

		r.RemoveChild(host, a)
		r.DestroyNode(a)
		assert.Equal(t, []string{"b"}, inspect.ChildTags(host))
	})

	t.Run("Text and Attributes", func(t *testing.T) {
		host := newHost()
		r := factory.CreateRenderer(host, typ)
		txt := r.CreateText("hello")
		el := r.CreateElement("span")
		r.AppendChild(el, txt)
		r.AppendChild(host, el)

		assert.Equal(t, "hello", inspect.TextOf(txt))
		r.SetText(txt, "world")
		assert.Equal(t, "world", inspect.TextOf(txt))

		r.SetAttribute(el, "title", "one")
		r.SetAttribute(el, "title", "two")
		v, ok := inspect.AttributeOf(el, "title")
		assert.True(t, ok)
		assert.Equal(t, "two", v, "SetAttribute should overwrite")
	})

	t.Run("Destroy", func(t *testing.T) {
		host := newHost()
		r := factory.CreateRenderer(host, typ)
		assert.NotPanics(t, r.Destroy, "Destroy should release the renderer")
	})
}
