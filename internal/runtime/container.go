package runtime

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
)

// ContainerRefreshStart implements domain.Instructions.
func (c *Cursor) ContainerRefreshStart(index int) {
	f := c.top()
	s := f.view.slotAt(index, "ContainerRefreshStart")
	if s.kind != domain.SlotContainer {
		panic(&domain.ProtocolError{Instruction: "ContainerRefreshStart", Reason: fmt.Sprintf("slot %d is a %s, not a container", index, s.kind)})
	}
	cont := s.container
	if cont.active {
		panic(&domain.ProtocolError{Instruction: "ContainerRefreshStart", Reason: fmt.Sprintf("container %d is already refreshing", index)})
	}
	cont.active = true
	cont.cursor = 0
	f.containers = append(f.containers, cont)
	c.open = append(c.open, cont)
}

// ContainerRefreshEnd implements domain.Instructions.
//
// The set of views to drop is computed before any of them is destroyed.
func (c *Cursor) ContainerRefreshEnd() {
	f := c.top()
	if len(f.containers) == 0 {
		panic(&domain.ProtocolError{Instruction: "ContainerRefreshEnd", Reason: "no matching ContainerRefreshStart"})
	}
	cont := f.containers[len(f.containers)-1]
	f.containers = f.containers[:len(f.containers)-1]

	stale := append([]*View(nil), cont.views[cont.cursor:]...)
	cont.views = cont.views[:cont.cursor]
	for _, v := range stale {
		c.detach(v, cont.parentNode)
		c.destroyView(v)
	}

	cont.active = false
	for i, open := range c.open {
		if open == cont {
			c.open = append(c.open[:i], c.open[i+1:]...)
			break
		}
	}
}

// EmbeddedViewStart implements domain.Instructions.
func (c *Cursor) EmbeddedViewStart(blockID, decls int) domain.RenderFlags {
	f := c.top()
	if len(f.containers) == 0 {
		panic(&domain.ProtocolError{Instruction: "EmbeddedViewStart", Reason: "called outside of a container refresh"})
	}
	cont := f.containers[len(f.containers)-1]

	if v := cont.reusable(blockID); v != nil {
		c.push(&frame{view: v, flags: domain.Update, embedded: true, container: cont})
		return domain.Update
	}

	e := c.engine
	parent := cont.owner
	depth := childDepth(parent)
	v := &View{
		id:           e.newViewID(),
		kind:         domain.ViewEmbedded,
		depth:        depth,
		blockID:      blockID,
		decls:        decls,
		ctx:          parent.ctx,
		renderer:     parent.renderer,
		rendererType: parent.rendererType,
		parentNode:   cont.parentNode,
	}
	cont.insertAt(cont.cursor, v)
	e.viewCreated(c.ctx, v)

	rf := domain.Create | domain.Update
	c.push(&frame{
		view:      v,
		flags:     rf,
		insertRef: cont.refAfter(cont.cursor + 1),
		embedded:  true,
		container: cont,
	})
	return rf
}

// EmbeddedViewEnd implements domain.Instructions.
func (c *Cursor) EmbeddedViewEnd() {
	f := c.top()
	if !f.embedded {
		panic(&domain.ProtocolError{Instruction: "EmbeddedViewEnd", Reason: "no matching EmbeddedViewStart"})
	}
	if len(f.parents) > 0 {
		panic(&domain.ProtocolError{Instruction: "ElementEnd", Reason: fmt.Sprintf("%d element(s) left open in embedded view %s", len(f.parents), f.view.id)})
	}
	if len(f.containers) > 0 {
		panic(&domain.ProtocolError{Instruction: "ContainerRefreshEnd", Reason: fmt.Sprintf("missing in embedded view %s", f.view.id)})
	}
	c.frames = c.frames[:len(c.frames)-1]

	v := f.view
	v.created = true
	f.container.cursor++

	for _, child := range v.components {
		if err := c.refreshView(child); err != nil {
			panic(abortError{err: err})
		}
	}
}

// EmbeddedView implements domain.Instructions. It runs tmpl between
// EmbeddedViewStart and EmbeddedViewEnd with ctx as the view context.
//
// On failure the view is left uncreated, so it will not be reused by the next refresh.
func (c *Cursor) EmbeddedView(blockID, decls int, tmpl domain.TemplateFunc, ctx any) error {
	depth := len(c.frames)
	rf := c.EmbeddedViewStart(blockID, decls)
	f := c.top()
	v := f.view
	v.template = tmpl
	v.ctx = ctx

	if err := tmpl(rf, c, ctx); err != nil {
		c.frames = c.frames[:depth]
		f.container.cursor++
		return templateError(v, err)
	}
	if len(c.frames) != depth+1 || c.top() != f {
		panic(&domain.ProtocolError{Instruction: "EmbeddedViewEnd", Reason: fmt.Sprintf("nested embedded view left open in %s", v.id)})
	}
	c.EmbeddedViewEnd()
	return nil
}
