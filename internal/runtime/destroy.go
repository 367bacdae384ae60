package runtime

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// detach removes the top-level nodes of v from parent, including the nodes of
// embedded views held by top-level containers.
func (c *Cursor) detach(v *View, parent ports.Node) {
	for _, idx := range v.topLevel {
		s := v.slots[idx]
		if s.kind == domain.SlotContainer {
			for _, ev := range s.container.views {
				c.detach(ev, parent)
			}
		}
		v.renderer.RemoveChild(parent, s.node)
	}
}

// destroyView tears v down depth-first, post-order:
//
//  1. embedded views of every container and every child component view;
//  2. DestroyNode for each plain node owned by v (component hosts are boundaries
//     and are released through their own renderer);
//  3. Destroy on v's renderer when v owns it.
//
// A view is destroyed at most once.
func (c *Cursor) destroyView(v *View) {
	if v.destroyed {
		return
	}
	v.destroyed = true

	for _, s := range v.slots {
		if s == nil {
			continue
		}
		switch s.kind {
		case domain.SlotContainer:
			views := s.container.views
			s.container.views = nil
			for _, ev := range views {
				c.destroyView(ev)
			}
		case domain.SlotComponent:
			c.destroyView(s.component)
		}
	}

	for _, s := range v.slots {
		if s == nil || s.kind == domain.SlotComponent {
			continue
		}
		v.renderer.DestroyNode(s.node)
	}

	if v.ownsRenderer && v.renderer.destroy() {
		c.engine.rendererDestroyed(c.ctx, v)
	}
	c.engine.viewDestroyed(c.ctx, v)
}
