package runtime

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// View is an ordered list of slots produced by a template's Create pass.
type View struct {
	id      string
	kind    domain.ViewKind
	name    string
	blockID int
	decls   int
	// depth counts the views between v and the root.
	depth int

	template domain.TemplateFunc
	ctx      any

	renderer     *trackedRenderer
	ownsRenderer bool
	rendererType *domain.RendererType

	// parentNode receives the top-level nodes of the view: the root host, a
	// component host element, or the parent node of the owning container.
	parentNode ports.Node

	slots      []*slot
	topLevel   []int
	components []*View

	created   bool
	destroyed bool
}

type slot struct {
	index int
	kind  domain.SlotKind
	node  ports.Node
	tag   string
	text  string
	attrs map[string]string

	container *Container
	component *View
}

// Container is a slot holding embedded views in order.
// Reuse is positional: cursor points at the next candidate for reuse during a refresh.
type Container struct {
	index      int
	owner      *View
	parentNode ports.Node
	anchor     ports.Node
	views      []*View
	cursor     int
	active     bool
}

// ID returns the engine-unique identifier of the view.
func (v *View) ID() string { return v.id }

// Kind reports whether v is a root, component or embedded view.
func (v *View) Kind() domain.ViewKind { return v.kind }

func (v *View) label() string {
	if v.name != "" {
		return v.name
	}
	return v.id
}

func (v *View) slotAt(index int, instruction string) *slot {
	if index < 0 || index >= len(v.slots) || v.slots[index] == nil {
		panic(&domain.ProtocolError{
			Instruction: instruction,
			Reason:      fmt.Sprintf("no slot %d in view '%s'", index, v.label()),
		})
	}
	return v.slots[index]
}

func (v *View) setSlot(s *slot, instruction string) {
	if s.index < 0 || (v.decls > 0 && s.index >= v.decls) {
		panic(&domain.ProtocolError{
			Instruction: instruction,
			Reason:      fmt.Sprintf("slot %d out of range for view '%s' declaring %d", s.index, v.label(), v.decls),
		})
	}
	for len(v.slots) <= s.index {
		v.slots = append(v.slots, nil)
	}
	if v.slots[s.index] != nil {
		panic(&domain.ProtocolError{
			Instruction: instruction,
			Reason:      fmt.Sprintf("slot %d of view '%s' already in use", s.index, v.label()),
		})
	}
	v.slots[s.index] = s
}

// firstNode returns the first rendered node of v in document order, looking through
// top-level containers into their embedded views.
func (v *View) firstNode() ports.Node {
	for _, idx := range v.topLevel {
		s := v.slots[idx]
		if s.kind == domain.SlotContainer {
			for _, ev := range s.container.views {
				if n := ev.firstNode(); n != nil {
					return n
				}
			}
		}
		return s.node
	}
	return nil
}

// refAfter returns the node before which a view placed at position i must be inserted.
func (c *Container) refAfter(i int) ports.Node {
	for ; i < len(c.views); i++ {
		if n := c.views[i].firstNode(); n != nil {
			return n
		}
	}
	return c.anchor
}

// reusable reports whether the view at the cursor can serve blockID.
// A view whose creation never completed is not reused.
func (c *Container) reusable(blockID int) *View {
	if c.cursor >= len(c.views) {
		return nil
	}
	v := c.views[c.cursor]
	if v.blockID != blockID || !v.created {
		return nil
	}
	return v
}

func (c *Container) insertAt(i int, v *View) {
	c.views = append(c.views, nil)
	copy(c.views[i+1:], c.views[i:])
	c.views[i] = v
}

// Len returns the number of embedded views currently held.
func (c *Container) Len() int { return len(c.views) }
