package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Cursor is the instruction handle threaded through every template call of a pass.
// It replaces any notion of an ambient "current view": each frame names the view the
// next instruction targets.
type Cursor struct {
	ctx    context.Context
	engine *Engine
	root   *Root
	frames []*frame
	open   []*Container
}

var _ domain.Instructions = (*Cursor)(nil)

type frame struct {
	view  *View
	flags domain.RenderFlags

	// parents is the element stack opened by ElementStart. Empty means top level.
	parents []ports.Node
	// insertRef is where top-level nodes of a freshly created embedded view go.
	insertRef ports.Node

	containers []*Container

	// embedded is set for frames opened by EmbeddedViewStart.
	embedded  bool
	container *Container
}

func newCursor(ctx context.Context, root *Root) *Cursor {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Cursor{ctx: ctx, engine: root.engine, root: root}
}

func (c *Cursor) top() *frame {
	if len(c.frames) == 0 {
		panic(&domain.ProtocolError{Instruction: "instruction", Reason: "called outside of a template pass"})
	}
	return c.frames[len(c.frames)-1]
}

func (c *Cursor) push(f *frame) { c.frames = append(c.frames, f) }

// abort resets bookkeeping left behind by a failed pass.
func (c *Cursor) abort() {
	for _, cont := range c.open {
		cont.active = false
	}
	c.open = nil
	c.frames = nil
}

// runTemplate invokes v's template with rf in a fresh frame.
func (c *Cursor) runTemplate(v *View, rf domain.RenderFlags) (err error) {
	depth := len(c.frames)
	f := &frame{view: v, flags: rf}
	c.push(f)
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		switch r := rec.(type) {
		case abortError, *domain.ProtocolError:
			// Already attributed, or a misuse reported as such.
			panic(rec)
		case error:
			err = &domain.TemplateError{View: v.label(), Err: r}
		default:
			err = &domain.TemplateError{View: v.label(), Err: fmt.Errorf("%v", r)}
		}
		c.frames = c.frames[:depth]
	}()
	err = v.template(rf, c, v.ctx)
	if err == nil {
		c.checkClosed(f, depth)
	}
	c.frames = c.frames[:depth]
	if err != nil {
		return templateError(v, err)
	}
	return nil
}

func templateError(v *View, err error) error {
	var te *domain.TemplateError
	if errors.As(err, &te) || errors.Is(err, domain.ErrProtocol) {
		return err
	}
	return &domain.TemplateError{View: v.label(), Err: err}
}

// checkClosed verifies that a template left its frame balanced.
func (c *Cursor) checkClosed(f *frame, depth int) {
	if len(c.frames) != depth+1 || c.frames[depth] != f {
		panic(&domain.ProtocolError{Instruction: "EmbeddedViewEnd", Reason: fmt.Sprintf("missing in view '%s'", f.view.label())})
	}
	if len(f.parents) > 0 {
		panic(&domain.ProtocolError{Instruction: "ElementEnd", Reason: fmt.Sprintf("%d element(s) left open in view '%s'", len(f.parents), f.view.label())})
	}
	if len(f.containers) > 0 {
		cont := f.containers[len(f.containers)-1]
		panic(&domain.ProtocolError{Instruction: "ContainerRefreshEnd", Reason: fmt.Sprintf("missing for container %d in view '%s'", cont.index, f.view.label())})
	}
}

// refreshView runs v's Update pass, then refreshes its child components in document order.
func (c *Cursor) refreshView(v *View) error {
	if v.template != nil {
		if err := c.runTemplate(v, domain.Update); err != nil {
			return err
		}
	}
	for _, child := range v.components {
		if err := c.refreshView(child); err != nil {
			return err
		}
	}
	return nil
}

// attach places a freshly created node under the current parent.
func (c *Cursor) attach(f *frame, s *slot) {
	v := f.view
	if n := len(f.parents); n > 0 {
		v.renderer.AppendChild(f.parents[n-1], s.node)
		return
	}
	v.topLevel = append(v.topLevel, s.index)
	if f.insertRef != nil {
		v.renderer.InsertBefore(v.parentNode, s.node, f.insertRef)
		return
	}
	v.renderer.AppendChild(v.parentNode, s.node)
}

func (f *frame) currentParent() ports.Node {
	if n := len(f.parents); n > 0 {
		return f.parents[n-1]
	}
	return f.view.parentNode
}

// Element implements domain.Instructions.
func (c *Cursor) Element(index int, tag string, attrs ...string) {
	f := c.top()
	if !f.flags.Creating() {
		return
	}
	c.createElement(f, index, tag, attrs, "Element")
}

// ElementStart implements domain.Instructions.
func (c *Cursor) ElementStart(index int, tag string, attrs ...string) {
	f := c.top()
	if !f.flags.Creating() {
		return
	}
	s := c.createElement(f, index, tag, attrs, "ElementStart")
	f.parents = append(f.parents, s.node)
}

// ElementEnd implements domain.Instructions.
func (c *Cursor) ElementEnd() {
	f := c.top()
	if !f.flags.Creating() {
		return
	}
	if len(f.parents) == 0 {
		panic(&domain.ProtocolError{Instruction: "ElementEnd", Reason: "no element opened by ElementStart"})
	}
	f.parents = f.parents[:len(f.parents)-1]
}

func (c *Cursor) createElement(f *frame, index int, tag string, attrs []string, instruction string) *slot {
	if len(attrs)%2 != 0 {
		panic(&domain.ProtocolError{Instruction: instruction, Reason: fmt.Sprintf("odd attribute list for <%s>", tag)})
	}
	v := f.view
	s := &slot{index: index, kind: domain.SlotElement, tag: tag}
	v.setSlot(s, instruction)
	s.node = v.renderer.CreateElement(tag)
	for i := 0; i < len(attrs); i += 2 {
		v.renderer.SetAttribute(s.node, attrs[i], attrs[i+1])
		s.setAttr(attrs[i], attrs[i+1])
	}
	c.attach(f, s)

	if def, ok := c.root.registry[tag]; ok {
		c.createComponent(v, s, def)
	}
	return s
}

// createComponent instantiates def on the host element of s and runs its Create pass.
func (c *Cursor) createComponent(parent *View, s *slot, def *domain.ComponentDef) {
	depth := childDepth(parent)
	e := c.engine
	id := e.newViewID()
	instance := def.NewInstance()
	rr := e.createRenderer(c.ctx, s.node, def.RendererType(), id)

	cv := &View{
		id:           id,
		kind:         domain.ViewComponent,
		name:         def.Name,
		decls:        def.Decls,
		template:     def.Template,
		ctx:          instance,
		renderer:     rr,
		ownsRenderer: true,
		rendererType: def.RendererType(),
		parentNode:   s.node,
		depth:        depth,
	}
	s.kind = domain.SlotComponent
	s.component = cv
	parent.components = append(parent.components, cv)
	e.viewCreated(c.ctx, cv)

	if err := c.runTemplate(cv, domain.Create); err != nil {
		panic(abortError{err: err})
	}
	cv.created = true
}

// MaxViewDepth bounds view nesting. Creating a view deeper than this aborts the pass
// with domain.ErrViewDepth before the goroutine stack is exhausted.
const MaxViewDepth = 256

func childDepth(parent *View) int {
	d := parent.depth + 1
	if d > MaxViewDepth {
		panic(abortError{err: fmt.Errorf("%w: more than %d nested views below '%s'", domain.ErrViewDepth, MaxViewDepth, parent.label())})
	}
	return d
}

// Text implements domain.Instructions.
func (c *Cursor) Text(index int, value string) {
	f := c.top()
	if !f.flags.Creating() {
		return
	}
	v := f.view
	s := &slot{index: index, kind: domain.SlotText, text: value}
	v.setSlot(s, "Text")
	s.node = v.renderer.CreateText(value)
	c.attach(f, s)
}

// Attribute implements domain.Instructions.
func (c *Cursor) Attribute(index int, name, value string) {
	f := c.top()
	if !f.flags.Creating() {
		return
	}
	s := c.elementSlot(f.view, index, "Attribute")
	f.view.renderer.SetAttribute(s.node, name, value)
	s.setAttr(name, value)
}

// Container implements domain.Instructions.
func (c *Cursor) Container(index int) {
	f := c.top()
	if !f.flags.Creating() {
		return
	}
	v := f.view
	s := &slot{index: index, kind: domain.SlotContainer}
	v.setSlot(s, "Container")
	s.node = v.renderer.CreateText("")
	s.container = &Container{
		index:      index,
		owner:      v,
		parentNode: f.currentParent(),
		anchor:     s.node,
	}
	c.attach(f, s)
}

// TextBinding implements domain.Instructions.
func (c *Cursor) TextBinding(index int, value string) {
	f := c.top()
	s := f.view.slotAt(index, "TextBinding")
	if s.kind != domain.SlotText {
		panic(&domain.ProtocolError{Instruction: "TextBinding", Reason: fmt.Sprintf("slot %d is a %s, not a text node", index, s.kind)})
	}
	if s.text == value {
		return
	}
	f.view.renderer.SetText(s.node, value)
	s.text = value
}

// AttributeBinding implements domain.Instructions.
func (c *Cursor) AttributeBinding(index int, name, value string) {
	f := c.top()
	s := c.elementSlot(f.view, index, "AttributeBinding")
	if old, ok := s.attrs[name]; ok && old == value {
		return
	}
	f.view.renderer.SetAttribute(s.node, name, value)
	s.setAttr(name, value)
}

func (c *Cursor) elementSlot(v *View, index int, instruction string) *slot {
	s := v.slotAt(index, instruction)
	if s.kind != domain.SlotElement && s.kind != domain.SlotComponent {
		panic(&domain.ProtocolError{Instruction: instruction, Reason: fmt.Sprintf("slot %d is a %s, not an element", index, s.kind)})
	}
	return s
}

func (s *slot) setAttr(name, value string) {
	if s.attrs == nil {
		s.attrs = make(map[string]string)
	}
	s.attrs[name] = value
}
