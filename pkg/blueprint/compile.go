package blueprint

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Program is a compiled Blueprint.
type Program struct {
	Name       string
	Components []*domain.ComponentDef
	// Context holds the defaults merged under every render context.
	Context map[string]any

	root *block
}

// Template returns the root template.
func (p *Program) Template() domain.TemplateFunc { return p.root.tmpl }

// Decls returns the slot count of the root view.
func (p *Program) Decls() int { return p.root.decls }

// RootDef builds a root definition rendering p with ctx layered over the defaults.
func (p *Program) RootDef(ctx map[string]any) domain.RootDef {
	return domain.RootDef{
		Name:       p.Name,
		Template:   p.root.tmpl,
		Decls:      p.root.decls,
		Components: p.Components,
		Context:    p.MergeContext(ctx),
	}
}

// MergeContext returns a copy of the defaults overlaid with ctx.
func (p *Program) MergeContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(p.Context)+len(ctx))
	maps.Copy(out, p.Context)
	maps.Copy(out, ctx)
	return out
}

type opKind int

const (
	opElement opKind = iota
	opText
	opIf
	opEach
)

type op struct {
	kind  opKind
	index int

	tag      string
	attrs    []string
	bound    []boundAttr
	children []op

	text interp

	cond   condition
	then   *block
	orElse *block

	each string
	as   string
	body *block
}

type boundAttr struct {
	name  string
	value interp
}

// block is the compiled template of one view.
type block struct {
	decls int
	ops   []op
	tmpl  domain.TemplateFunc
}

func (b *block) next() int {
	i := b.decls
	b.decls++
	return i
}

type compiler struct {
	selectors map[string]bool
	// self is the selector of the component being compiled.
	self string
	// nested counts the if/each bodies enclosing the current node.
	nested int
	// uses maps a selector ("" for the root template) to the components it renders
	// outside any if/each body.
	uses map[string][]string
}

// Compile validates bp and compiles its templates.
func Compile(bp *Blueprint) (*Program, error) {
	if bp == nil {
		return nil, fmt.Errorf("nil blueprint")
	}
	c := &compiler{
		selectors: make(map[string]bool, len(bp.Components)),
		uses:      make(map[string][]string),
	}
	for i, comp := range bp.Components {
		if comp.Selector == "" {
			return nil, fmt.Errorf("components[%d]: selector is required", i)
		}
		if c.selectors[comp.Selector] {
			return nil, fmt.Errorf("components[%d]: selector '%s' declared twice", i, comp.Selector)
		}
		c.selectors[comp.Selector] = true
	}

	prog := &Program{Name: bp.Name, Context: bp.Context}
	for i, comp := range bp.Components {
		enc, err := domain.ParseEncapsulation(comp.Encapsulation)
		if err != nil {
			return nil, fmt.Errorf("component '%s': %w", comp.Selector, err)
		}
		c.self = comp.Selector
		body, err := c.block(comp.Template, fmt.Sprintf("components[%d].template", i))
		if err != nil {
			return nil, err
		}
		data := comp.Data
		prog.Components = append(prog.Components, domain.DefineComponent(domain.ComponentDef{
			Name:          comp.Name,
			Selector:      comp.Selector,
			Encapsulation: enc,
			Styles:        comp.Styles,
			Decls:         body.decls,
			Template:      body.tmpl,
			Factory: func() any {
				return maps.Clone(data)
			},
		}))
	}
	if err := c.checkCycles(bp.Components); err != nil {
		return nil, err
	}

	c.self = ""
	root, err := c.block(bp.Template, "template")
	if err != nil {
		return nil, err
	}
	prog.root = root
	return prog, nil
}

// checkCycles rejects components that render themselves, directly or through other
// components, outside any if/each body. Such a tree never stops growing.
func (c *compiler) checkCycles(comps []Component) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(comps))
	var path []string

	var visit func(sel string) error
	visit = func(sel string) error {
		switch state[sel] {
		case done:
			return nil
		case visiting:
			start := slices.Index(path, sel)
			cycle := append(slices.Clone(path[start:]), sel)
			return fmt.Errorf("component '%s' renders itself unconditionally: %s", sel, strings.Join(cycle, " -> "))
		}
		state[sel] = visiting
		path = append(path, sel)
		for _, next := range c.uses[sel] {
			if err := visit(next); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[sel] = done
		return nil
	}

	for _, comp := range comps {
		if err := visit(comp.Selector); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) block(nodes []Node, where string) (*block, error) {
	b := &block{}
	ops, err := c.nodes(b, nodes, where)
	if err != nil {
		return nil, err
	}
	b.ops = ops
	b.tmpl = b.template()
	return b, nil
}

func (c *compiler) nodes(b *block, nodes []Node, where string) ([]op, error) {
	ops := make([]op, 0, len(nodes))
	for i, n := range nodes {
		o, err := c.node(b, n, fmt.Sprintf("%s[%d]", where, i))
		if err != nil {
			return nil, err
		}
		ops = append(ops, o)
	}
	return ops, nil
}

func (c *compiler) node(b *block, n Node, at string) (op, error) {
	kind := n.Kind()
	if kind != KindIf && len(n.Else) > 0 {
		return op{}, fmt.Errorf("%s: 'else' is only valid on 'if'", at)
	}
	if kind != KindEach && n.As != "" {
		return op{}, fmt.Errorf("%s: 'as' is only valid on 'each'", at)
	}
	if kind != KindElement && kind != KindComponent && len(n.Attrs) > 0 {
		return op{}, fmt.Errorf("%s: 'attrs' is only valid on elements", at)
	}

	switch kind {
	case KindElement, KindComponent:
		return c.element(b, n, kind, at)

	case KindText:
		if len(n.Children) > 0 {
			return op{}, fmt.Errorf("%s: text nodes have no children", at)
		}
		text, err := parseInterp(*n.Text)
		if err != nil {
			return op{}, fmt.Errorf("%s: %w", at, err)
		}
		return op{kind: opText, index: b.next(), text: text}, nil

	case KindIf:
		o := op{kind: opIf, index: b.next(), cond: parseCondition(n.If)}
		if o.cond.path == "" {
			return op{}, fmt.Errorf("%s: empty condition", at)
		}
		c.nested++
		defer func() { c.nested-- }()
		var err error
		if o.then, err = c.block(n.Children, at+".children"); err != nil {
			return op{}, err
		}
		if len(n.Else) > 0 {
			if o.orElse, err = c.block(n.Else, at+".else"); err != nil {
				return op{}, err
			}
		}
		return o, nil

	case KindEach:
		o := op{kind: opEach, index: b.next(), each: n.Each, as: n.As}
		if o.as == "" {
			o.as = "item"
		}
		c.nested++
		defer func() { c.nested-- }()
		var err error
		if o.body, err = c.block(n.Children, at+".children"); err != nil {
			return op{}, err
		}
		return o, nil
	}
	return op{}, fmt.Errorf("%s: node must declare exactly one of element, component, text, if, each", at)
}

func (c *compiler) element(b *block, n Node, kind NodeKind, at string) (op, error) {
	tag := n.Element
	if kind == KindComponent {
		tag = n.Component
		if !c.selectors[tag] {
			return op{}, fmt.Errorf("%s: unknown component '%s'", at, tag)
		}
	}
	o := op{kind: opElement, index: b.next(), tag: tag}

	if c.selectors[tag] {
		if len(n.Children) > 0 {
			return op{}, fmt.Errorf("%s: component '%s' takes no children", at, tag)
		}
		if c.nested == 0 {
			c.uses[c.self] = append(c.uses[c.self], tag)
		}
	}

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, err := parseInterp(n.Attrs[name])
		if err != nil {
			return op{}, fmt.Errorf("%s: attribute %s: %w", at, name, err)
		}
		if s, ok := value.static(); ok {
			o.attrs = append(o.attrs, name, s)
			continue
		}
		o.bound = append(o.bound, boundAttr{name: name, value: value})
	}

	var err error
	if o.children, err = c.nodes(b, n.Children, at+".children"); err != nil {
		return op{}, err
	}
	return o, nil
}

func (b *block) template() domain.TemplateFunc {
	return func(rf domain.RenderFlags, in domain.Instructions, ctx any) error {
		if rf.Creating() {
			create(in, b.ops)
		}
		if rf.Updating() {
			return update(in, asScope(ctx), b.ops)
		}
		return nil
	}
}

func create(in domain.Instructions, ops []op) {
	for _, o := range ops {
		switch o.kind {
		case opElement:
			if len(o.children) == 0 {
				in.Element(o.index, o.tag, o.attrs...)
				continue
			}
			in.ElementStart(o.index, o.tag, o.attrs...)
			create(in, o.children)
			in.ElementEnd()
		case opText:
			s, _ := o.text.static()
			in.Text(o.index, s)
		case opIf, opEach:
			in.Container(o.index)
		}
	}
}

func update(in domain.Instructions, s *scope, ops []op) error {
	for _, o := range ops {
		switch o.kind {
		case opElement:
			for _, a := range o.bound {
				in.AttributeBinding(o.index, a.name, a.value.render(s))
			}
			if err := update(in, s, o.children); err != nil {
				return err
			}

		case opText:
			if _, ok := o.text.static(); !ok {
				in.TextBinding(o.index, o.text.render(s))
			}

		case opIf:
			in.ContainerRefreshStart(o.index)
			var err error
			switch {
			case o.cond.eval(s):
				err = in.EmbeddedView(0, o.then.decls, o.then.tmpl, s)
			case o.orElse != nil:
				err = in.EmbeddedView(1, o.orElse.decls, o.orElse.tmpl, s)
			}
			if err != nil {
				return err
			}
			in.ContainerRefreshEnd()

		case opEach:
			list, err := items(s, o.each)
			if err != nil {
				return err
			}
			in.ContainerRefreshStart(o.index)
			for i, item := range list {
				vars := map[string]any{o.as: item, "$index": i}
				if err := in.EmbeddedView(0, o.body.decls, o.body.tmpl, s.child(vars)); err != nil {
					return err
				}
			}
			in.ContainerRefreshEnd()
		}
	}
	return nil
}
