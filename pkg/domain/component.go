package domain

import "fmt"

// TemplateFunc is the compiled body of a view.
// It is invoked with the flags of the current pass, the instruction handle of the
// view being rendered and the view context (a component instance or a caller value).
type TemplateFunc func(rf RenderFlags, in Instructions, ctx any) error

// Instructions is the instruction set exposed to templates.
//
// Slot indices are local to the view being rendered. Creation instructions are
// no-ops when the view is not in creation mode; binding instructions write to the
// renderer only when the bound value changed.
type Instructions interface {
	// Element creates an element with no children. attrs are name/value pairs.
	Element(index int, tag string, attrs ...string)
	// ElementStart creates an element and makes it the parent of the following nodes.
	ElementStart(index int, tag string, attrs ...string)
	// ElementEnd closes the most recent ElementStart.
	ElementEnd()
	// Text creates a text node with an initial value.
	Text(index int, value string)
	// Attribute sets a static attribute on an element created in this pass.
	Attribute(index int, name, value string)
	// Container declares an anchor for embedded views.
	Container(index int)

	// TextBinding updates the value of a text node.
	TextBinding(index int, value string)
	// AttributeBinding updates an attribute of an element.
	AttributeBinding(index int, name, value string)

	// ContainerRefreshStart begins the reconciliation of a container.
	ContainerRefreshStart(index int)
	// ContainerRefreshEnd destroys every embedded view not revisited since the matching start.
	ContainerRefreshEnd()
	// EmbeddedViewStart reuses or creates the embedded view at the container cursor.
	// It returns Create|Update for a new view and Update for a reused one.
	EmbeddedViewStart(blockID, decls int) RenderFlags
	// EmbeddedViewEnd completes the embedded view opened by EmbeddedViewStart.
	EmbeddedViewEnd()
	// EmbeddedView runs tmpl as the embedded view at the container cursor.
	EmbeddedView(blockID, decls int, tmpl TemplateFunc, ctx any) error
}

// ComponentDef declares a component kind.
type ComponentDef struct {
	// Name is the type identity. Defaults to Selector.
	Name string
	// Selector is the element tag that hosts the component.
	Selector      string
	Encapsulation Encapsulation
	Styles        []string
	// Decls and Vars are the declared static slot and binding counts.
	Decls    int
	Vars     int
	Template TemplateFunc
	// Factory creates the component instance passed to Template as ctx.
	Factory func() any

	rendererType *RendererType
}

// DefineComponent validates def and freezes its RendererType.
// It panics on an incomplete declaration, as it is meant for package-level variables.
func DefineComponent(def ComponentDef) *ComponentDef {
	if def.Selector == "" {
		panic("component definition requires a selector")
	}
	if def.Template == nil {
		panic(fmt.Sprintf("component %q has no template", def.Selector))
	}
	if def.Name == "" {
		def.Name = def.Selector
	}
	if def.Encapsulation == "" {
		def.Encapsulation = EncapsulationEmulated
	}
	styles := append([]string(nil), def.Styles...)
	def.rendererType = &RendererType{
		ID:            def.Name,
		Encapsulation: def.Encapsulation,
		Styles:        styles,
		Data:          map[string]any{"selector": def.Selector},
	}
	return &def
}

// RendererType returns the boundary description shared by all instances of d.
func (d *ComponentDef) RendererType() *RendererType {
	return d.rendererType
}

// NewInstance runs the declared factory. A nil factory yields a nil instance.
func (d *ComponentDef) NewInstance() any {
	if d.Factory == nil {
		return nil
	}
	return d.Factory()
}

// RootDef declares a root view: its template, the components its tree may
// instantiate and the context handed to the template.
type RootDef struct {
	Name       string
	Template   TemplateFunc
	Decls      int
	Vars       int
	Components []*ComponentDef
	Context    any
}
