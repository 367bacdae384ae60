package dsl

import (
	"fmt"

	"github.com/aretw0/arbor/pkg/blueprint"
	"github.com/aretw0/arbor/pkg/domain"
)

// Builder manages the blueprint construction.
type Builder struct {
	bp         blueprint.Blueprint
	components []*ComponentBuilder
}

// New creates a new blueprint builder.
func New(name string) *Builder {
	return &Builder{bp: blueprint.Blueprint{Name: name}}
}

// Context adds a default context value.
func (b *Builder) Context(key string, value any) *Builder {
	if b.bp.Context == nil {
		b.bp.Context = make(map[string]any)
	}
	b.bp.Context[key] = value
	return b
}

// Template appends nodes to the root template.
func (b *Builder) Template(children ...*NodeBuilder) *Builder {
	b.bp.Template = append(b.bp.Template, nodes(children)...)
	return b
}

// Component declares a component.
// If the selector already exists, it returns the existing builder.
func (b *Builder) Component(selector string) *ComponentBuilder {
	for _, cb := range b.components {
		if cb.comp.Selector == selector {
			return cb
		}
	}
	cb := &ComponentBuilder{comp: blueprint.Component{Selector: selector}}
	b.components = append(b.components, cb)
	return cb
}

// Blueprint returns the declared blueprint.
func (b *Builder) Blueprint() *blueprint.Blueprint {
	bp := b.bp
	bp.Components = make([]blueprint.Component, 0, len(b.components))
	for _, cb := range b.components {
		bp.Components = append(bp.Components, cb.comp)
	}
	return &bp
}

// Build compiles the blueprint.
func (b *Builder) Build() (*blueprint.Program, error) {
	prog, err := blueprint.Compile(b.Blueprint())
	if err != nil {
		return nil, fmt.Errorf("failed to build blueprint '%s': %w", b.bp.Name, err)
	}
	return prog, nil
}

// ComponentBuilder provides a fluent API for configuring a component.
type ComponentBuilder struct {
	comp blueprint.Component
}

// Name sets the component type name. Defaults to the selector.
func (c *ComponentBuilder) Name(name string) *ComponentBuilder {
	c.comp.Name = name
	return c
}

// Encapsulation sets the isolation mode.
func (c *ComponentBuilder) Encapsulation(e domain.Encapsulation) *ComponentBuilder {
	c.comp.Encapsulation = string(e)
	return c
}

// Styles appends style sheets.
func (c *ComponentBuilder) Styles(css ...string) *ComponentBuilder {
	c.comp.Styles = append(c.comp.Styles, css...)
	return c
}

// Data seeds a context value for every instance.
func (c *ComponentBuilder) Data(key string, value any) *ComponentBuilder {
	if c.comp.Data == nil {
		c.comp.Data = make(map[string]any)
	}
	c.comp.Data[key] = value
	return c
}

// Template appends nodes to the component template.
func (c *ComponentBuilder) Template(children ...*NodeBuilder) *ComponentBuilder {
	c.comp.Template = append(c.comp.Template, nodes(children)...)
	return c
}
