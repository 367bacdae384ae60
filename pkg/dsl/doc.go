/*
Package dsl provides a Go DSL for building arbor blueprints programmatically.

It produces the same blueprint.Blueprint a YAML document would decode to, so views
can be declared with a type-checked fluent API instead of external files:

	b := dsl.New("todo")
	b.Context("title", "Today")

	b.Component("todo-footer").
		Encapsulation(domain.EncapsulationNone).
		Data("note", "done").
		Template(dsl.El("small", dsl.Text("{{note}}")))

	b.Template(
		dsl.El("h1", dsl.Text("{{title}}")),
		dsl.El("ul",
			dsl.Each("items", "item",
				dsl.El("li", dsl.Text("{{item.title}}")).Attr("class", "{{item.state}}"),
			),
		),
		dsl.If("!items", dsl.Text("nothing to do")).Else(dsl.Use("todo-footer")),
	)

	prog, err := b.Build()
	// ... prog.RootDef(ctx) can be mounted by the engine
*/
package dsl
