/*
Package arbor is an instruction-driven view engine.

Templates are plain Go functions that issue instructions (create an element, bind a
text node, reconcile a container of embedded views) against a Cursor. The engine runs
every template in two passes, Create the first time a view exists and Update on every
refresh, and drives an abstract Renderer obtained from a RendererFactory, one per
component boundary.

# Usage

Views can be written directly as templates, or declared as blueprints in YAML or with
the dsl package:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/arbor"
		"github.com/aretw0/arbor/pkg/dsl"
	)

	func main() {
		b := dsl.New("hello")
		b.Template(dsl.El("p", dsl.Text("Hello, {{name}}!")))
		prog, err := b.Build()
		if err != nil {
			log.Fatal(err)
		}

		eng, _ := arbor.New()
		root, err := eng.RenderProgram(context.Background(), prog, map[string]any{"name": "arbor"})
		if err != nil {
			log.Fatal(err)
		}
		out, _ := root.HTML()
		fmt.Println(out) // <p>Hello, arbor!</p>
	}

# Renderers

The default factory renders into golang.org/x/net/html trees (see pkg/adapters/dom).
Any type implementing ports.RendererFactory can be injected with WithRendererFactory;
factories that implement ports.PassBracketer are notified around every refresh.
Middlewares from pkg/renderer/middleware record or log renderer traffic.
*/
package arbor
