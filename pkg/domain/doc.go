/*
Package domain contains the core models of the Arbor view engine.

It defines what a template is, how a component is declared and which counters and events
the engine exposes. This package is kept pure and free of rendering backends, following
Hexagonal Architecture principles: concrete renderers live behind the interfaces in
package ports.

# Key Entities

  - RenderFlags: the closed Create/Update pair a template function branches on.
  - Instructions: the instruction set a template drives during a pass.
  - ComponentDef: a component declaration (selector, encapsulation, template, factory).
  - RendererType: the immutable encapsulation description shared by one component kind.
  - Stats: diagnostic counters of completed renderer calls.
  - LifecycleHooks: callbacks for engine observability.
*/
package domain
