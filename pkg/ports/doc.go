/*
Package ports defines the driven ports (interfaces) of the Arbor view engine.

These interfaces decouple the engine from concrete rendering backends. The engine never
constructs output nodes itself; it only sequences calls to a Renderer.

# Key Interfaces

  - Renderer: primitive node mutations against one encapsulation boundary.
  - RendererFactory: produces one Renderer per boundary.
  - PassBracketer: optional Begin/End hooks a factory may implement to observe refreshes.
  - ViewCache: serialized markup storage used by the view servers.

RunRendererContract and RunViewCacheContract let adapters verify themselves against
these interfaces.
*/
package ports
