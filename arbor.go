package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/adapters/dom"
	"github.com/aretw0/arbor/pkg/blueprint"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/renderer/middleware"
)

// Engine is the high-level entry point for the arbor library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	factory     ports.RendererFactory
	doc         *dom.Factory
	middlewares []middleware.Middleware
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	library     *blueprint.Library
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMetrics feeds m from the engine lifecycle.
func WithMetrics(m *observability.Metrics) Option {
	return WithLifecycleHooks(m.Hooks())
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRendererFactory replaces the default html renderer factory.
func WithRendererFactory(f ports.RendererFactory) Option {
	return func(e *Engine) {
		e.factory = f
	}
}

// WithMiddleware wraps the renderer factory. The first middleware is the outermost.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// WithLibrary sets the blueprints available to Render.
func WithLibrary(lib *blueprint.Library) Option {
	return func(e *Engine) {
		e.library = lib
	}
}

// New initializes a new arbor Engine.
// By default it renders into golang.org/x/net/html trees.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.factory == nil {
		eng.doc = dom.NewFactory(dom.WithLogger(eng.logger))
		eng.factory = eng.doc
	}
	if eng.library == nil {
		eng.library = blueprint.NewLibrary()
	}

	factory := middleware.Chain(eng.factory, eng.middlewares...)
	eng.runtime = runtime.NewEngine(factory,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
	)
	return eng, nil
}

// Mount renders def into host and returns the live root.
func (e *Engine) Mount(ctx context.Context, host ports.Node, def domain.RootDef) (*Root, error) {
	r, err := e.runtime.CreateRoot(ctx, host, def)
	if err != nil {
		return nil, err
	}
	return &Root{Root: r}, nil
}

// Render mounts the named blueprint into a fresh <body> host.
// It requires the default html renderer.
func (e *Engine) Render(ctx context.Context, name string, vars map[string]any) (*Root, error) {
	prog, err := e.library.Get(name)
	if err != nil {
		return nil, err
	}
	return e.RenderProgram(ctx, prog, vars)
}

// RenderProgram mounts prog into a fresh <body> host.
func (e *Engine) RenderProgram(ctx context.Context, prog *blueprint.Program, vars map[string]any) (*Root, error) {
	if e.doc == nil {
		return nil, fmt.Errorf("rendering blueprint '%s' requires the html renderer; use Mount with a custom host", prog.Name)
	}
	host := e.doc.NewHost("body")
	root, err := e.Mount(ctx, host, prog.RootDef(vars))
	if err != nil {
		// A failed root is unreachable; drop what it built so Live stays accurate.
		if n := e.doc.Abandon(host); n > 0 {
			e.logger.Debug("Abandoned nodes of failed root", "view", prog.Name, "nodes", n)
		}
		return nil, err
	}
	root.program = prog
	return root, nil
}

// Library returns the blueprints available to Render.
func (e *Engine) Library() *blueprint.Library { return e.library }

// Names lists the blueprints available to Render.
func (e *Engine) Names() []string { return e.library.Names() }

// Document returns the default html factory, or nil when a custom factory is used.
func (e *Engine) Document() *dom.Factory { return e.doc }

// Stats returns a snapshot of the renderer counters.
func (e *Engine) Stats() domain.Stats { return e.runtime.Stats() }

// ResetStats zeroes the renderer counters.
func (e *Engine) ResetStats() { e.runtime.ResetStats() }

// Root is a mounted view tree.
type Root struct {
	*runtime.Root
	program *blueprint.Program
}

// Update replaces the context of a blueprint root and refreshes it.
// vars are layered over the blueprint defaults.
func (r *Root) Update(ctx context.Context, vars map[string]any) error {
	if r.program != nil {
		r.SetContext(r.program.MergeContext(vars))
	} else {
		r.SetContext(vars)
	}
	return r.Refresh(ctx)
}

// HTML serializes the children of the host. The host must be an html node.
func (r *Root) HTML() (string, error) {
	return dom.Serialize(r.Host())
}
