package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Engine drives create, update and destroy passes over view trees and sequences
// the resulting calls to renderers obtained from one factory.
type Engine struct {
	factory ports.RendererFactory
	logger  *slog.Logger
	hooks   domain.LifecycleHooks

	stats  counters
	nextID atomic.Uint64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine rendering through factory.
func NewEngine(factory ports.RendererFactory, opts ...EngineOption) *Engine {
	e := &Engine{
		factory: factory,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats returns a snapshot of the diagnostic counters.
func (e *Engine) Stats() domain.Stats {
	return e.stats.snapshot()
}

// ResetStats zeroes the diagnostic counters.
func (e *Engine) ResetStats() {
	e.stats.reset()
}

// CreateRoot materializes def under host. It obtains the root renderer, runs the
// template once with Create and then performs the first Update pass.
// The factory's Begin/End hooks are not invoked for this initial render.
func (e *Engine) CreateRoot(ctx context.Context, host ports.Node, def domain.RootDef) (*Root, error) {
	if def.Template == nil {
		return nil, fmt.Errorf("root definition has no template")
	}
	registry := make(map[string]*domain.ComponentDef, len(def.Components))
	for _, comp := range def.Components {
		if comp == nil {
			continue
		}
		if prev, ok := registry[comp.Selector]; ok && prev != comp {
			return nil, fmt.Errorf("selector '%s' registered twice (%s, %s)", comp.Selector, prev.Name, comp.Name)
		}
		registry[comp.Selector] = comp
	}

	root := &Root{engine: e, host: host, registry: registry}
	c := newCursor(ctx, root)
	err := e.guard(c, func() error {
		id := e.newViewID()
		rr := e.createRenderer(ctx, host, nil, id)
		v := &View{
			id:           id,
			kind:         domain.ViewRoot,
			name:         def.Name,
			decls:        def.Decls,
			template:     def.Template,
			ctx:          def.Context,
			renderer:     rr,
			ownsRenderer: true,
			parentNode:   host,
		}
		root.view = v
		e.viewCreated(ctx, v)

		if err := c.runTemplate(v, domain.Create); err != nil {
			return err
		}
		v.created = true
		return c.refreshView(v)
	})
	if err != nil {
		e.logger.Warn("Root render aborted", "root", def.Name, "error", err)
		return nil, err
	}
	return root, nil
}

func (e *Engine) newViewID() string {
	return "v" + strconv.FormatUint(e.nextID.Add(1), 10)
}

// createRenderer asks the factory for a renderer and counts the call once it returned.
func (e *Engine) createRenderer(ctx context.Context, host ports.Node, typ *domain.RendererType, viewID string) *trackedRenderer {
	r := e.factory.CreateRenderer(host, typ)
	if r == nil {
		panic(fmt.Errorf("renderer factory returned no renderer for view %s", viewID))
	}
	e.stats.rendererCreate.Add(1)
	if e.hooks.OnRendererCreate != nil {
		e.hooks.OnRendererCreate(ctx, &domain.RendererEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRendererCreate},
			ViewID:    viewID,
			Type:      typ,
		})
	}
	return &trackedRenderer{inner: r, stats: &e.stats}
}

func (e *Engine) rendererDestroyed(ctx context.Context, v *View) {
	if e.hooks.OnRendererDestroy != nil {
		e.hooks.OnRendererDestroy(ctx, &domain.RendererEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRendererDestroy},
			ViewID:    v.id,
			Type:      v.rendererType,
		})
	}
}

func (e *Engine) viewCreated(ctx context.Context, v *View) {
	e.stats.viewsCreated.Add(1)
	e.logger.Debug("View created", "view_id", v.id, "kind", v.kind, "name", v.name)
	if e.hooks.OnViewCreate != nil {
		e.hooks.OnViewCreate(ctx, e.viewEvent(domain.EventViewCreate, v))
	}
}

func (e *Engine) viewDestroyed(ctx context.Context, v *View) {
	e.stats.viewsDestroyed.Add(1)
	e.logger.Debug("View destroyed", "view_id", v.id, "kind", v.kind, "name", v.name)
	if e.hooks.OnViewDestroy != nil {
		e.hooks.OnViewDestroy(ctx, e.viewEvent(domain.EventViewDestroy, v))
	}
}

func (e *Engine) viewEvent(t domain.EventType, v *View) *domain.ViewEvent {
	return &domain.ViewEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t},
		ViewID:    v.id,
		Kind:      v.kind,
		Name:      v.name,
	}
}

// guard runs fn and turns a panic raised by an instruction, a renderer or template
// code into an error. On failure, containers left mid-refresh are reset.
func (e *Engine) guard(c *Cursor, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = recovered(rec)
		}
		if err != nil {
			c.abort()
		}
	}()
	return fn()
}

// abortError carries an error raised below an instruction up to the pass boundary.
type abortError struct {
	err error
}

func recovered(rec any) error {
	switch v := rec.(type) {
	case abortError:
		return v.err
	case *domain.ProtocolError:
		return v
	case error:
		return fmt.Errorf("render pass aborted: %w", v)
	default:
		return fmt.Errorf("render pass aborted: %v", v)
	}
}
