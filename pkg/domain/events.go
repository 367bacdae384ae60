package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPassBegin       EventType = "pass_begin"
	EventPassEnd         EventType = "pass_end"
	EventViewCreate      EventType = "view_create"
	EventViewDestroy     EventType = "view_destroy"
	EventRendererCreate  EventType = "renderer_create"
	EventRendererDestroy EventType = "renderer_destroy"
)

// ViewKind tells where a view sits in the tree.
type ViewKind string

const (
	ViewRoot      ViewKind = "root"
	ViewComponent ViewKind = "component"
	ViewEmbedded  ViewKind = "embedded"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PassEvent brackets one root-level refresh.
type PassEvent struct {
	EventBase
	Pass uint64 `json:"pass"`
	// Err is set on EventPassEnd when the pass aborted.
	Err error `json:"-"`
}

// ViewEvent represents the creation or destruction of a view.
type ViewEvent struct {
	EventBase
	ViewID string   `json:"view_id"`
	Kind   ViewKind `json:"kind"`
	Name   string   `json:"name,omitempty"`
}

// RendererEvent represents a renderer obtained from or released to the factory.
type RendererEvent struct {
	EventBase
	ViewID string        `json:"view_id"`
	Type   *RendererType `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnPassBegin       func(context.Context, *PassEvent)
	OnPassEnd         func(context.Context, *PassEvent)
	OnViewCreate      func(context.Context, *ViewEvent)
	OnViewDestroy     func(context.Context, *ViewEvent)
	OnRendererCreate  func(context.Context, *RendererEvent)
	OnRendererDestroy func(context.Context, *RendererEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPassBegin:       chain(h.OnPassBegin, other.OnPassBegin),
		OnPassEnd:         chain(h.OnPassEnd, other.OnPassEnd),
		OnViewCreate:      chain(h.OnViewCreate, other.OnViewCreate),
		OnViewDestroy:     chain(h.OnViewDestroy, other.OnViewDestroy),
		OnRendererCreate:  chain(h.OnRendererCreate, other.OnRendererCreate),
		OnRendererDestroy: chain(h.OnRendererDestroy, other.OnRendererDestroy),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
