package runtime

import (
	"context"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Root is a rendered root view bound to a host node.
type Root struct {
	engine    *Engine
	host      ports.Node
	view      *View
	registry  map[string]*domain.ComponentDef
	destroyed bool
}

// Host returns the node the root view renders into.
func (r *Root) Host() ports.Node { return r.host }

// Context returns the context handed to the root template.
func (r *Root) Context() any { return r.view.ctx }

// SetContext replaces the context used by subsequent refreshes.
func (r *Root) SetContext(ctx any) { r.view.ctx = ctx }

// Refresh runs one Update pass over the whole tree.
//
// If the factory implements ports.PassBracketer, Begin is called before any view work
// and End after all of it, on every exit path.
func (r *Root) Refresh(ctx context.Context) (err error) {
	if r.destroyed {
		return domain.ErrRootDestroyed
	}
	e := r.engine
	pass := uint64(e.stats.passes.Add(1))

	bracket, _ := e.factory.(ports.PassBracketer)
	if bracket != nil {
		bracket.Begin()
	}
	if e.hooks.OnPassBegin != nil {
		e.hooks.OnPassBegin(ctx, &domain.PassEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPassBegin},
			Pass:      pass,
		})
	}
	e.logger.Debug("Pass begin", "pass", pass)
	defer func() {
		if bracket != nil {
			bracket.End()
		}
		if e.hooks.OnPassEnd != nil {
			e.hooks.OnPassEnd(ctx, &domain.PassEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPassEnd},
				Pass:      pass,
				Err:       err,
			})
		}
		if err != nil {
			e.logger.Warn("Pass aborted", "pass", pass, "error", err)
		} else {
			e.logger.Debug("Pass end", "pass", pass)
		}
	}()

	c := newCursor(ctx, r)
	return e.guard(c, func() error {
		return c.refreshView(r.view)
	})
}

// Destroy tears the whole tree down: root nodes are detached from the host, every
// view is destroyed depth-first and finally the root renderer is released.
func (r *Root) Destroy(ctx context.Context) error {
	if r.destroyed {
		return domain.ErrRootDestroyed
	}
	r.destroyed = true
	c := newCursor(ctx, r)
	return r.engine.guard(c, func() error {
		c.detach(r.view, r.host)
		c.destroyView(r.view)
		return nil
	})
}

// Inspect describes the live tree.
func (r *Root) Inspect() domain.ViewInfo {
	return describe(r.view)
}
