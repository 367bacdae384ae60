package runtime

import (
	"sync/atomic"

	"github.com/aretw0/arbor/pkg/domain"
)

// counters backs domain.Stats. Fields are atomic so a metrics scrape may read them
// while a pass is running; the engine itself is single-threaded.
type counters struct {
	rendererCreate      atomic.Int64
	rendererDestroy     atomic.Int64
	rendererDestroyNode atomic.Int64
	createElement       atomic.Int64
	createText          atomic.Int64
	appendChild         atomic.Int64
	insertBefore        atomic.Int64
	removeChild         atomic.Int64
	setAttribute        atomic.Int64
	setText             atomic.Int64
	viewsCreated        atomic.Int64
	viewsDestroyed      atomic.Int64
	passes              atomic.Int64
}

func (c *counters) snapshot() domain.Stats {
	return domain.Stats{
		RendererCreate:      c.rendererCreate.Load(),
		RendererDestroy:     c.rendererDestroy.Load(),
		RendererDestroyNode: c.rendererDestroyNode.Load(),
		CreateElement:       c.createElement.Load(),
		CreateText:          c.createText.Load(),
		AppendChild:         c.appendChild.Load(),
		InsertBefore:        c.insertBefore.Load(),
		RemoveChild:         c.removeChild.Load(),
		SetAttribute:        c.setAttribute.Load(),
		SetText:             c.setText.Load(),
		ViewsCreated:        c.viewsCreated.Load(),
		ViewsDestroyed:      c.viewsDestroyed.Load(),
		Passes:              c.passes.Load(),
	}
}

func (c *counters) reset() {
	for _, v := range []*atomic.Int64{
		&c.rendererCreate, &c.rendererDestroy, &c.rendererDestroyNode,
		&c.createElement, &c.createText, &c.appendChild, &c.insertBefore,
		&c.removeChild, &c.setAttribute, &c.setText,
		&c.viewsCreated, &c.viewsDestroyed, &c.passes,
	} {
		v.Store(0)
	}
}
