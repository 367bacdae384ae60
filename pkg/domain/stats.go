package domain

// Stats is a snapshot of diagnostic counters.
// Every counter reflects renderer calls that returned; a call that panicked is not counted.
type Stats struct {
	RendererCreate      int64 `json:"renderer_create"`
	RendererDestroy     int64 `json:"renderer_destroy"`
	RendererDestroyNode int64 `json:"renderer_destroy_node"`
	CreateElement       int64 `json:"create_element"`
	CreateText          int64 `json:"create_text"`
	AppendChild         int64 `json:"append_child"`
	InsertBefore        int64 `json:"insert_before"`
	RemoveChild         int64 `json:"remove_child"`
	SetAttribute        int64 `json:"set_attribute"`
	SetText             int64 `json:"set_text"`
	ViewsCreated        int64 `json:"views_created"`
	ViewsDestroyed      int64 `json:"views_destroyed"`
	Passes              int64 `json:"passes"`
}

// Sub returns the difference s - base, used to measure a single pass.
func (s Stats) Sub(base Stats) Stats {
	return Stats{
		RendererCreate:      s.RendererCreate - base.RendererCreate,
		RendererDestroy:     s.RendererDestroy - base.RendererDestroy,
		RendererDestroyNode: s.RendererDestroyNode - base.RendererDestroyNode,
		CreateElement:       s.CreateElement - base.CreateElement,
		CreateText:          s.CreateText - base.CreateText,
		AppendChild:         s.AppendChild - base.AppendChild,
		InsertBefore:        s.InsertBefore - base.InsertBefore,
		RemoveChild:         s.RemoveChild - base.RemoveChild,
		SetAttribute:        s.SetAttribute - base.SetAttribute,
		SetText:             s.SetText - base.SetText,
		ViewsCreated:        s.ViewsCreated - base.ViewsCreated,
		ViewsDestroyed:      s.ViewsDestroyed - base.ViewsDestroyed,
		Passes:              s.Passes - base.Passes,
	}
}

// StructuralChanges counts calls that create, move or destroy nodes.
func (s Stats) StructuralChanges() int64 {
	return s.RendererCreate + s.RendererDestroy + s.RendererDestroyNode +
		s.CreateElement + s.CreateText + s.AppendChild + s.InsertBefore + s.RemoveChild
}
