package domain

// SlotKind names what a view slot holds.
type SlotKind string

const (
	SlotElement   SlotKind = "element"
	SlotText      SlotKind = "text"
	SlotContainer SlotKind = "container"
	SlotComponent SlotKind = "component"
)

// ViewInfo is a read-only description of a live view, used for introspection.
type ViewInfo struct {
	ID      string     `json:"id"`
	Kind    ViewKind   `json:"kind"`
	Name    string     `json:"name,omitempty"`
	BlockID int        `json:"block_id,omitempty"`
	Slots   []SlotInfo `json:"slots"`
}

// SlotInfo describes one slot of a view.
// Views holds the embedded views of a container or the view of a component.
type SlotInfo struct {
	Index int        `json:"index"`
	Kind  SlotKind   `json:"kind"`
	Tag   string     `json:"tag,omitempty"`
	Text  string     `json:"text,omitempty"`
	Views []ViewInfo `json:"views,omitempty"`
}

// Walk visits v and every descendant view depth-first, parents before children.
func (v ViewInfo) Walk(fn func(depth int, v ViewInfo)) {
	v.walk(0, fn)
}

func (v ViewInfo) walk(depth int, fn func(int, ViewInfo)) {
	fn(depth, v)
	for _, s := range v.Slots {
		for _, child := range s.Views {
			child.walk(depth+1, fn)
		}
	}
}
