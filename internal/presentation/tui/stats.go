package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/muesli/termenv"
)

// PrintStats writes s as an aligned table. Non-zero structural counters are
// highlighted, zero counters are faint.
func PrintStats(w io.Writer, p termenv.Profile, s domain.Stats) {
	rows := []struct {
		name       string
		value      int64
		structural bool
	}{
		{"passes", s.Passes, false},
		{"views created", s.ViewsCreated, false},
		{"views destroyed", s.ViewsDestroyed, false},
		{"renderer create", s.RendererCreate, true},
		{"renderer destroy", s.RendererDestroy, true},
		{"renderer destroyNode", s.RendererDestroyNode, true},
		{"createElement", s.CreateElement, true},
		{"createText", s.CreateText, true},
		{"appendChild", s.AppendChild, true},
		{"insertBefore", s.InsertBefore, true},
		{"removeChild", s.RemoveChild, true},
		{"setAttribute", s.SetAttribute, false},
		{"setText", s.SetText, false},
	}

	header := p.String("renderer stats").Bold()
	fmt.Fprintln(w, header)
	for _, r := range rows {
		value := p.String(fmt.Sprintf("%6d", r.value))
		switch {
		case r.value == 0:
			value = value.Faint()
		case r.structural:
			value = value.Foreground(p.Color("#fbbf24"))
		default:
			value = value.Foreground(p.Color("#4ade80"))
		}
		fmt.Fprintf(w, "  %-22s %s\n", r.name, value)
	}
}
