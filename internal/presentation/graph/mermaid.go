package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Overlay highlights views on the generated graph.
type Overlay struct {
	// Changed lists the views created or updated by the last pass.
	Changed []string
	// Focus is drawn with the strongest emphasis.
	Focus string
}

// GenerateMermaid produces a Mermaid flowchart of a view tree.
// It applies semantic styling:
// - Root: ((Circle))
// - Component: [[Subroutine]]
// - Embedded: [Rectangle]
// Container edges are solid and labelled with the slot; component boundaries are dotted.
func GenerateMermaid(root domain.ViewInfo, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	root.Walk(func(_ int, v domain.ViewInfo) {
		safeID := sanitizeMermaidID(v.ID)

		opener, closer := "[", "]"
		switch v.Kind {
		case domain.ViewRoot:
			opener, closer = "((", "))"
		case domain.ViewComponent:
			opener, closer = "[[", "]]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label(v), closer))

		for _, s := range v.Slots {
			for _, child := range s.Views {
				safeTo := sanitizeMermaidID(child.ID)
				if s.Kind == domain.SlotComponent {
					sb.WriteString(fmt.Sprintf("    %s -. \"&lt;%s&gt;\" .-> %s\n", safeID, s.Tag, safeTo))
					continue
				}
				sb.WriteString(fmt.Sprintf("    %s -- \"slot %d\" --> %s\n", safeID, s.Index, safeTo))
			}
		}
	})

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef changed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Changed {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s changed;\n", safeID))
			}
		}
		if overlay.Focus != "" {
			sb.WriteString(fmt.Sprintf("    class %s focus;\n", sanitizeMermaidID(overlay.Focus)))
		}
	}

	return sb.String()
}

func label(v domain.ViewInfo) string {
	switch {
	case v.Kind == domain.ViewEmbedded:
		return fmt.Sprintf("%s <br/> block %d", v.ID, v.BlockID)
	case v.Name != "":
		return fmt.Sprintf("%s <br/> %s", v.Name, v.ID)
	}
	return v.ID
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
